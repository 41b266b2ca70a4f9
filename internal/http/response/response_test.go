package response

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/user-management-service/internal/lib/apperr"
)

func TestOK(t *testing.T) {
	resp := OK()
	assert.Equal(t, StatusOK, resp.Status)
	assert.Nil(t, resp.Data)
}

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]string{"login": "alice1"})
	assert.Equal(t, StatusOK, resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something went wrong")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something went wrong", resp.Error)
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "not found",
			err:        fmt.Errorf("no rows: %w", apperr.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantError:  "user not found",
		},
		{
			name:       "domain validation shows the rule",
			err:        fmt.Errorf("%w: the login is too short", apperr.ErrDomainValidation),
			wantStatus: http.StatusBadRequest,
			wantError:  "domain validation failed: the login is too short",
		},
		{
			name:       "validation",
			err:        fmt.Errorf("login taken: %w", apperr.ErrValidation),
			wantStatus: http.StatusBadRequest,
			wantError:  "login is already taken",
		},
		{
			name:       "unauthorized",
			err:        fmt.Errorf("admins only: %w", apperr.ErrUnauthorized),
			wantStatus: http.StatusForbidden,
			wantError:  "you do not have permission to perform this action",
		},
		{
			name:       "unclassified error is hidden",
			err:        fmt.Errorf("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, StatusError, resp.Status)
			assert.Equal(t, tt.wantError, resp.Error)
		})
	}
}
