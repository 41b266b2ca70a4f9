package create

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/user-management-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-management-service/internal/lib/apperr"
	"github.com/magabrotheeeer/user-management-service/internal/models"
)

type UserServiceMock struct {
	mock.Mock
}

func (m *UserServiceMock) CreateUser(ctx context.Context, actorLogin string, data models.CreateUserData) (*models.UserDTO, error) {
	args := m.Called(ctx, actorLogin, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserDTO), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	validBody := Request{
		Login:    "alice1",
		Password: "secret1",
		Name:     "Alice",
		Gender:   0,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		actor          string
		mockDTO        *models.UserDTO
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:        "success",
			requestBody: validBody,
			actor:       "admin",
			mockDTO: &models.UserDTO{
				UUID:     "alice-uid",
				Login:    "alice1",
				Name:     "Alice",
				IsActive: true,
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			actor:          "admin",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - short password",
			requestBody:    Request{Login: "alice1", Password: "abc", Name: "Alice"},
			actor:          "admin",
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is too short",
			wantStatus:     "Error",
		},
		{
			name:           "missing login in context",
			requestBody:    validBody,
			actor:          "",
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
			wantStatus:     "Error",
		},
		{
			name:           "forbidden for non-admin",
			requestBody:    validBody,
			actor:          "bob22",
			mockErr:        fmt.Errorf("admins only: %w", apperr.ErrUnauthorized),
			wantStatusCode: http.StatusForbidden,
			wantError:      "you do not have permission to perform this action",
			wantStatus:     "Error",
		},
		{
			name:           "login already taken",
			requestBody:    validBody,
			actor:          "admin",
			mockErr:        fmt.Errorf("login is already taken: %w", apperr.ErrValidation),
			wantStatusCode: http.StatusBadRequest,
			wantError:      "login is already taken",
			wantStatus:     "Error",
		},
		{
			name:           "domain validation error",
			requestBody:    Request{Login: "alice1", Password: "secret1", Name: "Alice"},
			actor:          "admin",
			mockErr:        fmt.Errorf("%w: the name contains invalid characters", apperr.ErrDomainValidation),
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(UserServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockDTO != nil || tt.mockErr != nil {
				serviceMock.On("CreateUser", mock.Anything, tt.actor, mock.Anything).
					Return(tt.mockDTO, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.actor != "" {
				ctx = context.WithValue(ctx, middlewarectx.User, tt.actor)
			}
			req = req.WithContext(ctx)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			}
			if tt.mockDTO != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.mockDTO.Login, data["login"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
