package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/user-management-service/internal/lib/apperr"
	"github.com/magabrotheeeer/user-management-service/internal/lib/jwt"
	"github.com/magabrotheeeer/user-management-service/internal/models"
)

type UserProviderMock struct{ mock.Mock }

func (m *UserProviderMock) GetUserByLoginAndPassword(ctx context.Context, login, rawPassword string) (*models.User, error) {
	args := m.Called(ctx, login, rawPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestMaker() jwt.Maker {
	return jwt.NewMaker("test-secret", "user-management-service", "user-management-api", time.Hour)
}

func TestAuthService_Login(t *testing.T) {
	activeUser := &models.User{
		UUID:      "alice-uid",
		Login:     "alice1",
		Name:      "Alice",
		CreatedOn: time.Now().UTC(),
	}
	revokedUser := &models.User{
		UUID:      "bob-uid",
		Login:     "bob22",
		Name:      "Bob",
		CreatedOn: time.Now().UTC(),
	}
	revokedUser.SoftDelete("admin")

	tests := []struct {
		name       string
		login      string
		password   string
		setupMocks func(m *UserProviderMock)
		wantErr    error
	}{
		{
			name:     "success",
			login:    "alice1",
			password: "secret1",
			setupMocks: func(m *UserProviderMock) {
				m.On("GetUserByLoginAndPassword", mock.Anything, "alice1", "secret1").
					Return(activeUser, nil).Once()
			},
		},
		{
			name:     "unknown login",
			login:    "ghost1",
			password: "secret1",
			setupMocks: func(m *UserProviderMock) {
				m.On("GetUserByLoginAndPassword", mock.Anything, "ghost1", "secret1").
					Return(nil, apperr.ErrNotFound).Once()
			},
			wantErr: apperr.ErrUnauthorized,
		},
		{
			name:     "wrong password",
			login:    "alice1",
			password: "wrong12",
			setupMocks: func(m *UserProviderMock) {
				m.On("GetUserByLoginAndPassword", mock.Anything, "alice1", "wrong12").
					Return(nil, apperr.ErrNotFound).Once()
			},
			wantErr: apperr.ErrUnauthorized,
		},
		{
			name:     "revoked user cannot login",
			login:    "bob22",
			password: "secret1",
			setupMocks: func(m *UserProviderMock) {
				m.On("GetUserByLoginAndPassword", mock.Anything, "bob22", "secret1").
					Return(revokedUser, nil).Once()
			},
			wantErr: apperr.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(UserProviderMock)
			tt.setupMocks(provider)

			svc := NewAuthService(provider, newTestMaker())
			token, err := svc.Login(context.Background(), tt.login, tt.password)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
			}
			provider.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginTokenContents(t *testing.T) {
	admin := &models.User{
		UUID:      "admin-uid",
		Login:     "admin",
		Name:      "administrator",
		Admin:     true,
		CreatedOn: time.Now().UTC(),
	}
	provider := new(UserProviderMock)
	provider.On("GetUserByLoginAndPassword", mock.Anything, "admin", "password").
		Return(admin, nil).Once()

	svc := NewAuthService(provider, newTestMaker())
	token, err := svc.Login(context.Background(), "admin", "password")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "admin-uid", claims.Subject)
	assert.Equal(t, "admin", claims.Name)
	assert.Equal(t, jwt.RoleAdmin, claims.Role)
}

func TestAuthService_ValidateToken_Invalid(t *testing.T) {
	svc := NewAuthService(new(UserProviderMock), newTestMaker())

	claims, err := svc.ValidateToken(context.Background(), "garbage")
	require.Error(t, err)
	assert.Nil(t, claims)
}
