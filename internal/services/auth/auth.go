// Package services содержит логику аутентификации: проверку учетных данных,
// выпуск подписанного токена и его валидацию для middleware.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/user-management-service/internal/lib/apperr"
	"github.com/magabrotheeeer/user-management-service/internal/lib/jwt"
	"github.com/magabrotheeeer/user-management-service/internal/models"
)

// UserProvider описывает поиск пользователя по учетным данным.
type UserProvider interface {
	// GetUserByLoginAndPassword возвращает пользователя, если логин существует
	// и пароль совпадает; иначе apperr.ErrNotFound.
	GetUserByLoginAndPassword(ctx context.Context, login, rawPassword string) (*models.User, error)
}

// AuthService отвечает за вход пользователя и валидацию JWT.
type AuthService struct {
	users    UserProvider
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserProvider, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Login проверяет логин, пароль и активность учетной записи и возвращает
// подписанный токен. Несуществующий логин, неверный пароль и отозванная
// учетная запись дают одну и ту же ошибку, чтобы не раскрывать,
// какая именно проверка не прошла.
func (s *AuthService) Login(ctx context.Context, login, rawPassword string) (string, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByLoginAndPassword(ctx, login, rawPassword)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", fmt.Errorf("%s: invalid login or password: %w", op, apperr.ErrUnauthorized)
		}
		return "", err
	}
	if !user.IsActive() {
		return "", fmt.Errorf("%s: invalid login or password: %w", op, apperr.ErrUnauthorized)
	}

	token, err := s.jwtMaker.GenerateToken(user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ValidateToken проверяет JWT и возвращает его claims, если токен корректен.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}
