// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// CustomClaims расширяет стандартные claims JWT, добавляя логин пользователя
// и роль "Admin" для администраторов.
//
// Токен подписывается симметричным ключом по схеме HS256, содержит issuer,
// audience и фиксированный срок жизни. Механизма обновления нет — по истечении
// срока токен становится недействительным.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/user-management-service/internal/models"
)

// RoleAdmin — значение claim "role" для администраторов.
// У обычных пользователей claim отсутствует.
const RoleAdmin = "Admin"

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	Name                 string `json:"name"`           // Логин пользователя
	Role                 string `json:"role,omitempty"` // Роль, только "Admin"
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, Issuer и пр.)
}

// Maker описывает выпуск и валидацию токенов.
type Maker interface {
	GenerateToken(user *models.User) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker с подписью симметричным ключом.
type MakerImpl struct {
	secretKey string
	issuer    string
	audience  string
	tokenTTL  time.Duration
}

// NewMaker создает MakerImpl с заданными ключом, issuer, audience и временем жизни токена.
func NewMaker(secretKey, issuer, audience string, tokenTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		issuer:    issuer,
		audience:  audience,
		tokenTTL:  tokenTTL,
	}
}

// GenerateToken создает JWT токен для пользователя, подписывая его секретным ключом.
//
// В subject кладётся идентификатор пользователя, в name — логин, в jti —
// уникальный идентификатор самого токена. Claim "role" добавляется только
// администраторам. Время жизни токена определяется полем tokenTTL.
func (j *MakerImpl) GenerateToken(user *models.User) (string, error) {
	const op = "jwt.GenerateToken"
	now := time.Now().UTC()
	claims := CustomClaims{
		Name: user.Login,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UUID,
			ID:        uuid.New().String(),
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	if user.Admin {
		claims.Role = RoleAdmin
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken парсит JWT токен, проверяет подпись, срок жизни, issuer и audience
// без допуска на рассинхронизацию часов, возвращает CustomClaims, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(j.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
