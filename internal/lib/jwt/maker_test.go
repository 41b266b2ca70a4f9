package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/user-management-service/internal/models"
)

const (
	testSecret   = "test-secret-key"
	testIssuer   = "user-management-service"
	testAudience = "user-management-api"
	testTTL      = 7 * 24 * time.Hour
)

func newTestUser(admin bool) *models.User {
	return &models.User{
		UUID:      "8d7f64a2-9a0c-4a4e-9df5-49e0e3a1e001",
		Login:     "alice1",
		Admin:     admin,
		CreatedOn: time.Now().UTC(),
	}
}

func TestMaker_GenerateAndParse(t *testing.T) {
	maker := NewMaker(testSecret, testIssuer, testAudience, testTTL)
	user := newTestUser(false)

	token, err := maker.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)

	assert.Equal(t, user.UUID, claims.Subject)
	assert.Equal(t, user.Login, claims.Name)
	assert.Empty(t, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Contains(t, claims.Audience, testAudience)

	wantExpiry := time.Now().Add(testTTL)
	assert.WithinDuration(t, wantExpiry, claims.ExpiresAt.Time, 5*time.Second)
}

func TestMaker_AdminRoleClaim(t *testing.T) {
	maker := NewMaker(testSecret, testIssuer, testAudience, testTTL)

	adminToken, err := maker.GenerateToken(newTestUser(true))
	require.NoError(t, err)
	adminClaims, err := maker.ParseToken(adminToken)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, adminClaims.Role)

	userToken, err := maker.GenerateToken(newTestUser(false))
	require.NoError(t, err)
	userClaims, err := maker.ParseToken(userToken)
	require.NoError(t, err)
	assert.Empty(t, userClaims.Role)
}

func TestMaker_UniqueTokenIDs(t *testing.T) {
	maker := NewMaker(testSecret, testIssuer, testAudience, testTTL)
	user := newTestUser(false)

	first, err := maker.GenerateToken(user)
	require.NoError(t, err)
	second, err := maker.GenerateToken(user)
	require.NoError(t, err)

	firstClaims, err := maker.ParseToken(first)
	require.NoError(t, err)
	secondClaims, err := maker.ParseToken(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestMaker_ParseErrors(t *testing.T) {
	maker := NewMaker(testSecret, testIssuer, testAudience, testTTL)
	user := newTestUser(false)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "garbage token",
			token: func(_ *testing.T) string {
				return "not.a.token"
			},
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				other := NewMaker("another-secret", testIssuer, testAudience, testTTL)
				tok, err := other.GenerateToken(user)
				require.NoError(t, err)
				return tok
			},
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				other := NewMaker(testSecret, "someone-else", testAudience, testTTL)
				tok, err := other.GenerateToken(user)
				require.NoError(t, err)
				return tok
			},
		},
		{
			name: "wrong audience",
			token: func(t *testing.T) string {
				other := NewMaker(testSecret, testIssuer, "another-api", testTTL)
				tok, err := other.GenerateToken(user)
				require.NoError(t, err)
				return tok
			},
		},
		{
			name: "expired token",
			token: func(t *testing.T) string {
				other := NewMaker(testSecret, testIssuer, testAudience, -time.Minute)
				tok, err := other.GenerateToken(user)
				require.NoError(t, err)
				return tok
			},
		},
		{
			name: "unsigned algorithm",
			token: func(t *testing.T) string {
				claims := CustomClaims{
					Name: user.Login,
					RegisteredClaims: jwtlib.RegisteredClaims{
						Subject:   user.UUID,
						Issuer:    testIssuer,
						Audience:  jwtlib.ClaimStrings{testAudience},
						ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
					},
				}
				tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, claims).
					SignedString(jwtlib.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return tok
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token(t))
			require.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
