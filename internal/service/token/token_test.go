package token

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/teguhsatriya/furnimart/internal/config"
	"github.com/teguhsatriya/furnimart/internal/models"
)

func newTokenService(t *testing.T) *TokenService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	return &TokenService{
		DB:            db,
		JWTSecret:     []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTokenService(t)

	raw, err := svc.SignAccessToken(42, models.RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.ValidateAccess(raw)
	require.NoError(t, err)
	require.EqualValues(t, 42, claims["sub"])
	require.Equal(t, models.RoleAdmin, claims["role"])
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	svc := newTokenService(t)
	other := newTokenService(t)
	other.JWTSecret = []byte("different")

	raw, err := svc.SignAccessToken(1, models.RoleUser)
	require.NoError(t, err)

	_, err = other.ValidateAccess(raw)
	require.Error(t, err)
}

func TestValidateRefreshRequiresStoredToken(t *testing.T) {
	svc := newTokenService(t)

	raw, err := svc.SignRefreshToken(1, models.RoleUser)
	require.NoError(t, err)

	// signed but never persisted
	_, err = svc.ValidateRefresh(raw)
	require.Error(t, err)

	require.NoError(t, svc.SaveRefreshToken(raw, 1))
	_, err = svc.ValidateRefresh(raw)
	require.NoError(t, err)
}

func TestAccessTokenIsNotARefreshToken(t *testing.T) {
	svc := newTokenService(t)

	raw, err := svc.SignAccessToken(1, models.RoleUser)
	require.NoError(t, err)

	_, err = svc.ValidateRefresh(raw)
	require.Error(t, err)
}

func TestRotateRevokesOldToken(t *testing.T) {
	svc := newTokenService(t)

	raw, err := svc.SignRefreshToken(7, models.RoleUser)
	require.NoError(t, err)
	require.NoError(t, svc.SaveRefreshToken(raw, 7))

	access, refresh, claims, err := svc.Rotate(raw)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	require.NotEqual(t, raw, refresh)
	require.EqualValues(t, 7, claims["sub"])

	// the old token is now revoked
	_, err = svc.ValidateRefresh(raw)
	require.Error(t, err)

	// the new one works
	_, err = svc.ValidateRefresh(refresh)
	require.NoError(t, err)
}
