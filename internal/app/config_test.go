package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, k := range []string{"LOG_MODE", "PORT", "JWT_SECRET_KEY", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "PAGE_SIZE", "AVATAR_GCS_BUCKET_NAME", "MEDIA_GCS_BUCKET_NAME"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 24*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, 12, cfg.PageSize)
	require.Equal(t, "lumina-development-secret", cfg.JWTSecret())
	require.False(t, cfg.StorageConfigured())
}

func TestLoadConfigReadsDotenvFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9090\nACCESS_TOKEN_TTL=15m\nAVATAR_GCS_BUCKET_NAME=avatars\nMEDIA_GCS_BUCKET_NAME=media\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Cleanup(func() {
		for _, k := range []string{"PORT", "ACCESS_TOKEN_TTL", "AVATAR_GCS_BUCKET_NAME", "MEDIA_GCS_BUCKET_NAME"} {
			_ = os.Unsetenv(k)
		}
	})

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr())
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.True(t, cfg.StorageConfigured())
}

func TestLoadConfigRequiresSecretInProduction(t *testing.T) {
	isolateEnv(t)
	t.Setenv("LOG_MODE", "production")

	_, err := LoadConfig()
	require.ErrorContains(t, err, "JWT_SECRET_KEY")

	t.Setenv("JWT_SECRET_KEY", "s3cret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "s3cret", cfg.JWTSecret())
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	isolateEnv(t)
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
}
