package services

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/gcp"
	"github.com/yungbote/lumina-backend/internal/platform/gcp/gcptest"
)

func TestSniffImage(t *testing.T) {
	ext, err := sniffImage(pngBytes(t, 3, 2))
	require.NoError(t, err)
	require.Equal(t, "png", ext)

	_, err = sniffImage(nil)
	require.Equal(t, []string{"No file was submitted."}, requireFieldError(t, err, "file"))

	_, err = sniffImage([]byte("GIF89a but not really"))
	require.Equal(t, []string{errInvalidImage.Error()}, requireFieldError(t, err, "file"))

	_, err = sniffImage(make([]byte, MaxImageUploadBytes+1))
	require.Equal(t, []string{"File too large."}, requireFieldError(t, err, "file"))
}

func TestMediaUploadImage(t *testing.T) {
	bucket := gcptest.NewMemoryBucket()
	svc := NewMediaService(newTestLogger(t), bucket)

	stored, err := svc.UploadImage(bg(), "/blog/abc/", pngBytes(t, 8, 8))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stored.Key, "blog/abc/"))
	require.True(t, strings.HasSuffix(stored.Key, ".png"))
	require.Equal(t, "https://cdn.test/media/"+stored.Key, stored.URL)
	require.True(t, bucket.Has(gcp.BucketCategoryMedia, stored.Key))

	svc.Delete(bg(), stored.Key)
	require.False(t, bucket.Has(gcp.BucketCategoryMedia, stored.Key))

	offline := NewMediaService(newTestLogger(t), nil)
	require.False(t, offline.Enabled())
	_, err = offline.UploadImage(bg(), "blog", pngBytes(t, 2, 2))
	requireAPIError(t, err, http.StatusServiceUnavailable, "storage_unavailable")
}

func TestAvatarRenderInitials(t *testing.T) {
	svc, err := NewAvatarService(nil, newTestLogger(t), nil, gcptest.NewMemoryBucket())
	require.NoError(t, err)

	buf, err := svc.RenderInitials(&types.User{ID: uuid.New(), FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, avatarSize, avatarSize), img.Bounds())

	// Corners sit outside the circle clip.
	_, _, _, a := img.At(0, 0).RGBA()
	require.Zero(t, a)
}

func TestAvatarColorIsStablePerUser(t *testing.T) {
	svc, err := NewAvatarService(nil, newTestLogger(t), nil, nil)
	require.NoError(t, err)
	as := svc.(*avatarService)

	id := uuid.New()
	require.Equal(t, as.pickColor(id), as.pickColor(id))
}

func TestAvatarPaletteOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colors.json")
	require.NoError(t, os.WriteFile(path, []byte(`["ff0000"]`), 0o600))
	t.Setenv("AVATAR_COLORS_JSON_PATH", path)

	svc, err := NewAvatarService(nil, newTestLogger(t), nil, nil)
	require.NoError(t, err)
	got := svc.(*avatarService).pickColor(uuid.New())
	require.Equal(t, uint8(255), got.R)
	require.Zero(t, got.G)
	require.Zero(t, got.B)

	require.NoError(t, os.WriteFile(path, []byte(`["nothex"]`), 0o600))
	_, err = NewAvatarService(nil, newTestLogger(t), nil, nil)
	require.Error(t, err)
}

func TestProcessUploadedAvatarCropsToSquare(t *testing.T) {
	out, err := processUploadedAvatar(pngBytes(t, 120, 40), 64)
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	require.Equal(t, "png", format)
	require.Equal(t, 64, cfg.Width)
	require.Equal(t, 64, cfg.Height)

	_, err = processUploadedAvatar([]byte("nope"), 64)
	requireFieldError(t, err, "file")
}

func TestAvatarCreateAndUploadFromInitials(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "password1")

	require.NoError(t, env.avatar.CreateAndUploadUserAvatar(env.dbc(), u))
	require.NotEmpty(t, u.AvatarBucketKey)
	require.True(t, env.bucket.Has(gcp.BucketCategoryAvatar, u.AvatarBucketKey))

	me, err := env.user.GetMe(asUser(u))
	require.NoError(t, err)
	require.Equal(t, u.AvatarURL, me.AvatarURL)
}
