package services

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/yungbote/lumina-backend/internal/platform/apierr"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/gcp"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

// StoredImage is an object written to the media bucket.
type StoredImage struct {
	Key string
	URL string
}

type MediaService interface {
	// UploadImage validates raw as an image and stores it under
	// "<prefix>/<nanos>.<ext>".
	UploadImage(dbc dbctx.Context, prefix string, raw []byte) (*StoredImage, error)
	Delete(dbc dbctx.Context, key string)
	Enabled() bool
}

type mediaService struct {
	log           *logger.Logger
	bucketService gcp.BucketService
}

func NewMediaService(log *logger.Logger, bucketService gcp.BucketService) MediaService {
	return &mediaService{
		log:           log.With("service", "MediaService"),
		bucketService: bucketService,
	}
}

func (ms *mediaService) Enabled() bool { return ms.bucketService != nil }

// imageExt maps a decoder name from image.DecodeConfig to a file extension.
var imageExt = map[string]string{
	"png":  "png",
	"jpeg": "jpg",
	"gif":  "gif",
	"webp": "webp",
}

func (ms *mediaService) UploadImage(dbc dbctx.Context, prefix string, raw []byte) (*StoredImage, error) {
	if ms.bucketService == nil {
		return nil, storageUnavailable()
	}
	ext, err := sniffImage(raw)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s/%d.%s", strings.Trim(prefix, "/"), time.Now().UnixNano(), ext)
	if err := ms.bucketService.UploadFile(dbc, gcp.BucketCategoryMedia, key, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	ms.log.Debug("Image uploaded", "key", key, "bytes", len(raw))
	return &StoredImage{Key: key, URL: ms.bucketService.GetPublicURL(gcp.BucketCategoryMedia, key)}, nil
}

// Delete is best effort; failures are logged.
func (ms *mediaService) Delete(dbc dbctx.Context, key string) {
	if ms.bucketService == nil || strings.TrimSpace(key) == "" {
		return
	}
	if err := ms.bucketService.DeleteFile(dbc, gcp.BucketCategoryMedia, key); err != nil {
		ms.log.Warn("failed to delete media object (ignored)", "key", key, "error", err)
	}
}

func sniffImage(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", apierr.FieldError("file", "No file was submitted.")
	}
	if len(raw) > MaxImageUploadBytes {
		return "", apierr.FieldError("file", "File too large.")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return "", invalidImage("file")
	}
	ext, ok := imageExt[format]
	if !ok {
		return "", invalidImage("file")
	}
	return ext, nil
}
