package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/lumina-backend/internal/pkg/pagination"
	"github.com/yungbote/lumina-backend/internal/platform/apierr"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/services"
)

func dbcFrom(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}

func pageParams(c *gin.Context, pageSize int) (pagination.Params, error) {
	return pagination.FromQuery(c.Request.URL.Query(), pageSize)
}

// queryUUID returns nil for an absent parameter and a field error for a
// malformed one.
func queryUUID(c *gin.Context, key string) (*uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apierr.FieldError(key, "Must be a valid UUID.")
	}
	return &id, nil
}

// readUpload reads the multipart "file" part, bounded by the media limit.
func readUpload(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, apierr.FieldError("file", "No file was submitted.")
	}
	if fh.Size > services.MaxImageUploadBytes {
		return nil, apierr.FieldError("file", fmt.Sprintf("File too large (max %d MB).", services.MaxImageUploadBytes>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_upload", err)
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, services.MaxImageUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(raw) == 0 {
		return nil, apierr.FieldError("file", "The submitted file is empty.")
	}
	return raw, nil
}
