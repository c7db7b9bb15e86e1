package services

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/yungbote/lumina-backend/internal/platform/apierr"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
)

var (
	errStorageUnavailable = errors.New("object storage is not configured")
	errAuthRequired       = errors.New("Authentication credentials were not provided.")
)

func storageUnavailable() *apierr.Error {
	return apierr.New(http.StatusServiceUnavailable, "storage_unavailable", errStorageUnavailable)
}

func authRequired() *apierr.Error {
	return apierr.New(http.StatusUnauthorized, "not_authenticated", errAuthRequired)
}

// txBase lets a service join a caller's transaction. gorm turns the nested
// Transaction call into a savepoint.
func txBase(root *gorm.DB, dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return root
}
