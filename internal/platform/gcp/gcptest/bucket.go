// Package gcptest provides an in-memory gcp.BucketService for tests.
package gcptest

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/gcp"
)

// MemoryBucket stores objects keyed "category/key". Public URLs point at
// https://cdn.test/<category>/<key>.
type MemoryBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

var _ gcp.BucketService = (*MemoryBucket)(nil)

func NewMemoryBucket() *MemoryBucket {
	return &MemoryBucket{objects: map[string][]byte{}}
}

func path(category gcp.BucketCategory, key string) string {
	return string(category) + "/" + key
}

func (b *MemoryBucket) UploadFile(_ dbctx.Context, category gcp.BucketCategory, key string, file io.Reader) error {
	raw, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[path(category, key)] = raw
	return nil
}

func (b *MemoryBucket) DeleteFile(_ dbctx.Context, category gcp.BucketCategory, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, path(category, key))
	b.deleted = append(b.deleted, path(category, key))
	return nil
}

func (b *MemoryBucket) ListKeys(_ context.Context, category gcp.BucketCategory, prefix string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for k := range b.objects {
		if strings.HasPrefix(k, path(category, prefix)) {
			out = append(out, strings.TrimPrefix(k, string(category)+"/"))
		}
	}
	sort.Strings(out)
	return out, nil
}

func (b *MemoryBucket) DeletePrefix(ctx context.Context, category gcp.BucketCategory, prefix string) error {
	keys, _ := b.ListKeys(ctx, category, prefix)
	for _, k := range keys {
		_ = b.DeleteFile(dbctx.Context{Ctx: ctx}, category, k)
	}
	return nil
}

func (b *MemoryBucket) GetPublicURL(category gcp.BucketCategory, key string) string {
	return "https://cdn.test/" + path(category, key)
}

// Has reports whether an object is currently stored.
func (b *MemoryBucket) Has(category gcp.BucketCategory, key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[path(category, key)]
	return ok
}

// Object returns the stored bytes, or nil.
func (b *MemoryBucket) Object(category gcp.BucketCategory, key string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.objects[path(category, key)]
}

// Deleted lists every "category/key" passed to DeleteFile, in call order.
func (b *MemoryBucket) Deleted() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deleted...)
}
