package pagination

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yungbote/lumina-backend/internal/platform/apierr"
)

const (
	DefaultSize = 12
	MaxSize     = 100
	// MaxPage keeps Offset()+Size within int at the largest page size.
	MaxPage = math.MaxInt / MaxSize
)

// Params is a 1-based page request.
type Params struct {
	Page int
	Size int
}

// New clamps page to >= 1 and size to 1..MaxSize, falling back to def.
func New(page, size, def int) Params {
	if def <= 0 {
		def = DefaultSize
	}
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 {
		size = def
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Params{Page: page, Size: size}
}

// FromQuery reads ?page= and ?page_size=. A non-numeric page is rejected the
// same way an out-of-range page is.
func FromQuery(q url.Values, def int) (Params, error) {
	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxPage {
			return Params{}, ErrInvalidPage()
		}
		page = n
	}
	size := 0
	if raw := q.Get("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			size = n
		}
	}
	return New(page, size, def), nil
}

func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Size
}

func (p Params) Limit() int { return p.Size }

// Check rejects a page past the end. The first page is always valid.
func (p Params) Check(total int64) error {
	if p.Page > 1 && int64(p.Offset()) >= total {
		return ErrInvalidPage()
	}
	return nil
}

func (p Params) HasNext(total int64) bool {
	return int64(p.Offset()+p.Size) < total
}

func ErrInvalidPage() *apierr.Error {
	return apierr.New(http.StatusNotFound, "invalid_page", errInvalidPage)
}

var errInvalidPage = errors.New("Invalid page.")

// Page is one slice of a listing plus the total row count.
type Page[T any] struct {
	Items  []T
	Total  int64
	Params Params
}
