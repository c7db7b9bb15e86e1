package response

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lumina-backend/internal/pkg/pagination"
)

// PageEnvelope is the list body every paginated endpoint returns.
type PageEnvelope[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func NewPageEnvelope[T any](c *gin.Context, page pagination.Page[T]) PageEnvelope[T] {
	out := PageEnvelope[T]{Count: page.Total, Results: page.Items}
	if out.Results == nil {
		out.Results = []T{}
	}
	if page.Params.HasNext(page.Total) {
		u := pageURL(c, page.Params.Page+1)
		out.Next = &u
	}
	if page.Params.Page > 1 {
		u := pageURL(c, page.Params.Page-1)
		out.Previous = &u
	}
	return out
}

func RespondPage[T any](c *gin.Context, page pagination.Page[T]) {
	c.JSON(http.StatusOK, NewPageEnvelope(c, page))
}

// MapPage converts the items of a page, keeping its totals.
func MapPage[T, U any](page pagination.Page[T], fn func(T) U) pagination.Page[U] {
	items := make([]U, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, fn(it))
	}
	return pagination.Page[U]{Items: items, Total: page.Total, Params: page.Params}
}

// pageURL rebuilds the absolute request URL pointing at page n. The first
// page drops the page parameter.
func pageURL(c *gin.Context, n int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fwd := c.GetHeader("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	q := c.Request.URL.Query()
	if n <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: q.Encode(),
	}
	return u.String()
}
