package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	origins := ParseOrigins(" https://shop.example.com/ ,http://localhost:3000")
	cases := []struct {
		origin string
		want   string
	}{
		{"https://shop.example.com", "https://shop.example.com"},
		{"http://localhost:3000", "http://localhost:3000"},
		{"https://evil.example.com", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.origin, func(t *testing.T) {
			t.Parallel()
			r := gin.New()
			r.Use(CORS(origins))
			r.POST("/api/orders/create/", func(c *gin.Context) {
				c.Status(http.StatusCreated)
			})

			req := httptest.NewRequest(http.MethodOptions, "/api/orders/create/", nil)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.want {
				t.Fatalf("unexpected allow-origin header: got=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestParseOriginsDefaults(t *testing.T) {
	got := ParseOrigins(" , ")
	if len(got) != len(defaultOrigins) {
		t.Fatalf("expected dev defaults, got=%v", got)
	}
}
