package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newTestEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newTestEngine(RateLimitMiddleware(NewRateLimiter(1, 2), zap.NewNop()))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}

func TestRateLimiterIsPerIP(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	if rl.GetLimiter("10.0.0.1") == rl.GetLimiter("10.0.0.2") {
		t.Fatalf("expected separate limiters per ip")
	}
	if rl.GetLimiter("10.0.0.1") != rl.GetLimiter("10.0.0.1") {
		t.Fatalf("expected limiter reuse for the same ip")
	}
}

func TestCORSMiddleware(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"any_origin", nil, "http://dash.local", "http://dash.local"},
		{"exact_match", []string{"http://dash.local/"}, "http://dash.local", "http://dash.local"},
		{"bare_host", []string{"dash.local:3000"}, "https://dash.local:3000", "https://dash.local:3000"},
		{"rejected", []string{"http://other.local"}, "http://dash.local", ""},
		{"no_origin", nil, "", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newTestEngine(CORSMiddleware(c.allowed))
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if c.origin != "" {
				req.Header.Set("Origin", c.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != c.want {
				t.Fatalf("expected allow-origin %q, got %q", c.want, got)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestEngine(CORSMiddleware(nil))
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://dash.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := newTestEngine(SecurityHeadersMiddleware(), RequestLogger(zap.NewNop()))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if w.Header().Get("X-Frame-Options") != "DENY" || w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing security headers: %v", w.Header())
	}
}
