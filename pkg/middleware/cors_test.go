package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS_Wildcard(t *testing.T) {
	h := CORS(DefaultCORSConfig())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/coffees", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "X-Correlation-ID", rr.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCORS_Origins(t *testing.T) {
	h := CORS(CORSConfig{AllowedOrigins: []string{"https://yuhukopi.app"}})(okHandler())

	tests := []struct {
		name   string
		origin string
		want   string
	}{
		{"listed origin echoed", "https://yuhukopi.app", "https://yuhukopi.app"},
		{"other origin rejected", "https://evil.example", ""},
		{"no origin", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	reached := false
	h := CORS(CORSConfig{AllowedOrigins: []string{"*"}, MaxAge: 600})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.False(t, reached)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "600", rr.Header().Get("Access-Control-Max-Age"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), HeaderSessionID)
}

func TestCORS_Credentials(t *testing.T) {
	h := CORS(CORSConfig{AllowedOrigins: []string{"https://a.test"}, AllowCredentials: true})(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://a.test")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "Origin", rr.Header().Get("Vary"))
}

func TestCacheControl(t *testing.T) {
	h := CacheControl(300)(okHandler())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/coffees", nil))
	assert.Equal(t, "public, max-age=300", rr.Header().Get("Cache-Control"))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/coffees", nil))
	assert.Empty(t, rr.Header().Get("Cache-Control"))
}

func TestNoStore(t *testing.T) {
	rr := httptest.NewRecorder()
	NoStore(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/orders", nil))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}
