package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(handlers...)
	router.POST("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return router
}

func TestValidateContentType(t *testing.T) {
	router := newEngine(ValidateContentType("application/json"))

	tests := []struct {
		name        string
		contentType string
		want        int
	}{
		{"matching", "application/json", http.StatusOK},
		{"matching with charset", "application/json; charset=utf-8", http.StatusOK},
		{"missing", "", http.StatusOK},
		{"wrong type", "text/plain", http.StatusUnsupportedMediaType},
		{"garbage", ";;;", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestBodyLimitRejectsDeclaredLength(t *testing.T) {
	router := newEngine(BodyLimit(4))

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("too long body"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCORS(t *testing.T) {
	router := newEngine(CORS([]string{"https://app.example"}))

	req := httptest.NewRequest(http.MethodOptions, "/echo", nil)
	req.Header.Set("Origin", "https://app.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Disposition", w.Header().Get("Access-Control-Expose-Headers"))

	req = httptest.NewRequest(http.MethodOptions, "/echo", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	router := newEngine(ErrorHandler(zap.NewNop()), SecurityHeaders())

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal server error"}`, w.Body.String())
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
