package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customeros/mailbridge/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/probe", handlers...)
	return r
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func TestAPIKeyMiddleware(t *testing.T) {
	r := newRouter(APIKeyMiddleware(APIKeyConfig{ValidAPIKey: "secret"}), ok)

	cases := []struct {
		name   string
		key    string
		status int
		body   string
	}{
		{name: "missing", key: "", status: http.StatusUnauthorized, body: "Missing API key"},
		{name: "wrong", key: "nope", status: http.StatusUnauthorized, body: "Invalid API key"},
		{name: "valid", key: "secret", status: http.StatusOK, body: "ok"},
		{name: "padded", key: "  secret ", status: http.StatusOK, body: "ok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tc.key != "" {
				req.Header.Set(DefaultAPIKeyHeader, tc.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.body)
		})
	}
}

func TestCustomContextMiddleware(t *testing.T) {
	var seen *utils.CustomContext
	r := newRouter(CustomContextMiddleware("mailbridge"), func(c *gin.Context) {
		seen = utils.GetContext(c.Request.Context())
		ok(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe?provider=outlook&company=Acme", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.NotNil(t, seen)
	assert.Equal(t, "mailbridge", seen.AppSource)
	assert.Equal(t, "outlook", seen.Provider)
	assert.Equal(t, "Acme", seen.Company)
	_, err := uuid.Parse(seen.RequestId)
	assert.NoError(t, err)
	assert.Equal(t, seen.RequestId, w.Header().Get(RequestIDHeader))
}

func TestCustomContextMiddleware_KeepsCallerRequestID(t *testing.T) {
	var requestID string
	r := newRouter(CustomContextMiddleware("mailbridge"), func(c *gin.Context) {
		requestID = utils.GetRequestIdFromContext(c.Request.Context())
		ok(c)
	})

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(RequestIDHeader, id)
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, id, requestID)

	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "not-a-uuid", requestID)
}

func TestTracingMiddleware_PassesThrough(t *testing.T) {
	r := newRouter(TracingMiddleware(), ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
