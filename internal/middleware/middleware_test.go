package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw)
	r.GET("/api/v1/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/api/v1/records", func(c *gin.Context) { c.String(http.StatusOK, SessionID(c)) })
	return r
}

func get(r http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	r := okRouter(RateLimitMiddleware(rate.NewLimiter(rate.Limit(0.001), 1)))

	assert.Equal(t, http.StatusOK, get(r, "/api/v1/records").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/api/v1/records").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/health").Code)
}

func TestIPRateLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.001), 1)
	r := okRouter(IPRateLimitMiddleware(limiter))

	assert.Equal(t, http.StatusOK, get(r, "/api/v1/records").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/api/v1/records").Code)
	assert.Same(t, limiter.GetLimiter("1.2.3.4"), limiter.GetLimiter("1.2.3.4"))
	assert.NotSame(t, limiter.GetLimiter("1.2.3.4"), limiter.GetLimiter("5.6.7.8"))
}

func TestSession(t *testing.T) {
	r := okRouter(Session(3600))

	w := get(r, "/api/v1/records")
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	_, err := uuid.Parse(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, cookies[0].Value, w.Body.String())

	// An existing valid id is kept.
	again := get(r, "/api/v1/records", cookies[0])
	assert.Equal(t, cookies[0].Value, again.Body.String())

	// A forged id is replaced.
	forged := get(r, "/api/v1/records", &http.Cookie{Name: SessionCookie, Value: "../../etc"})
	assert.NotEqual(t, "../../etc", forged.Body.String())
}
