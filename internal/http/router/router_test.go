package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apphttp "propscout_backend/internal/http"
	"propscout_backend/platform/httpkit"
	"propscout_backend/platform/logger"
	"propscout_backend/platform/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	metrics bool
	burst   int
}

func (testConfig) GetHTTPAddr() string               { return ":0" }
func (testConfig) GetCORSAllowAll() bool             { return false }
func (testConfig) GetCORSOrigins() []string          { return []string{"http://localhost:3000"} }
func (testConfig) GetCORSAllowCreds() bool           { return false }
func (testConfig) GetShutdownTimeout() time.Duration { return time.Second }
func (testConfig) GetRateLimitRPS() float64          { return 1 }
func (c testConfig) GetRateLimitBurst() int          { return c.burst }
func (c testConfig) IsMetricsEnabled() bool          { return c.metrics }

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type echoModule struct{}

func (echoModule) Name() string { return "echo" }

func (echoModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, "echo")
	})
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	engine.ServeHTTP(w, req)
	return w
}

func TestRouterHealthAndModules(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := New(&apphttp.App{
		Config:  testConfig{burst: 10},
		Logger:  logger.Discard(),
		Modules: []apphttp.Module{echoModule{}},
	})

	w := serve(engine, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(httpkit.RequestIDHeader))

	w = serve(engine, http.MethodGet, "/api/ready")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, http.MethodGet, "/api/v1/echo")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "echo", w.Body.String())

	w = serve(engine, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterReadinessFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := New(&apphttp.App{
		Config: testConfig{burst: 10},
		Logger: logger.Discard(),
		Health: pingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})

	w := serve(engine, http.MethodGet, "/api/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouterRateLimitsAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := New(&apphttp.App{
		Config:  testConfig{burst: 1},
		Logger:  logger.Discard(),
		Modules: []apphttp.Module{echoModule{}},
	})

	require.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/echo").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(engine, http.MethodGet, "/api/v1/echo").Code)

	// Health checks sit outside the limited group.
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/health").Code)
}

func TestRouterExposesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := New(&apphttp.App{
		Config:  testConfig{burst: 10, metrics: true},
		Logger:  logger.Discard(),
		Metrics: metrics.New(),
		Modules: []apphttp.Module{echoModule{}},
	})

	require.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/echo").Code)

	w := serve(engine, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `route="/api/v1/echo"`), w.Body.String())
}
