package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsRouteTemplateAndStatus(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "missing" {
			return fiber.ErrNotFound
		}
		return c.SendString("ok")
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "404"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "404"))
	assert.Equal(t, before+1, after)
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimit(2, time.Minute))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	before := testutil.ToFloat64(rateLimitRejects)
	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, before+1, testutil.ToFloat64(rateLimitRejects))
}

func TestRecover_ReturnsServerError(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(Recover())
	app.Get("/", func(c *fiber.Ctx) error { panic("boom") })

	before := testutil.ToFloat64(panicRecoveries)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	assert.Equal(t, before+1, testutil.ToFloat64(panicRecoveries))
}

func TestMetrics_ScrapeAfterMixedMethods(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/things/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Delete("/things/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for _, method := range []string{http.MethodGet, http.MethodDelete, http.MethodGet} {
		resp, err := app.Test(httptest.NewRequest(method, "/things/1", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `method="DELETE",path="/things/:id"`)
	assert.NotContains(t, string(body), "GETETE")
}
