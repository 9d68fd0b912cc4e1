package observability

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/employee-service/internal/config"
)

func TestNewLoggerFallsBackOnBadLevel(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "chatty"}, config.AppConfig{Name: "employee-service"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestRequestLoggerAssignsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := NewMetrics()

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, resp.Header.Get(RequestIDHeader), entries[0].ContextMap()["request_id"])
	assert.Equal(t, int64(1), metrics.Snapshot().Requests["GET|/ping|200"].Count)
}

func TestRequestLoggerKeepsCallerRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), nil))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString(RequestID(c)) })

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}
