package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-book/src/config"
)

func newAvailabilityApp(sa *ServiceAvailability, handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(sa.Middleware())
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/work", handler)
	return app
}

func okHandler(c *fiber.Ctx) error { return c.SendString("done") }

func TestMaintenanceModeRejectsRequests(t *testing.T) {
	sa := NewServiceAvailability(config.HTTPConfig{MaintenanceMode: true})
	app := newAvailabilityApp(sa, okHandler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/work", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "health stays reachable")
}

func TestMaintenanceModeToggle(t *testing.T) {
	sa := NewServiceAvailability(config.HTTPConfig{})
	app := newAvailabilityApp(sa, okHandler)

	sa.SetMaintenanceMode(true)
	assert.True(t, sa.IsMaintenanceMode())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/work", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	sa.SetMaintenanceMode(false)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/work", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestConcurrencyCapRejectsOverload(t *testing.T) {
	sa := NewServiceAvailability(config.HTTPConfig{MaxConcurrentRequests: 1})
	entered := make(chan struct{})
	release := make(chan struct{})
	app := newAvailabilityApp(sa, func(c *fiber.Ctx) error {
		close(entered)
		<-release
		return c.SendString("slow")
	})

	first := make(chan int, 1)
	go func() {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/work", nil), -1)
		if err != nil {
			first <- 0
			return
		}
		first <- resp.StatusCode
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first request never reached the handler")
	}
	assert.Equal(t, int64(1), sa.GetInFlightRequests())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/work", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	close(release)
	assert.Equal(t, http.StatusOK, <-first)
	assert.Equal(t, int64(0), sa.GetInFlightRequests())
}
