package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/concesionario-api/internal/infrastructure/metrics"
)

func TestMetrics_ExponeContadores(t *testing.T) {
	m := metrics.New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/ping/:id", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping/1", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	m.MovementCreated("TRANSFER")
	m.MovementReceived()
	m.ReturnCreated()
	m.DomainError("CONFLICT")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	assert.Contains(t, text, `concesionario_movements_created_total{type="TRANSFER"} 1`)
	assert.Contains(t, text, `concesionario_movements_closed_total{result="received"} 1`)
	assert.Contains(t, text, `concesionario_sales_returns_created_total 1`)
	assert.Contains(t, text, `concesionario_domain_errors_total{code="CONFLICT"} 1`)
	assert.Contains(t, text, `route="/ping/:id"`)
}

func TestMetrics_NilEsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.MovementCreated("ENTRY")
		m.MovementDeleted()
		m.ReturnCreated()
		m.DomainError("X")
	})

	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
