// Package metrics contadores e histogramas Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "concesionario"

// Metrics colectores registrados en un registro propio (no el global), para poder crear varios en tests.
// Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	registry         *prometheus.Registry
	requests         *prometheus.HistogramVec
	movementsCreated *prometheus.CounterVec
	movementsClosed  *prometheus.CounterVec
	returnsCreated   prometheus.Counter
	domainErrors     *prometheus.CounterVec
}

// New crea y registra los colectores, incluidos los de runtime de Go y del proceso.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de peticiones HTTP por ruta, método y código.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		movementsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_created_total",
			Help:      "Movimientos creados por tipo.",
		}, []string{"type"}),
		movementsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_closed_total",
			Help:      "Traslados cerrados por resultado (received, deleted).",
		}, []string{"result"}),
		returnsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_returns_created_total",
			Help:      "Devoluciones de venta registradas.",
		}),
		domainErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_errors_total",
			Help:      "Errores devueltos al cliente por código.",
		}, []string{"code"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.movementsCreated, m.movementsClosed, m.returnsCreated, m.domainErrors,
	)
	return m
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware mide la duración de cada petición. Usa la ruta registrada (no la URL) para acotar cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		m.requests.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
		return err
	}
}

// MovementCreated cuenta un movimiento creado.
func (m *Metrics) MovementCreated(movementType string) {
	if m == nil {
		return
	}
	m.movementsCreated.WithLabelValues(movementType).Inc()
}

// MovementReceived cuenta un traslado recibido.
func (m *Metrics) MovementReceived() {
	if m == nil {
		return
	}
	m.movementsClosed.WithLabelValues("received").Inc()
}

// MovementDeleted cuenta un traslado eliminado.
func (m *Metrics) MovementDeleted() {
	if m == nil {
		return
	}
	m.movementsClosed.WithLabelValues("deleted").Inc()
}

// ReturnCreated cuenta una devolución registrada.
func (m *Metrics) ReturnCreated() {
	if m == nil {
		return
	}
	m.returnsCreated.Inc()
}

// DomainError cuenta un error devuelto al cliente.
func (m *Metrics) DomainError(code string) {
	if m == nil {
		return
	}
	m.domainErrors.WithLabelValues(code).Inc()
}
