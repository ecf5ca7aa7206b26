package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/concesionario-api/internal/application/dto"
	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/infrastructure/metrics"
	"github.com/jhoicas/concesionario-api/pkg/logger"
)

// errorMapping traduce un error de dominio a código HTTP y código de negocio.
type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInsufficientStock, fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
	{domain.ErrInvariantViolation, fiber.StatusUnprocessableEntity, "INVARIANT_VIOLATION"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// errorWriter responde errores con dto.ErrorResponse; los 5xx se registran y no exponen detalle.
type errorWriter struct {
	log     *logger.Logger
	metrics *metrics.Metrics
}

func (w errorWriter) write(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			w.metrics.DomainError(m.code)
			w.log.Debug().Err(err).
				Str("code", m.code).
				Str("path", c.Path()).
				Str("request_id", requestID(c)).
				Msg("error de dominio")
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: publicMessage(err, m.target)})
		}
	}
	w.metrics.DomainError("INTERNAL")
	w.log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", requestID(c)).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

// publicMessage devuelve el texto del error para el cliente. Si la cadena trae un error del
// driver (*pgconn.PgError) se responde solo el mensaje de dominio.
func publicMessage(err, target error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return target.Error()
	}
	return err.Error()
}

// ErrorHandler para fiber.Config: errores no capturados por los handlers (404 de ruta, panics recuperados, etc.).
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: httpCode(fe.Code), Message: fe.Message})
		}
		return errorWriter{log: log}.write(c, err)
	}
}

func httpCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL"
	}
	return "ERROR"
}
