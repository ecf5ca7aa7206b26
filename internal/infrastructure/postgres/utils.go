package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/concesionario-api/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// mapError traduce errores de PostgreSQL a errores de dominio conservando el original en la cadena.
// Errores ya de dominio o desconocidos se devuelven tal cual.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if err == nil || isDomain(err) || !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable, codeUniqueViolation:
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	case codeCheckViolation:
		if pgErr.ConstraintName == "stock_quantity_check" {
			return fmt.Errorf("%w: %w", domain.ErrInsufficientStock, err)
		}
		return fmt.Errorf("%w: %w", domain.ErrInvariantViolation, err)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	return err
}

func isDomain(err error) bool {
	for _, target := range []error{
		domain.ErrNotFound, domain.ErrConflict, domain.ErrInsufficientStock, domain.ErrInvariantViolation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
