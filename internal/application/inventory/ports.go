package inventory

import (
	"context"

	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de movimientos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		vehicleRepo repository.VehicleRepository,
		stockRepo repository.StockRepository,
	) error) error
}
