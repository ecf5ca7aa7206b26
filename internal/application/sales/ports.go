package sales

import (
	"context"
	"time"

	"github.com/jhoicas/concesionario-api/internal/application/inventory"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

// ReturnTxRunner ejecuta una función dentro de una transacción que incluye repos de inventario y de ventas.
type ReturnTxRunner interface {
	RunReturn(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		vehicleRepo repository.VehicleRepository,
		stockRepo repository.StockRepository,
		saleRepo repository.SaleRepository,
		returnRepo repository.SalesReturnRepository,
	) error) error
}

// MovementCreator contrato de creación de movimientos del motor de inventario.
// CreateMovementInTx usa los repositorios del caller (misma transacción); si retorna error
// el caller debe hacer rollback.
type MovementCreator interface {
	CreateMovementInTx(
		ctx context.Context,
		movRepo repository.MovementRepository,
		vehicleRepo repository.VehicleRepository,
		stockRepo repository.StockRepository,
		in inventory.MovementInput,
		now time.Time,
	) (*entity.Movement, error)
}
