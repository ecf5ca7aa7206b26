package repository

import (
	"context"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
)

// ReturnFilter criterios de listado de devoluciones.
type ReturnFilter struct {
	SaleID string
	Limit  int
	Offset int
}

// SalesReturnRepository puerto de persistencia de devoluciones.
type SalesReturnRepository interface {
	// Create inserta cabecera y líneas.
	Create(ctx context.Context, ret *entity.SalesReturn) error
	GetByID(ctx context.Context, id string) (*entity.SalesReturn, error)
	List(ctx context.Context, filter ReturnFilter) ([]*entity.SalesReturn, error)
	// ReturnedQuantities suma lo ya devuelto por línea de venta (saleDetailID -> cantidad).
	ReturnedQuantities(ctx context.Context, saleID string) (map[string]int64, error)
}
