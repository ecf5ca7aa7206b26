package repository

import (
	"context"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
)

// SaleRepository puerto de lectura de ventas (propiedad del módulo comercial).
type SaleRepository interface {
	// GetByID devuelve la venta con sus líneas y el nombre de la sede; nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// LockDetails bloquea las líneas de la venta (SELECT FOR UPDATE) para serializar devoluciones.
	LockDetails(ctx context.Context, saleID string) ([]*entity.SaleDetail, error)
}
