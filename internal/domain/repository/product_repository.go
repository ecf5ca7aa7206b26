package repository

import (
	"context"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
)

// ProductRepository puerto de lectura de productos.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
