package repository

import (
	"context"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
)

// LocationRepository puerto de lectura de ubicaciones (datos de referencia).
type LocationRepository interface {
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Location, error)
}
