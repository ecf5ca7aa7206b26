package repository

import (
	"context"
	"time"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
)

// VehicleRepository puerto de persistencia de vehículos.
// Ubicación y disponibilidad solo se modifican desde movimientos y devoluciones.
type VehicleRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Vehicle, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Devuelve nil, nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Vehicle, error)
	UpdatePlacement(ctx context.Context, id string, locationID *string, status entity.AvailabilityStatus, at time.Time) error
}
