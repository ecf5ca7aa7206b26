package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

var _ repository.VehicleRepository = (*VehicleRepo)(nil)

// VehicleRepo vehículos sobre PostgreSQL (usable con pool o tx).
type VehicleRepo struct {
	q Querier
}

// NewVehicleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVehicleRepository(q Querier) *VehicleRepo {
	return &VehicleRepo{q: q}
}

const vehicleColumns = `id, serial_number, COALESCE(engine_number, ''), model_id, color_id, location_id, status, created_at, updated_at`

// GetByID obtiene un vehículo por ID.
func (r *VehicleRepo) GetByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	return r.get(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
}

// GetForUpdate obtiene el vehículo y bloquea la fila (SELECT FOR UPDATE).
func (r *VehicleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Vehicle, error) {
	return r.get(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1 FOR UPDATE`, id)
}

func (r *VehicleRepo) get(ctx context.Context, query, id string) (*entity.Vehicle, error) {
	var (
		v      entity.Vehicle
		status string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.SerialNumber, &v.EngineNumber, &v.ModelID, &v.ColorID,
		&v.LocationID, &status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vehicle: %w", mapError(err))
	}
	// Normaliza a código (acepta etiquetas "Dañado"); fuera del catálogo es violación de invariante.
	if v.Status, err = entity.ParseAvailabilityStatus(status); err != nil {
		return nil, fmt.Errorf("get vehicle %s: %w: %w", v.ID, domain.ErrInvariantViolation, err)
	}
	return &v, nil
}

// UpdatePlacement actualiza ubicación y disponibilidad; el CHECK de la tabla exige que sean coherentes.
func (r *VehicleRepo) UpdatePlacement(ctx context.Context, id string, locationID *string, status entity.AvailabilityStatus, at time.Time) error {
	query := `UPDATE vehicles SET location_id = $2, status = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, locationID, string(status), at)
	if err != nil {
		return fmt.Errorf("update vehicle placement: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update vehicle placement %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
