package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

var _ repository.InventoryReportRepository = (*InventoryReportRepo)(nil)

// InventoryReportRepo agregaciones de solo lectura sobre vehículos en stock.
type InventoryReportRepo struct {
	q Querier
}

// NewInventoryReportRepository construye el adaptador.
func NewInventoryReportRepository(q Querier) *InventoryReportRepo {
	return &InventoryReportRepo{q: q}
}

// CountByModelColorStatus agrupa los vehículos con ubicación por modelo, color y estado.
func (r *InventoryReportRepo) CountByModelColorStatus(ctx context.Context, locationID string) ([]repository.VehicleCountResult, error) {
	query := `
		SELECT v.model_id, vm.name, v.color_id, c.name, v.status, COUNT(*)
		FROM vehicles v
		JOIN vehicle_models vm ON vm.id = v.model_id
		JOIN colors c ON c.id = v.color_id
		WHERE v.location_id IS NOT NULL AND ($1 = '' OR v.location_id::text = $1)
		GROUP BY v.model_id, vm.name, v.color_id, c.name, v.status
		ORDER BY vm.name, c.name, v.status`
	rows, err := r.q.Query(ctx, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("count by model color status: %w", mapError(err))
	}
	defer rows.Close()
	var out []repository.VehicleCountResult
	for rows.Next() {
		var row repository.VehicleCountResult
		if err := rows.Scan(&row.ModelID, &row.ModelName, &row.ColorID, &row.ColorName, &row.Status, &row.Count); err != nil {
			return nil, fmt.Errorf("scan vehicle count: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountByLocation agrupa los vehículos con ubicación por ubicación y estado.
func (r *InventoryReportRepo) CountByLocation(ctx context.Context) ([]repository.LocationCountResult, error) {
	query := `
		SELECT v.location_id, l.name, v.status, COUNT(*)
		FROM vehicles v
		JOIN locations l ON l.id = v.location_id
		GROUP BY v.location_id, l.name, v.status
		ORDER BY l.name, v.status`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count by location: %w", mapError(err))
	}
	defer rows.Close()
	var out []repository.LocationCountResult
	for rows.Next() {
		var row repository.LocationCountResult
		if err := rows.Scan(&row.LocationID, &row.LocationName, &row.Status, &row.Count); err != nil {
			return nil, fmt.Errorf("scan location count: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
