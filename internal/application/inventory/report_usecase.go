package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/concesionario-api/internal/application/dto"
	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

// ReportUseCase conteos agregados de vehículos; solo lectura sobre el estado que dejan movimientos y devoluciones.
type ReportUseCase struct {
	repo repository.InventoryReportRepository
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(repo repository.InventoryReportRepository) *ReportUseCase {
	return &ReportUseCase{repo: repo}
}

// CountByModelColorStatus agrupa por modelo, color y estado. locationID vacío = todas las ubicaciones.
// status acepta el código o la etiqueta en español ("Dañado"); vacío = todos los estados.
func (uc *ReportUseCase) CountByModelColorStatus(ctx context.Context, locationID, status string) ([]dto.VehicleCountDTO, error) {
	var want entity.AvailabilityStatus
	if status != "" {
		parsed, err := entity.ParseAvailabilityStatus(status)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		want = parsed
	}
	rows, err := uc.repo.CountByModelColorStatus(ctx, locationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VehicleCountDTO, 0, len(rows))
	for _, r := range rows {
		if want != "" && r.Status != string(want) {
			continue
		}
		out = append(out, dto.VehicleCountDTO{
			ModelID:   r.ModelID,
			ModelName: r.ModelName,
			ColorID:   r.ColorID,
			ColorName: r.ColorName,
			Status:    r.Status,
			Count:     r.Count,
		})
	}
	return out, nil
}

// CountByLocation agrupa por ubicación y estado.
func (uc *ReportUseCase) CountByLocation(ctx context.Context) ([]dto.LocationCountDTO, error) {
	rows, err := uc.repo.CountByLocation(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationCountDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LocationCountDTO{
			LocationID:   r.LocationID,
			LocationName: r.LocationName,
			Status:       r.Status,
			Count:        r.Count,
		})
	}
	return out, nil
}
