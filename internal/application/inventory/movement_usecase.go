package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

// GetMovement obtiene un movimiento con sus líneas. Devuelve ErrNotFound si no existe.
func (uc *MovementUseCase) GetMovement(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	return m, nil
}

// ListMovements lista movimientos por tipo, estado y ubicación (origen o destino).
func (uc *MovementUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, filter.Type)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, filter.Status)
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.movementRepo.List(ctx, filter)
}

// DeleteMovement elimina un movimiento IN_TRANSIT y libera la reserva de sus vehículos.
// Un movimiento COMPLETED no se elimina: desincronizaría el historial de inventario.
func (uc *MovementUseCase) DeleteMovement(ctx context.Context, id string) error {
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		vehicleRepo repository.VehicleRepository,
		_ repository.StockRepository,
	) error {
		m, err := lockInTransit(ctx, movRepo, id)
		if err != nil {
			return err
		}
		if err := releaseVehicles(ctx, vehicleRepo, m, now); err != nil {
			return err
		}
		return movRepo.Delete(ctx, m.ID)
	})
}

// ReplaceMovementDetails reemplaza el conjunto completo de líneas de un movimiento IN_TRANSIT
// (borrar todas y recrear). No existe edición por línea.
func (uc *MovementUseCase) ReplaceMovementDetails(ctx context.Context, id string, details []DetailInput) (*entity.Movement, error) {
	details, err := normalizeDetails(details)
	if err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, nil, nil, details); err != nil {
		return nil, err
	}
	now := time.Now()

	var updated *entity.Movement
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		vehicleRepo repository.VehicleRepository,
		_ repository.StockRepository,
	) error {
		m, err := lockInTransit(ctx, movRepo, id)
		if err != nil {
			return err
		}
		if err := releaseVehicles(ctx, vehicleRepo, m, now); err != nil {
			return err
		}

		vehicles, err := lockVehicles(ctx, vehicleRepo, detailVehicleIDs(details))
		if err != nil {
			return err
		}
		for _, v := range vehicles {
			if !v.AvailableAt(m.FromLocationID) {
				return fmt.Errorf("%w: vehículo %s no está disponible en la ubicación de origen", domain.ErrConflict, v.SerialNumber)
			}
		}

		m.Details = buildDetails(m.ID, details)
		if err := movRepo.ReplaceDetails(ctx, m.ID, m.Details); err != nil {
			return err
		}
		if err := reserveVehicles(ctx, vehicleRepo, m, now); err != nil {
			return err
		}
		m.Quantity = len(m.Details)
		m.UpdatedAt = now
		if err := movRepo.Update(ctx, m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.reload(ctx, updated)
}

// SetInspectionStatus registra el resultado de inspección de una línea mientras el traslado está en tránsito.
func (uc *MovementUseCase) SetInspectionStatus(ctx context.Context, movementID, detailID string, status entity.InspectionStatus) (*entity.Movement, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: estado de inspección %q", domain.ErrInvalidInput, status)
	}
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.VehicleRepository,
		_ repository.StockRepository,
	) error {
		m, err := lockInTransit(ctx, movRepo, movementID)
		if err != nil {
			return err
		}
		if m.Detail(detailID) == nil {
			return fmt.Errorf("%w: línea %s del movimiento %s", domain.ErrNotFound, detailID, movementID)
		}
		return movRepo.UpdateInspection(ctx, detailID, status)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetMovement(ctx, movementID)
}

// lockInTransit bloquea el movimiento y exige que siga IN_TRANSIT.
func lockInTransit(ctx context.Context, movRepo repository.MovementRepository, id string) (*entity.Movement, error) {
	m, err := movRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	if m.Status != entity.MovementStatusInTransit {
		return nil, fmt.Errorf("%w: el movimiento está %s", domain.ErrConflict, m.Status)
	}
	return m, nil
}

// releaseVehicles devuelve a AVAILABLE en el origen los vehículos aún reservados por el movimiento.
func releaseVehicles(ctx context.Context, vehicleRepo repository.VehicleRepository, m *entity.Movement, now time.Time) error {
	vehicles, err := lockVehicles(ctx, vehicleRepo, m.VehicleIDs())
	if err != nil {
		return err
	}
	for _, v := range vehicles {
		if v.Status != entity.AvailabilityInTransit || !entity.SameLocation(v.LocationID, m.FromLocationID) {
			continue
		}
		if err := vehicleRepo.UpdatePlacement(ctx, v.ID, m.FromLocationID, entity.AvailabilityAvailable, now); err != nil {
			return err
		}
	}
	return nil
}
