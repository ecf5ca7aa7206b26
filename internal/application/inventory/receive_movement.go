package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

// ReceptionInput datos de recepción de un traslado.
type ReceptionInput struct {
	ArrivalDate *time.Time // nil = ahora
	ReceivedBy  string
	IsReceived  bool
	Notes       string
}

// ReceiveMovement completa un traslado IN_TRANSIT: ubica los vehículos en destino como AVAILABLE,
// mueve el stock de productos y marca el movimiento COMPLETED, todo en una transacción.
// Si algún vehículo ya no está reservado en el origen, falla con ErrConflict sin aplicar nada.
func (uc *MovementUseCase) ReceiveMovement(ctx context.Context, movementID string, in ReceptionInput) (*entity.Movement, error) {
	if movementID == "" || in.ReceivedBy == "" {
		return nil, fmt.Errorf("%w: movimiento y receptor son obligatorios", domain.ErrInvalidInput)
	}
	if !in.IsReceived {
		return nil, fmt.Errorf("%w: la recepción requiere isReceived=true", domain.ErrInvalidInput)
	}
	now := time.Now()
	arrival := now
	if in.ArrivalDate != nil {
		arrival = *in.ArrivalDate
	}

	var received *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		vehicleRepo repository.VehicleRepository,
		stockRepo repository.StockRepository,
	) error {
		m, err := movRepo.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, movementID)
		}
		if m.Type != entity.MovementTypeTransfer {
			return fmt.Errorf("%w: solo los traslados se reciben (tipo %s)", domain.ErrConflict, m.Type)
		}
		if m.Status != entity.MovementStatusInTransit {
			return fmt.Errorf("%w: el movimiento está %s", domain.ErrConflict, m.Status)
		}

		vehicles, err := lockVehicles(ctx, vehicleRepo, m.VehicleIDs())
		if err != nil {
			return err
		}
		for _, v := range vehicles {
			if v.Status != entity.AvailabilityInTransit || !entity.SameLocation(v.LocationID, m.FromLocationID) {
				return fmt.Errorf("%w: vehículo %s cambió de estado durante el traslado (%s)", domain.ErrConflict, v.SerialNumber, v.Status)
			}
		}
		if err := applyEffects(ctx, vehicleRepo, stockRepo, m, now); err != nil {
			return err
		}

		m.Status = entity.MovementStatusCompleted
		m.ArrivalDate = &arrival
		m.ReceivedBy = in.ReceivedBy
		m.ReceptionNotes = in.Notes
		m.UpdatedAt = now
		if err := movRepo.Update(ctx, m); err != nil {
			return err
		}
		received = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.reload(ctx, received)
}
