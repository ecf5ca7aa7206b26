package inventory

import (
	"context"

	"github.com/jhoicas/concesionario-api/internal/application/dto"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
)

// CreateMovementFromRequest adapta el request HTTP al caso de uso CreateMovement.
// createdById del body tiene prioridad; si viene vacío se usa el usuario del token.
func (uc *MovementUseCase) CreateMovementFromRequest(ctx context.Context, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	createdBy := in.CreatedByID
	if createdBy == "" {
		createdBy = userID
	}
	input := MovementInput{
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Type:           entity.MovementType(in.MovementType),
		Status:         entity.MovementStatus(in.Status),
		Notes:          in.Notes,
		CreatedBy:      createdBy,
		OrderReference: in.OrderReference,
		Details:        DetailsFromRequest(in.Details),
	}
	if d := in.MovementDate.Ptr(); d != nil {
		input.Date = *d
	}
	m, err := uc.CreateMovement(ctx, input)
	if err != nil {
		return nil, err
	}
	return dto.NewMovementResponse(m), nil
}

// ReceiveMovementFromRequest adapta el request HTTP de recepción.
func (uc *MovementUseCase) ReceiveMovementFromRequest(ctx context.Context, movementID string, in dto.ReceiveMovementRequest) (*dto.MovementResponse, error) {
	m, err := uc.ReceiveMovement(ctx, movementID, ReceptionInput{
		ArrivalDate: in.ArrivalDate.Ptr(),
		ReceivedBy:  in.ReceivedBy,
		IsReceived:  in.IsReceived,
		Notes:       in.ReceptionNotes,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewMovementResponse(m), nil
}

// DetailsFromRequest convierte las líneas del request.
func DetailsFromRequest(in []dto.MovementDetailRequest) []DetailInput {
	out := make([]DetailInput, 0, len(in))
	for _, d := range in {
		out = append(out, DetailInput{VehicleID: d.VehicleID, ProductID: d.ProductID, Quantity: d.Quantity})
	}
	return out
}
