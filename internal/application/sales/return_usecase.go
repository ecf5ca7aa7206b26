package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/concesionario-api/internal/application/dto"
	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

// CreateSalesReturnFromRequest adapta el request HTTP; processedBy vacío toma el usuario del token.
func (uc *ReturnUseCase) CreateSalesReturnFromRequest(ctx context.Context, userID string, in dto.CreateSalesReturnRequest) (*dto.SalesReturnResponse, error) {
	processedBy := in.ProcessedBy
	if processedBy == "" {
		processedBy = userID
	}
	items := make([]ReturnItem, 0, len(in.ReturnedItems))
	for _, it := range in.ReturnedItems {
		items = append(items, ReturnItem{SaleDetailID: it.SaleDetailID, Quantity: it.Quantity})
	}
	ret, err := uc.CreateSalesReturn(ctx, ReturnInput{
		OriginalSaleID: in.OriginalSaleID,
		Items:          items,
		ProcessedBy:    processedBy,
		LocationID:     in.LocationID,
		Reason:         in.Reason,
	})
	if err != nil {
		return nil, err
	}
	if ret.Movement != nil {
		if m, err := uc.movementRepo.GetByID(ctx, ret.Movement.ID); err == nil && m != nil {
			ret.Movement = m
		}
	}
	return dto.NewSalesReturnResponse(ret, nil), nil
}

// GetSalesReturn devuelve la devolución anidada con la venta original y el movimiento compensatorio.
func (uc *ReturnUseCase) GetSalesReturn(ctx context.Context, id string) (*dto.SalesReturnResponse, error) {
	ret, err := uc.returnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, fmt.Errorf("%w: devolución %s", domain.ErrNotFound, id)
	}
	if err := uc.attachMovement(ctx, ret); err != nil {
		return nil, err
	}
	sale, err := uc.saleRepo.GetByID(ctx, ret.OriginalSaleID)
	if err != nil {
		return nil, err
	}
	return dto.NewSalesReturnResponse(ret, sale), nil
}

// ListSalesReturns lista devoluciones, opcionalmente de una venta.
func (uc *ReturnUseCase) ListSalesReturns(ctx context.Context, filter repository.ReturnFilter) ([]dto.SalesReturnResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	list, err := uc.returnRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SalesReturnResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *dto.NewSalesReturnResponse(r, nil))
	}
	return out, nil
}

func (uc *ReturnUseCase) attachMovement(ctx context.Context, ret *entity.SalesReturn) error {
	m, err := uc.movementRepo.FindByOrderReference(ctx, ret.ID)
	if err != nil {
		return err
	}
	ret.Movement = m
	return nil
}
