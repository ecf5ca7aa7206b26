package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/concesionario-api/internal/application/inventory"
	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReturnUseCase motor de devoluciones: valida contra la venta original, crea la devolución,
// su movimiento compensatorio RETURN y restituye inventario en una sola transacción.
type ReturnUseCase struct {
	txRunner     ReturnTxRunner
	movements    MovementCreator
	saleRepo     repository.SaleRepository
	returnRepo   repository.SalesReturnRepository
	movementRepo repository.MovementRepository
}

// NewReturnUseCase construye el caso de uso.
func NewReturnUseCase(
	txRunner ReturnTxRunner,
	movements MovementCreator,
	saleRepo repository.SaleRepository,
	returnRepo repository.SalesReturnRepository,
	movementRepo repository.MovementRepository,
) *ReturnUseCase {
	return &ReturnUseCase{
		txRunner:     txRunner,
		movements:    movements,
		saleRepo:     saleRepo,
		returnRepo:   returnRepo,
		movementRepo: movementRepo,
	}
}

// ReturnInput entrada para crear una devolución.
// LocationID vacío toma la sede de la venta; si viene debe coincidir con ella.
type ReturnInput struct {
	OriginalSaleID string
	Items          []ReturnItem
	ProcessedBy    string
	LocationID     string
	Reason         string
}

// ReturnItem línea a devolver.
type ReturnItem struct {
	SaleDetailID string
	Quantity     int64
}

// CreateSalesReturn crea la devolución. Pasos dentro de la transacción:
//  1. bloquea las líneas de la venta y verifica que no se devuelva más de lo vendido
//  2. inserta SalesReturn (total = suma de subtotales devueltos) y sus ReturnDetail
//  3. crea el movimiento RETURN COMPLETED hacia la sede de la venta (orderReference = ID devolución)
//     con líneas PASSED; sus efectos restituyen vehículos (AVAILABLE) y stock de productos
//
// Cualquier error hace rollback de todo.
func (uc *ReturnUseCase) CreateSalesReturn(ctx context.Context, in ReturnInput) (*entity.SalesReturn, error) {
	if in.OriginalSaleID == "" {
		return nil, fmt.Errorf("%w: originalSaleId es obligatorio", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: se requiere al menos una línea a devolver", domain.ErrInvalidInput)
	}
	if in.ProcessedBy == "" {
		return nil, fmt.Errorf("%w: processedBy es obligatorio", domain.ErrInvalidInput)
	}

	sale, err := uc.saleRepo.GetByID(ctx, in.OriginalSaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, in.OriginalSaleID)
	}
	if in.LocationID == "" {
		in.LocationID = sale.LocationID
	}
	if in.LocationID != sale.LocationID {
		return nil, fmt.Errorf("%w: la devolución se recibe en la sede de la venta (%s)", domain.ErrInvalidInput, sale.LocationID)
	}
	if err := validateItems(sale, in.Items); err != nil {
		return nil, err
	}

	now := time.Now()
	ret := &entity.SalesReturn{
		ID:             uuid.New().String(),
		OriginalSaleID: sale.ID,
		Reason:         in.Reason,
		TotalAmount:    decimal.Zero,
		ReturnDate:     now,
		ProcessedBy:    in.ProcessedBy,
		LocationID:     in.LocationID,
		CreatedAt:      now,
	}

	err = uc.txRunner.RunReturn(ctx, func(
		movRepo repository.MovementRepository,
		vehicleRepo repository.VehicleRepository,
		stockRepo repository.StockRepository,
		saleRepo repository.SaleRepository,
		returnRepo repository.SalesReturnRepository,
	) error {
		lines, err := saleRepo.LockDetails(ctx, sale.ID)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.SaleDetail, len(lines))
		for _, l := range lines {
			byID[l.ID] = l
		}
		returned, err := returnRepo.ReturnedQuantities(ctx, sale.ID)
		if err != nil {
			return err
		}

		ret.Details = make([]*entity.ReturnDetail, 0, len(in.Items))
		movDetails := make([]inventory.DetailInput, 0, len(in.Items))
		for _, item := range in.Items {
			line := byID[item.SaleDetailID]
			if line == nil {
				return fmt.Errorf("%w: línea %s no pertenece a la venta %s", domain.ErrInvariantViolation, item.SaleDetailID, sale.ID)
			}
			if returned[line.ID]+item.Quantity > line.Quantity {
				return fmt.Errorf("%w: línea %s ya devuelta (%d de %d)", domain.ErrConflict, line.ID, returned[line.ID], line.Quantity)
			}
			subtotal := line.UnitPrice.Mul(decimal.NewFromInt(item.Quantity))
			ret.TotalAmount = ret.TotalAmount.Add(subtotal)
			ret.Details = append(ret.Details, &entity.ReturnDetail{
				ID:               uuid.New().String(),
				ReturnID:         ret.ID,
				SaleDetailID:     line.ID,
				QuantityReturned: item.Quantity,
				Subtotal:         subtotal,
				VehicleID:        line.VehicleID,
				ProductID:        line.ProductID,
			})
			movDetails = append(movDetails, inventory.DetailInput{
				VehicleID:        line.VehicleID,
				ProductID:        line.ProductID,
				Quantity:         item.Quantity,
				InspectionStatus: entity.InspectionPassed,
			})
		}

		if err := returnRepo.Create(ctx, ret); err != nil {
			return err
		}

		toLocation := sale.LocationID
		m, err := uc.movements.CreateMovementInTx(ctx, movRepo, vehicleRepo, stockRepo, inventory.MovementInput{
			ToLocationID:   &toLocation,
			Type:           entity.MovementTypeReturn,
			Date:           now,
			Status:         entity.MovementStatusCompleted,
			Notes:          "Devolución de venta " + sale.ID,
			Approved:       true,
			CreatedBy:      in.ProcessedBy,
			OrderReference: ret.ID,
			Details:        movDetails,
		}, now)
		if err != nil {
			return err
		}
		ret.Movement = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// validateItems valida las líneas contra la venta antes de abrir la transacción.
func validateItems(sale *entity.Sale, items []ReturnItem) error {
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if item.SaleDetailID == "" {
			return fmt.Errorf("%w: línea %d sin saleDetailId", domain.ErrInvalidInput, i+1)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: línea %d cantidad debe ser mayor a cero", domain.ErrInvalidInput, i+1)
		}
		if seen[item.SaleDetailID] {
			return fmt.Errorf("%w: línea de venta %s repetida", domain.ErrInvalidInput, item.SaleDetailID)
		}
		seen[item.SaleDetailID] = true

		line := sale.Detail(item.SaleDetailID)
		if line == nil {
			return fmt.Errorf("%w: línea %s no pertenece a la venta %s", domain.ErrInvariantViolation, item.SaleDetailID, sale.ID)
		}
		if !line.Exclusive() {
			return fmt.Errorf("%w: línea de venta %s sin referencia única a vehículo o producto", domain.ErrInvariantViolation, line.ID)
		}
		if line.VehicleID != nil && item.Quantity != 1 {
			return fmt.Errorf("%w: un vehículo se devuelve con cantidad 1", domain.ErrInvalidInput)
		}
		if item.Quantity > line.Quantity {
			return fmt.Errorf("%w: se devuelven %d de %d vendidos", domain.ErrInvalidInput, item.Quantity, line.Quantity)
		}
	}
	return nil
}
