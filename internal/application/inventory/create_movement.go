package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

// MovementUseCase motor de movimientos: creación, recepción de traslados, reemplazo de líneas y borrado.
// Toda mutación de inventario ocurre dentro de TxRunner.Run con bloqueo de filas (SELECT FOR UPDATE).
type MovementUseCase struct {
	txRunner     TxRunner
	movementRepo repository.MovementRepository
	vehicleRepo  repository.VehicleRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	movementRepo repository.MovementRepository,
	vehicleRepo repository.VehicleRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:     txRunner,
		movementRepo: movementRepo,
		vehicleRepo:  vehicleRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// MovementInput entrada para crear un movimiento.
// Status vacío: TRANSFER nace IN_TRANSIT, el resto COMPLETED.
type MovementInput struct {
	FromLocationID *string
	ToLocationID   *string
	Type           entity.MovementType
	Date           time.Time
	Status         entity.MovementStatus
	Notes          string
	Approved       bool
	CreatedBy      string
	OrderReference string
	Details        []DetailInput
}

// DetailInput línea de entrada. Quantity se ignora (se fija en 1) para vehículos.
type DetailInput struct {
	VehicleID        *string
	ProductID        *string
	Quantity         int64
	InspectionStatus entity.InspectionStatus
}

// CreateMovement valida la entrada y las referencias, y crea el movimiento en una sola transacción.
// RETURN no se acepta por esta vía: solo lo genera el motor de devoluciones.
func (uc *MovementUseCase) CreateMovement(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	now := time.Now()
	if err := normalizeMovement(&in, false, now); err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, in.FromLocationID, in.ToLocationID, in.Details); err != nil {
		return nil, err
	}

	var created *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		vehicleRepo repository.VehicleRepository,
		stockRepo repository.StockRepository,
	) error {
		m, err := uc.CreateMovementInTx(ctx, movRepo, vehicleRepo, stockRepo, in, now)
		if err != nil {
			return err
		}
		created = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.reload(ctx, created)
}

// CreateMovementInTx crea el movimiento con los repositorios de la transacción del caller.
// Es el contrato de creación que reutiliza el motor de devoluciones (acepta RETURN).
// El caller es responsable de validar ubicaciones y productos; los vehículos se bloquean aquí.
func (uc *MovementUseCase) CreateMovementInTx(
	ctx context.Context,
	movRepo repository.MovementRepository,
	vehicleRepo repository.VehicleRepository,
	stockRepo repository.StockRepository,
	in MovementInput,
	now time.Time,
) (*entity.Movement, error) {
	if err := normalizeMovement(&in, true, now); err != nil {
		return nil, err
	}

	vehicles, err := lockVehicles(ctx, vehicleRepo, detailVehicleIDs(in.Details))
	if err != nil {
		return nil, err
	}
	for _, v := range vehicles {
		if err := checkVehicleForCreation(v, in); err != nil {
			return nil, err
		}
	}

	m := &entity.Movement{
		ID:             uuid.New().String(),
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Type:           in.Type,
		Date:           in.Date,
		Status:         in.Status,
		Quantity:       len(in.Details),
		Notes:          in.Notes,
		Approved:       in.Approved,
		CreatedBy:      in.CreatedBy,
		OrderReference: in.OrderReference,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.Details = buildDetails(m.ID, in.Details)
	if err := movRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	switch m.Status {
	case entity.MovementStatusCompleted:
		if err := applyEffects(ctx, vehicleRepo, stockRepo, m, now); err != nil {
			return nil, err
		}
	case entity.MovementStatusInTransit:
		if err := reserveVehicles(ctx, vehicleRepo, m, now); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// normalizeMovement aplica valores por defecto y valida la forma del movimiento (sin tocar la BD).
func normalizeMovement(in *MovementInput, allowReturn bool, now time.Time) error {
	if in.Date.IsZero() {
		in.Date = now
	}
	if in.Status == "" {
		in.Status = entity.MovementStatusCompleted
		if in.Type == entity.MovementTypeTransfer {
			in.Status = entity.MovementStatusInTransit
		}
	}
	if !in.Status.Valid() {
		return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}

	switch in.Type {
	case entity.MovementTypeTransfer:
		if in.FromLocationID == nil || in.ToLocationID == nil {
			return fmt.Errorf("%w: un traslado requiere origen y destino", domain.ErrInvalidInput)
		}
		if *in.FromLocationID == *in.ToLocationID {
			return fmt.Errorf("%w: origen y destino deben ser distintos", domain.ErrInvalidInput)
		}
	case entity.MovementTypeEntry, entity.MovementTypeReturn:
		if in.Type == entity.MovementTypeReturn && !allowReturn {
			return fmt.Errorf("%w: los movimientos RETURN se generan desde devoluciones", domain.ErrInvalidInput)
		}
		if in.ToLocationID == nil || in.FromLocationID != nil {
			return fmt.Errorf("%w: %s requiere solo destino", domain.ErrInvalidInput, in.Type)
		}
		if in.Status != entity.MovementStatusCompleted {
			return fmt.Errorf("%w: %s se registra COMPLETED", domain.ErrInvalidInput, in.Type)
		}
	case entity.MovementTypeExit:
		if in.FromLocationID == nil || in.ToLocationID != nil {
			return fmt.Errorf("%w: EXIT requiere solo origen", domain.ErrInvalidInput)
		}
		if in.Status != entity.MovementStatusCompleted {
			return fmt.Errorf("%w: EXIT se registra COMPLETED", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
	}

	details, err := normalizeDetails(in.Details)
	if err != nil {
		return err
	}
	in.Details = details
	return nil
}

// normalizeDetails valida exclusividad vehículo/producto, cantidades y duplicados.
func normalizeDetails(details []DetailInput) ([]DetailInput, error) {
	if len(details) == 0 {
		return nil, fmt.Errorf("%w: se requiere al menos una línea", domain.ErrInvalidInput)
	}
	out := make([]DetailInput, 0, len(details))
	seen := make(map[string]bool, len(details))
	for i, d := range details {
		hasVehicle := d.VehicleID != nil && *d.VehicleID != ""
		hasProduct := d.ProductID != nil && *d.ProductID != ""
		if hasVehicle == hasProduct {
			return nil, fmt.Errorf("%w: línea %d debe referir exactamente un vehículo o un producto", domain.ErrInvalidInput, i+1)
		}
		if d.InspectionStatus == "" {
			d.InspectionStatus = entity.InspectionPending
		}
		if !d.InspectionStatus.Valid() {
			return nil, fmt.Errorf("%w: línea %d estado de inspección %q", domain.ErrInvalidInput, i+1, d.InspectionStatus)
		}
		if hasVehicle {
			if d.Quantity > 1 || d.Quantity < 0 {
				return nil, fmt.Errorf("%w: línea %d un vehículo tiene cantidad 1", domain.ErrInvalidInput, i+1)
			}
			if seen[*d.VehicleID] {
				return nil, fmt.Errorf("%w: vehículo %s repetido", domain.ErrInvalidInput, *d.VehicleID)
			}
			seen[*d.VehicleID] = true
			d.Quantity = 1
			d.ProductID = nil
		} else {
			if d.Quantity < 1 {
				return nil, fmt.Errorf("%w: línea %d cantidad debe ser mayor a cero", domain.ErrInvalidInput, i+1)
			}
			d.VehicleID = nil
		}
		out = append(out, d)
	}
	return out, nil
}

// checkReferences verifica fuera de la tx que ubicaciones, vehículos y productos existan.
func (uc *MovementUseCase) checkReferences(ctx context.Context, from, to *string, details []DetailInput) error {
	for _, id := range []*string{from, to} {
		if id == nil {
			continue
		}
		loc, err := uc.locationRepo.GetByID(ctx, *id)
		if err != nil {
			return err
		}
		if loc == nil {
			return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, *id)
		}
	}
	for _, d := range details {
		switch {
		case d.VehicleID != nil:
			v, err := uc.vehicleRepo.GetByID(ctx, *d.VehicleID)
			if err != nil {
				return err
			}
			if v == nil {
				return fmt.Errorf("%w: vehículo %s", domain.ErrNotFound, *d.VehicleID)
			}
		case d.ProductID != nil:
			p, err := uc.productRepo.GetByID(ctx, *d.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, *d.ProductID)
			}
		}
	}
	return nil
}

// checkVehicleForCreation valida el estado previo exigido por cada tipo de movimiento.
func checkVehicleForCreation(v *entity.Vehicle, in MovementInput) error {
	switch in.Type {
	case entity.MovementTypeTransfer, entity.MovementTypeExit:
		if !v.AvailableAt(in.FromLocationID) {
			return fmt.Errorf("%w: vehículo %s no está disponible en la ubicación de origen", domain.ErrConflict, v.SerialNumber)
		}
	case entity.MovementTypeEntry, entity.MovementTypeReturn:
		if !v.OutOfStock() {
			return fmt.Errorf("%w: vehículo %s ya está en inventario", domain.ErrConflict, v.SerialNumber)
		}
	}
	return nil
}

func buildDetails(movementID string, in []DetailInput) []*entity.MovementDetail {
	details := make([]*entity.MovementDetail, 0, len(in))
	for _, d := range in {
		details = append(details, &entity.MovementDetail{
			ID:               uuid.New().String(),
			MovementID:       movementID,
			VehicleID:        d.VehicleID,
			ProductID:        d.ProductID,
			Quantity:         d.Quantity,
			InspectionStatus: d.InspectionStatus,
		})
	}
	return details
}

func detailVehicleIDs(details []DetailInput) []string {
	ids := make([]string, 0, len(details))
	for _, d := range details {
		if d.VehicleID != nil {
			ids = append(ids, *d.VehicleID)
		}
	}
	return ids
}

// lockVehicles bloquea los vehículos en orden de ID para evitar interbloqueos.
func lockVehicles(ctx context.Context, vehicleRepo repository.VehicleRepository, ids []string) ([]*entity.Vehicle, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	vehicles := make([]*entity.Vehicle, 0, len(sorted))
	for _, id := range sorted {
		v, err := vehicleRepo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, fmt.Errorf("%w: vehículo %s", domain.ErrNotFound, id)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

// placementAfter ubicación y disponibilidad de un vehículo una vez aplicado el movimiento.
func placementAfter(m *entity.Movement) (*string, entity.AvailabilityStatus, error) {
	switch m.Type {
	case entity.MovementTypeEntry, entity.MovementTypeTransfer, entity.MovementTypeReturn:
		return m.ToLocationID, entity.AvailabilityAvailable, nil
	case entity.MovementTypeExit:
		return nil, entity.AvailabilitySold, nil
	}
	return nil, "", fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, m.Type)
}

// applyEffects aplica los efectos de inventario del movimiento: ubica vehículos y mueve stock.
func applyEffects(ctx context.Context, vehicleRepo repository.VehicleRepository, stockRepo repository.StockRepository, m *entity.Movement, now time.Time) error {
	locationID, status, err := placementAfter(m)
	if err != nil {
		return err
	}
	for _, d := range m.Details {
		switch {
		case d.VehicleID != nil:
			if err := vehicleRepo.UpdatePlacement(ctx, *d.VehicleID, locationID, status, now); err != nil {
				return err
			}
		case d.ProductID != nil:
			if m.FromLocationID != nil {
				if err := adjustStock(ctx, stockRepo, *d.ProductID, *m.FromLocationID, -d.Quantity, now); err != nil {
					return err
				}
			}
			if m.ToLocationID != nil {
				if err := adjustStock(ctx, stockRepo, *d.ProductID, *m.ToLocationID, d.Quantity, now); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// reserveVehicles marca los vehículos de un traslado como IN_TRANSIT sin moverlos del origen.
func reserveVehicles(ctx context.Context, vehicleRepo repository.VehicleRepository, m *entity.Movement, now time.Time) error {
	for _, id := range m.VehicleIDs() {
		if err := vehicleRepo.UpdatePlacement(ctx, id, m.FromLocationID, entity.AvailabilityInTransit, now); err != nil {
			return err
		}
	}
	return nil
}

// adjustStock bloquea la fila de stock y aplica delta; nunca deja cantidades negativas.
func adjustStock(ctx context.Context, stockRepo repository.StockRepository, productID, locationID string, delta int64, now time.Time) error {
	stock, err := stockRepo.GetForUpdate(ctx, productID, locationID)
	if err != nil {
		return err
	}
	next := stock.Quantity + delta
	if next < 0 {
		return fmt.Errorf("%w: producto %s en ubicación %s (disponible %d, requerido %d)",
			domain.ErrInsufficientStock, productID, locationID, stock.Quantity, -delta)
	}
	stock.Quantity = next
	stock.UpdatedAt = now
	return stockRepo.Upsert(ctx, stock)
}

// reload relee el movimiento para devolver la proyección con nombres resueltos.
func (uc *MovementUseCase) reload(ctx context.Context, m *entity.Movement) (*entity.Movement, error) {
	out, err := uc.movementRepo.GetByID(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return m, nil
	}
	return out, nil
}
