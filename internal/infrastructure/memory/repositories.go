package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

var (
	_ repository.MovementRepository        = (*MovementRepo)(nil)
	_ repository.VehicleRepository         = (*VehicleRepo)(nil)
	_ repository.StockRepository           = (*StockRepo)(nil)
	_ repository.ProductRepository         = (*ProductRepo)(nil)
	_ repository.LocationRepository        = (*LocationRepo)(nil)
	_ repository.SaleRepository            = (*SaleRepo)(nil)
	_ repository.SalesReturnRepository     = (*ReturnRepo)(nil)
	_ repository.InventoryReportRepository = (*InventoryReportRepo)(nil)
)

// LocationRepo ubicaciones en memoria.
type LocationRepo struct{ b binding }

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.b.do(func(st *state) error {
		if l, ok := st.locations[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

// ProductRepo productos en memoria.
type ProductRepo struct{ b binding }

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.b.do(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// VehicleRepo vehículos en memoria.
type VehicleRepo struct{ b binding }

// GetByID obtiene un vehículo por ID.
func (r *VehicleRepo) GetByID(_ context.Context, id string) (*entity.Vehicle, error) {
	var out *entity.Vehicle
	err := r.b.do(func(st *state) error {
		if v, ok := st.vehicles[id]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria la transacción ya es exclusiva; equivale a GetByID.
func (r *VehicleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Vehicle, error) {
	return r.GetByID(ctx, id)
}

// UpdatePlacement actualiza ubicación y disponibilidad.
func (r *VehicleRepo) UpdatePlacement(_ context.Context, id string, locationID *string, status entity.AvailabilityStatus, at time.Time) error {
	return r.b.do(func(st *state) error {
		v, ok := st.vehicles[id]
		if !ok {
			return fmt.Errorf("update vehicle %s: %w", id, domain.ErrNotFound)
		}
		if locationID != nil {
			if _, ok := st.locations[*locationID]; !ok {
				return fmt.Errorf("update vehicle %s: ubicación %s: %w", id, *locationID, domain.ErrNotFound)
			}
			loc := *locationID
			locationID = &loc
		}
		v.LocationID = locationID
		v.Status = status
		v.UpdatedAt = at
		st.vehicles[id] = v
		return nil
	})
}

// StockRepo stock por ubicación en memoria.
type StockRepo struct{ b binding }

// Get obtiene el stock actual (cero si no hay registro).
func (r *StockRepo) Get(_ context.Context, productID, locationID string) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.b.do(func(st *state) error {
		s, ok := st.stock[stockKey{productID, locationID}]
		if !ok {
			s = entity.Stock{ProductID: productID, LocationID: locationID}
		}
		out = &s
		return nil
	})
	return out, err
}

// GetForUpdate equivale a Get dentro de la transacción exclusiva.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.Stock, error) {
	return r.Get(ctx, productID, locationID)
}

// Upsert inserta o actualiza la cantidad; rechaza cantidades negativas como lo hace el CHECK de la BD.
func (r *StockRepo) Upsert(_ context.Context, stock *entity.Stock) error {
	if stock.Quantity < 0 {
		return fmt.Errorf("upsert stock: %w", domain.ErrInsufficientStock)
	}
	return r.b.do(func(st *state) error {
		if _, ok := st.products[stock.ProductID]; !ok {
			return fmt.Errorf("upsert stock: producto %s: %w", stock.ProductID, domain.ErrNotFound)
		}
		if _, ok := st.locations[stock.LocationID]; !ok {
			return fmt.Errorf("upsert stock: ubicación %s: %w", stock.LocationID, domain.ErrNotFound)
		}
		st.stock[stockKey{stock.ProductID, stock.LocationID}] = *stock
		return nil
	})
}

// MovementRepo movimientos en memoria.
type MovementRepo struct{ b binding }

// Create inserta cabecera y líneas.
func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.b.do(func(st *state) error {
		if _, ok := st.movements[m.ID]; ok {
			return fmt.Errorf("create movement %s: %w", m.ID, domain.ErrConflict)
		}
		row := movementRow{header: *m}
		row.header.Details = nil
		for _, d := range m.Details {
			row.details = append(row.details, *d)
		}
		st.movements[m.ID] = row
		st.movementOrder = append(st.movementOrder, m.ID)
		return nil
	})
}

// GetByID obtiene un movimiento con líneas y nombres resueltos.
func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.b.do(func(st *state) error {
		if row, ok := st.movements[id]; ok {
			out = st.project(row)
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID dentro de la transacción exclusiva.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

// FindByOrderReference devuelve el primer movimiento (por orden de creación) con esa referencia.
func (r *MovementRepo) FindByOrderReference(_ context.Context, ref string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.b.do(func(st *state) error {
		for _, id := range st.movementOrder {
			row := st.movements[id]
			if row.header.OrderReference == ref {
				out = st.project(row)
				return nil
			}
		}
		return nil
	})
	return out, err
}

// List lista movimientos por fecha descendente.
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.b.do(func(st *state) error {
		var rows []movementRow
		for _, id := range st.movementOrder {
			row := st.movements[id]
			h := row.header
			if f.Type != "" && h.Type != f.Type {
				continue
			}
			if f.Status != "" && h.Status != f.Status {
				continue
			}
			if f.LocationID != "" && !entity.SameLocation(h.FromLocationID, &f.LocationID) && !entity.SameLocation(h.ToLocationID, &f.LocationID) {
				continue
			}
			rows = append(rows, row)
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].header.Date.After(rows[j].header.Date)
		})
		for i, row := range rows {
			if i < f.Offset {
				continue
			}
			if f.Limit > 0 && len(out) >= f.Limit {
				break
			}
			out = append(out, st.project(row))
		}
		return nil
	})
	return out, err
}

// Update persiste estado, cantidad y metadatos de recepción.
func (r *MovementRepo) Update(_ context.Context, m *entity.Movement) error {
	return r.b.do(func(st *state) error {
		row, ok := st.movements[m.ID]
		if !ok {
			return fmt.Errorf("update movement %s: %w", m.ID, domain.ErrNotFound)
		}
		row.header.Status = m.Status
		row.header.Quantity = m.Quantity
		row.header.ArrivalDate = m.ArrivalDate
		row.header.ReceivedBy = m.ReceivedBy
		row.header.ReceptionNotes = m.ReceptionNotes
		row.header.Approved = m.Approved
		row.header.UpdatedAt = m.UpdatedAt
		st.movements[m.ID] = row
		return nil
	})
}

// ReplaceDetails borra todas las líneas e inserta las nuevas.
func (r *MovementRepo) ReplaceDetails(_ context.Context, movementID string, details []*entity.MovementDetail) error {
	return r.b.do(func(st *state) error {
		row, ok := st.movements[movementID]
		if !ok {
			return fmt.Errorf("replace details %s: %w", movementID, domain.ErrNotFound)
		}
		row.details = row.details[:0:0]
		for _, d := range details {
			row.details = append(row.details, *d)
		}
		st.movements[movementID] = row
		return nil
	})
}

// UpdateInspection actualiza el estado de inspección de una línea.
func (r *MovementRepo) UpdateInspection(_ context.Context, detailID string, status entity.InspectionStatus) error {
	return r.b.do(func(st *state) error {
		for id, row := range st.movements {
			for i := range row.details {
				if row.details[i].ID == detailID {
					row.details[i].InspectionStatus = status
					st.movements[id] = row
					return nil
				}
			}
		}
		return fmt.Errorf("update inspection %s: %w", detailID, domain.ErrNotFound)
	})
}

// Delete elimina el movimiento y sus líneas.
func (r *MovementRepo) Delete(_ context.Context, id string) error {
	return r.b.do(func(st *state) error {
		delete(st.movements, id)
		order := st.movementOrder[:0:0]
		for _, mid := range st.movementOrder {
			if mid != id {
				order = append(order, mid)
			}
		}
		st.movementOrder = order
		return nil
	})
}

// project arma la entidad de lectura con nombres resueltos.
func (st *state) project(row movementRow) *entity.Movement {
	m := row.header
	if m.FromLocationID != nil {
		m.FromLocationName = st.locations[*m.FromLocationID].Name
	}
	if m.ToLocationID != nil {
		m.ToLocationName = st.locations[*m.ToLocationID].Name
	}
	m.Details = make([]*entity.MovementDetail, 0, len(row.details))
	for _, d := range row.details {
		d := d
		if d.VehicleID != nil {
			d.VehicleSerial = st.vehicles[*d.VehicleID].SerialNumber
		}
		if d.ProductID != nil {
			d.ProductName = st.products[*d.ProductID].Name
		}
		m.Details = append(m.Details, &d)
	}
	return &m
}

// SaleRepo ventas en memoria.
type SaleRepo struct{ b binding }

// GetByID obtiene la venta con sus líneas.
func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.b.do(func(st *state) error {
		row, ok := st.sales[id]
		if !ok {
			return nil
		}
		s := row.header
		s.LocationName = st.locations[s.LocationID].Name
		for _, d := range row.details {
			d := d
			s.Details = append(s.Details, &d)
		}
		out = &s
		return nil
	})
	return out, err
}

// LockDetails devuelve las líneas de la venta (la transacción ya es exclusiva).
func (r *SaleRepo) LockDetails(ctx context.Context, saleID string) ([]*entity.SaleDetail, error) {
	s, err := r.GetByID(ctx, saleID)
	if err != nil || s == nil {
		return nil, err
	}
	return s.Details, nil
}

// ReturnRepo devoluciones en memoria.
type ReturnRepo struct{ b binding }

// Create inserta cabecera y líneas.
func (r *ReturnRepo) Create(_ context.Context, ret *entity.SalesReturn) error {
	return r.b.do(func(st *state) error {
		if _, ok := st.sales[ret.OriginalSaleID]; !ok {
			return fmt.Errorf("create return: venta %s: %w", ret.OriginalSaleID, domain.ErrNotFound)
		}
		row := returnRow{header: *ret}
		row.header.Details = nil
		row.header.Movement = nil
		for _, d := range ret.Details {
			row.details = append(row.details, *d)
		}
		st.returns[ret.ID] = row
		st.returnOrder = append(st.returnOrder, ret.ID)
		return nil
	})
}

// GetByID obtiene una devolución con sus líneas.
func (r *ReturnRepo) GetByID(_ context.Context, id string) (*entity.SalesReturn, error) {
	var out *entity.SalesReturn
	err := r.b.do(func(st *state) error {
		if row, ok := st.returns[id]; ok {
			out = row.project()
		}
		return nil
	})
	return out, err
}

// List lista devoluciones, las más recientes primero.
func (r *ReturnRepo) List(_ context.Context, f repository.ReturnFilter) ([]*entity.SalesReturn, error) {
	var out []*entity.SalesReturn
	err := r.b.do(func(st *state) error {
		skipped := 0
		for i := len(st.returnOrder) - 1; i >= 0; i-- {
			row := st.returns[st.returnOrder[i]]
			if f.SaleID != "" && row.header.OriginalSaleID != f.SaleID {
				continue
			}
			if skipped < f.Offset {
				skipped++
				continue
			}
			if f.Limit > 0 && len(out) >= f.Limit {
				break
			}
			out = append(out, row.project())
		}
		return nil
	})
	return out, err
}

// ReturnedQuantities suma lo devuelto por línea de venta.
func (r *ReturnRepo) ReturnedQuantities(_ context.Context, saleID string) (map[string]int64, error) {
	out := map[string]int64{}
	err := r.b.do(func(st *state) error {
		for _, row := range st.returns {
			if row.header.OriginalSaleID != saleID {
				continue
			}
			for _, d := range row.details {
				out[d.SaleDetailID] += d.QuantityReturned
			}
		}
		return nil
	})
	return out, err
}

func (row returnRow) project() *entity.SalesReturn {
	ret := row.header
	for _, d := range row.details {
		d := d
		ret.Details = append(ret.Details, &d)
	}
	return &ret
}

// InventoryReportRepo agregaciones en memoria.
type InventoryReportRepo struct{ b binding }

// CountByModelColorStatus agrupa los vehículos en stock por modelo, color y estado.
func (r *InventoryReportRepo) CountByModelColorStatus(_ context.Context, locationID string) ([]repository.VehicleCountResult, error) {
	var out []repository.VehicleCountResult
	err := r.b.do(func(st *state) error {
		type key struct{ model, color, status string }
		counts := map[key]int64{}
		for _, v := range st.vehicles {
			if v.LocationID == nil || (locationID != "" && *v.LocationID != locationID) {
				continue
			}
			counts[key{v.ModelID, v.ColorID, string(v.Status)}]++
		}
		for k, n := range counts {
			out = append(out, repository.VehicleCountResult{
				ModelID:   k.model,
				ModelName: st.models[k.model].Name,
				ColorID:   k.color,
				ColorName: st.colors[k.color].Name,
				Status:    k.status,
				Count:     n,
			})
		}
		sort.Slice(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if a.ModelName != b.ModelName {
				return a.ModelName < b.ModelName
			}
			if a.ColorName != b.ColorName {
				return a.ColorName < b.ColorName
			}
			return a.Status < b.Status
		})
		return nil
	})
	return out, err
}

// CountByLocation agrupa los vehículos en stock por ubicación y estado.
func (r *InventoryReportRepo) CountByLocation(_ context.Context) ([]repository.LocationCountResult, error) {
	var out []repository.LocationCountResult
	err := r.b.do(func(st *state) error {
		type key struct{ location, status string }
		counts := map[key]int64{}
		for _, v := range st.vehicles {
			if v.LocationID == nil {
				continue
			}
			counts[key{*v.LocationID, string(v.Status)}]++
		}
		for k, n := range counts {
			out = append(out, repository.LocationCountResult{
				LocationID:   k.location,
				LocationName: st.locations[k.location].Name,
				Status:       k.status,
				Count:        n,
			})
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].LocationName != out[j].LocationName {
				return out[i].LocationName < out[j].LocationName
			}
			return out[i].Status < out[j].Status
		})
		return nil
	})
	return out, err
}
