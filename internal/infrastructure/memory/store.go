// Package memory implementa los puertos de persistencia en memoria (modo demo y pruebas).
// Las transacciones trabajan sobre una copia del estado que solo se publica si fn no falla,
// por lo que un error deja el estado exactamente como estaba.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/concesionario-api/internal/application/inventory"
	"github.com/jhoicas/concesionario-api/internal/application/sales"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner   = (*Store)(nil)
	_ sales.ReturnTxRunner = (*Store)(nil)
)

type stockKey struct {
	productID  string
	locationID string
}

type state struct {
	locations     map[string]entity.Location
	models        map[string]entity.VehicleModel
	colors        map[string]entity.Color
	vehicles      map[string]entity.Vehicle
	products      map[string]entity.Product
	stock         map[stockKey]entity.Stock
	movements     map[string]movementRow
	movementOrder []string
	sales         map[string]saleRow
	returns       map[string]returnRow
	returnOrder   []string
}

type movementRow struct {
	header  entity.Movement // sin Details
	details []entity.MovementDetail
}

type saleRow struct {
	header  entity.Sale
	details []entity.SaleDetail
}

type returnRow struct {
	header  entity.SalesReturn
	details []entity.ReturnDetail
}

func newState() *state {
	return &state{
		locations: map[string]entity.Location{},
		models:    map[string]entity.VehicleModel{},
		colors:    map[string]entity.Color{},
		vehicles:  map[string]entity.Vehicle{},
		products:  map[string]entity.Product{},
		stock:     map[stockKey]entity.Stock{},
		movements: map[string]movementRow{},
		sales:     map[string]saleRow{},
		returns:   map[string]returnRow{},
	}
}

// clone copia mapas y slices; los punteros *string se comparten porque nunca se mutan en sitio.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.models {
		c.models[k] = v
	}
	for k, v := range s.colors {
		c.colors[k] = v
	}
	for k, v := range s.vehicles {
		c.vehicles[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.movements {
		c.movements[k] = movementRow{header: v.header, details: append([]entity.MovementDetail(nil), v.details...)}
	}
	c.movementOrder = append([]string(nil), s.movementOrder...)
	for k, v := range s.sales {
		c.sales[k] = saleRow{header: v.header, details: append([]entity.SaleDetail(nil), v.details...)}
	}
	for k, v := range s.returns {
		c.returns[k] = returnRow{header: v.header, details: append([]entity.ReturnDetail(nil), v.details...)}
	}
	c.returnOrder = append([]string(nil), s.returnOrder...)
	return c
}

// Store almacén en memoria seguro para uso concurrente. Las transacciones se serializan.
type Store struct {
	mu sync.Mutex
	st *state
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{st: newState()}
}

// binding ata un repositorio al estado de una transacción o al estado publicado.
type binding struct {
	store *Store
	tx    *state
}

func (b binding) do(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(b.store.st)
}

// Run ejecuta fn con repositorios atados a una copia del estado; publica la copia si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	vehicleRepo repository.VehicleRepository,
	stockRepo repository.StockRepository,
) error) error {
	return s.transact(ctx, func(b binding) error {
		return fn(&MovementRepo{b}, &VehicleRepo{b}, &StockRepo{b})
	})
}

// RunReturn igual que Run, con repos de ventas y devoluciones.
func (s *Store) RunReturn(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	vehicleRepo repository.VehicleRepository,
	stockRepo repository.StockRepository,
	saleRepo repository.SaleRepository,
	returnRepo repository.SalesReturnRepository,
) error) error {
	return s.transact(ctx, func(b binding) error {
		return fn(&MovementRepo{b}, &VehicleRepo{b}, &StockRepo{b}, &SaleRepo{b}, &ReturnRepo{b})
	})
}

func (s *Store) transact(ctx context.Context, fn func(b binding) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	if err := fn(binding{store: s, tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repositorios sobre el estado publicado (lecturas fuera de transacción).

func (s *Store) Movements() *MovementRepo { return &MovementRepo{binding{store: s}} }
func (s *Store) Vehicles() *VehicleRepo { return &VehicleRepo{binding{store: s}} }
func (s *Store) Stock() *StockRepo { return &StockRepo{binding{store: s}} }
func (s *Store) Products() *ProductRepo { return &ProductRepo{binding{store: s}} }
func (s *Store) Locations() *LocationRepo { return &LocationRepo{binding{store: s}} }
func (s *Store) Sales() *SaleRepo { return &SaleRepo{binding{store: s}} }
func (s *Store) Returns() *ReturnRepo { return &ReturnRepo{binding{store: s}} }
func (s *Store) Reports() *InventoryReportRepo { return &InventoryReportRepo{binding{store: s}} }

// Carga de datos de referencia y ventas (el alta de catálogos no es parte de este servicio).

// AddLocation registra una ubicación.
func (s *Store) AddLocation(l entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.locations[l.ID] = l
}

// AddModel registra un modelo de vehículo.
func (s *Store) AddModel(m entity.VehicleModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.models[m.ID] = m
}

// AddColor registra un color.
func (s *Store) AddColor(c entity.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.colors[c.ID] = c
}

// AddVehicle registra un vehículo.
func (s *Store) AddVehicle(v entity.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.vehicles[v.ID] = v
}

// AddProduct registra un producto.
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
}

// SetStock fija la existencia de un producto en una ubicación.
func (s *Store) SetStock(productID, locationID string, qty int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.stock[stockKey{productID, locationID}] = entity.Stock{
		ProductID: productID, LocationID: locationID, Quantity: qty, UpdatedAt: time.Now(),
	}
}

// AddSale registra una venta con sus líneas (las crea el módulo comercial).
func (s *Store) AddSale(sale entity.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := saleRow{header: sale}
	row.header.Details = nil
	for _, d := range sale.Details {
		dd := *d
		dd.SaleID = sale.ID
		row.details = append(row.details, dd)
	}
	s.st.sales[sale.ID] = row
}
