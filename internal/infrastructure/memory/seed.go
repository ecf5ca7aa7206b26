package memory

import (
	"time"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// IDs fijos de los datos de demostración.
const (
	DemoWarehouseID = "10000000-0000-0000-0000-000000000001"
	DemoNorthID     = "10000000-0000-0000-0000-000000000002"
	DemoSouthID     = "10000000-0000-0000-0000-000000000003"

	DemoModelID = "20000000-0000-0000-0000-000000000001"
	DemoRedID   = "30000000-0000-0000-0000-000000000001"
	DemoBlackID = "30000000-0000-0000-0000-000000000002"

	DemoVehicle1ID    = "40000000-0000-0000-0000-000000000001"
	DemoVehicle2ID    = "40000000-0000-0000-0000-000000000002"
	DemoVehicle3ID    = "40000000-0000-0000-0000-000000000003"
	DemoSoldVehicleID = "40000000-0000-0000-0000-000000000004"

	DemoHelmetID = "50000000-0000-0000-0000-000000000001"

	DemoSaleID          = "60000000-0000-0000-0000-000000000001"
	DemoSaleVehicleLine = "61000000-0000-0000-0000-000000000001"
	DemoSaleHelmetLine  = "61000000-0000-0000-0000-000000000002"

	DemoOtherSaleID   = "60000000-0000-0000-0000-000000000002"
	DemoOtherSaleLine = "61000000-0000-0000-0000-000000000003"
)

// NewSeeded crea un almacén con ubicaciones, vehículos, un producto con stock y una venta.
// Lo usa el modo STORE_DRIVER=memory para levantar la API sin base de datos.
func NewSeeded() *Store {
	s := New()
	now := time.Now()
	for _, l := range []entity.Location{
		{ID: DemoWarehouseID, Name: "Bodega Central", City: "Bogotá"},
		{ID: DemoNorthID, Name: "Sede Norte", City: "Bogotá"},
		{ID: DemoSouthID, Name: "Sede Sur", City: "Cali"},
	} {
		l.CreatedAt, l.UpdatedAt = now, now
		s.AddLocation(l)
	}
	s.AddModel(entity.VehicleModel{ID: DemoModelID, Name: "NKD 125"})
	s.AddColor(entity.Color{ID: DemoRedID, Name: "Rojo"})
	s.AddColor(entity.Color{ID: DemoBlackID, Name: "Negro"})

	wh, north := DemoWarehouseID, DemoNorthID
	for _, v := range []entity.Vehicle{
		{ID: DemoVehicle1ID, SerialNumber: "9FSNKD125A0000001", ColorID: DemoRedID, LocationID: &wh, Status: entity.AvailabilityAvailable},
		{ID: DemoVehicle2ID, SerialNumber: "9FSNKD125A0000002", ColorID: DemoBlackID, LocationID: &wh, Status: entity.AvailabilityAvailable},
		{ID: DemoVehicle3ID, SerialNumber: "9FSNKD125A0000003", ColorID: DemoRedID, LocationID: &north, Status: entity.AvailabilityDamaged},
		{ID: DemoSoldVehicleID, SerialNumber: "9FSNKD125A0000004", ColorID: DemoBlackID, Status: entity.AvailabilitySold},
	} {
		v.ModelID = DemoModelID
		v.EngineNumber = "E" + v.SerialNumber[len(v.SerialNumber)-7:]
		v.CreatedAt, v.UpdatedAt = now, now
		s.AddVehicle(v)
	}

	s.AddProduct(entity.Product{ID: DemoHelmetID, SKU: "CASCO-01", Name: "Casco integral", ReorderPoint: 5, CreatedAt: now, UpdatedAt: now})
	s.SetStock(DemoHelmetID, DemoWarehouseID, 20)
	s.SetStock(DemoHelmetID, DemoNorthID, 4)

	soldVehicle, helmet := DemoSoldVehicleID, DemoHelmetID
	s.AddSale(entity.Sale{
		ID:         DemoSaleID,
		LocationID: DemoNorthID,
		Date:       now.AddDate(0, 0, -3),
		Total:      decimal.RequireFromString("8300000"),
		Details: []*entity.SaleDetail{
			{ID: DemoSaleVehicleLine, VehicleID: &soldVehicle, Quantity: 1, UnitPrice: decimal.RequireFromString("8000000"), Subtotal: decimal.RequireFromString("8000000")},
			{ID: DemoSaleHelmetLine, ProductID: &helmet, Quantity: 2, UnitPrice: decimal.RequireFromString("150000"), Subtotal: decimal.RequireFromString("300000")},
		},
	})
	s.AddSale(entity.Sale{
		ID:         DemoOtherSaleID,
		LocationID: DemoSouthID,
		Date:       now.AddDate(0, 0, -1),
		Total:      decimal.RequireFromString("150000"),
		Details: []*entity.SaleDetail{
			{ID: DemoOtherSaleLine, ProductID: &helmet, Quantity: 1, UnitPrice: decimal.RequireFromString("150000"), Subtotal: decimal.RequireFromString("150000")},
		},
	})
	return s
}
