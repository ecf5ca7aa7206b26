package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta registrada por el módulo comercial (solo lectura para inventario).
type Sale struct {
	ID           string
	LocationID   string
	LocationName string
	Date         time.Time
	Total        decimal.Decimal
	Details      []*SaleDetail
}

// Detail busca una línea de la venta por ID.
func (s *Sale) Detail(id string) *SaleDetail {
	for _, d := range s.Details {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// SaleDetail línea de venta: exactamente uno de VehicleID / ProductID.
type SaleDetail struct {
	ID        string
	SaleID    string
	VehicleID *string
	ProductID *string
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Exclusive indica si la línea referencia exactamente un vehículo o un producto.
func (d *SaleDetail) Exclusive() bool {
	return (d.VehicleID == nil) != (d.ProductID == nil)
}
