package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReturn devolución (total o parcial) de una venta. Registro terminal: no se modifica.
type SalesReturn struct {
	ID             string
	OriginalSaleID string
	Reason         string
	TotalAmount    decimal.Decimal
	ReturnDate     time.Time
	ProcessedBy    string
	LocationID     string
	CreatedAt      time.Time
	Details        []*ReturnDetail

	// Movimiento compensatorio (Movement.OrderReference == ID). Solo en resultados.
	Movement *Movement
}

// ReturnDetail línea devuelta, referida a una línea de la venta original.
type ReturnDetail struct {
	ID               string
	ReturnID         string
	SaleDetailID     string
	QuantityReturned int64
	Subtotal         decimal.Decimal

	// Resueltos desde la línea de venta.
	VehicleID *string
	ProductID *string
}
