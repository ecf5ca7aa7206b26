package dto

import (
	"time"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ReturnedItemRequest línea a devolver, referida a una línea de la venta original.
type ReturnedItemRequest struct {
	SaleDetailID string `json:"saleDetailId" validate:"required,uuid"`
	Quantity     int64  `json:"quantity" validate:"required,gte=1"`
}

// CreateSalesReturnRequest body para POST /api/returns.
type CreateSalesReturnRequest struct {
	OriginalSaleID string                `json:"originalSaleId" validate:"required,uuid"`
	ReturnedItems  []ReturnedItemRequest `json:"returnedItems" validate:"required,min=1,dive"`
	ProcessedBy    string                `json:"processedBy,omitempty"`
	LocationID     string                `json:"locationId,omitempty" validate:"omitempty,uuid"`
	Reason         string                `json:"reason,omitempty" validate:"max=500"`
}

// ReturnDetailResponse salida de una línea devuelta.
type ReturnDetailResponse struct {
	ID               string          `json:"id"`
	SaleDetailID     string          `json:"saleDetailId"`
	VehicleID        *string         `json:"vehicleId,omitempty"`
	ProductID        *string         `json:"productId,omitempty"`
	QuantityReturned int64           `json:"quantityReturned"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

// SaleDetailResponse línea de la venta original.
type SaleDetailResponse struct {
	ID        string          `json:"id"`
	VehicleID *string         `json:"vehicleId,omitempty"`
	ProductID *string         `json:"productId,omitempty"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta original anidada en la devolución.
type SaleResponse struct {
	ID           string               `json:"id"`
	LocationID   string               `json:"locationId"`
	LocationName string               `json:"locationName,omitempty"`
	Date         time.Time            `json:"date"`
	Total        decimal.Decimal      `json:"total"`
	Details      []SaleDetailResponse `json:"details"`
}

// SalesReturnResponse salida de una devolución.
type SalesReturnResponse struct {
	ID             string                 `json:"id"`
	OriginalSaleID string                 `json:"originalSaleId"`
	Reason         string                 `json:"reason,omitempty"`
	TotalAmount    decimal.Decimal        `json:"totalAmount"`
	ReturnDate     time.Time              `json:"returnDate"`
	ProcessedBy    string                 `json:"processedBy"`
	LocationID     string                 `json:"locationId"`
	Details        []ReturnDetailResponse `json:"details"`
	Movement       *MovementResponse      `json:"movement,omitempty"`
	Sale           *SaleResponse          `json:"sale,omitempty"`
}

// SalesReturnListResponse lista paginada de devoluciones.
type SalesReturnListResponse struct {
	Items []SalesReturnResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// NewSalesReturnResponse mapea la devolución (y opcionalmente la venta) a la salida HTTP.
func NewSalesReturnResponse(r *entity.SalesReturn, sale *entity.Sale) *SalesReturnResponse {
	if r == nil {
		return nil
	}
	out := &SalesReturnResponse{
		ID:             r.ID,
		OriginalSaleID: r.OriginalSaleID,
		Reason:         r.Reason,
		TotalAmount:    r.TotalAmount,
		ReturnDate:     r.ReturnDate,
		ProcessedBy:    r.ProcessedBy,
		LocationID:     r.LocationID,
		Details:        make([]ReturnDetailResponse, 0, len(r.Details)),
		Movement:       NewMovementResponse(r.Movement),
	}
	for _, d := range r.Details {
		out.Details = append(out.Details, ReturnDetailResponse{
			ID:               d.ID,
			SaleDetailID:     d.SaleDetailID,
			VehicleID:        d.VehicleID,
			ProductID:        d.ProductID,
			QuantityReturned: d.QuantityReturned,
			Subtotal:         d.Subtotal,
		})
	}
	if sale != nil {
		s := &SaleResponse{
			ID:           sale.ID,
			LocationID:   sale.LocationID,
			LocationName: sale.LocationName,
			Date:         sale.Date,
			Total:        sale.Total,
			Details:      make([]SaleDetailResponse, 0, len(sale.Details)),
		}
		for _, d := range sale.Details {
			s.Details = append(s.Details, SaleDetailResponse{
				ID:        d.ID,
				VehicleID: d.VehicleID,
				ProductID: d.ProductID,
				Quantity:  d.Quantity,
				UnitPrice: d.UnitPrice,
				Subtotal:  d.Subtotal,
			})
		}
		out.Sale = s
	}
	return out
}

// ReturnListQuery query params de GET /api/returns.
type ReturnListQuery struct {
	SaleID string `query:"saleId" validate:"omitempty,uuid"`
	Limit  int    `query:"limit" validate:"min=0,max=100"`
	Offset int    `query:"offset" validate:"min=0"`
}

// Page normaliza la paginación del query.
func (q ReturnListQuery) Page() PageRequest {
	p := PageRequest{Limit: q.Limit, Offset: q.Offset}
	p.DefaultPage()
	return p
}
