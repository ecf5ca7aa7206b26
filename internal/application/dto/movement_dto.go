package dto

import (
	"time"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
)

// MovementDetailRequest línea de un movimiento: exactamente uno de vehicleId / productId.
type MovementDetailRequest struct {
	VehicleID *string `json:"vehicleId,omitempty" validate:"omitempty,uuid"`
	ProductID *string `json:"productId,omitempty" validate:"omitempty,uuid"`
	Quantity  int64   `json:"quantity,omitempty" validate:"gte=0"`
}

// CreateMovementRequest body para POST /api/movements.
type CreateMovementRequest struct {
	FromLocationID *string                 `json:"fromLocationId,omitempty" validate:"omitempty,uuid"`
	ToLocationID   *string                 `json:"toLocationId,omitempty" validate:"omitempty,uuid"`
	MovementType   string                  `json:"movementType" validate:"required,oneof=ENTRY EXIT TRANSFER"`
	MovementDate   *Date                   `json:"movementDate,omitempty"`
	Status         string                  `json:"status,omitempty" validate:"omitempty,oneof=IN_TRANSIT COMPLETED"`
	Notes          string                  `json:"notes,omitempty" validate:"max=1000"`
	CreatedByID    string                  `json:"createdById,omitempty"`
	OrderReference string                  `json:"orderReference,omitempty" validate:"max=100"`
	Details        []MovementDetailRequest `json:"details" validate:"required,min=1,dive"`
}

// ReceiveMovementRequest body para PUT /api/movements/:id (recepción de traslado).
type ReceiveMovementRequest struct {
	ArrivalDate    *Date  `json:"arrivalDate,omitempty"`
	ReceivedBy     string `json:"receivedBy" validate:"required"`
	IsReceived     bool   `json:"isReceived"`
	ReceptionNotes string `json:"receptionNotes,omitempty" validate:"max=1000"`
}

// ReplaceDetailsRequest body para PUT /api/movements/:id/details (reemplazo total).
type ReplaceDetailsRequest struct {
	Details []MovementDetailRequest `json:"details" validate:"required,min=1,dive"`
}

// InspectionRequest body para PATCH /api/movements/:id/details/:detailId.
type InspectionRequest struct {
	InspectionStatus string `json:"inspectionStatus" validate:"required,oneof=PENDING PASSED FAILED"`
}

// MovementDetailResponse salida de una línea.
type MovementDetailResponse struct {
	ID               string  `json:"id"`
	VehicleID        *string `json:"vehicleId,omitempty"`
	VehicleSerial    string  `json:"vehicleSerial,omitempty"`
	ProductID        *string `json:"productId,omitempty"`
	ProductName      string  `json:"productName,omitempty"`
	Quantity         int64   `json:"quantity"`
	InspectionStatus string  `json:"inspectionStatus"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID               string                   `json:"id"`
	FromLocationID   *string                  `json:"fromLocationId"`
	FromLocationName string                   `json:"fromLocationName,omitempty"`
	ToLocationID     *string                  `json:"toLocationId"`
	ToLocationName   string                   `json:"toLocationName,omitempty"`
	MovementType     string                   `json:"movementType"`
	MovementDate     time.Time                `json:"movementDate"`
	Status           string                   `json:"status"`
	Quantity         int                      `json:"quantity"`
	Notes            string                   `json:"notes,omitempty"`
	Approved         bool                     `json:"approved"`
	CreatedByID      string                   `json:"createdById"`
	OrderReference   string                   `json:"orderReference,omitempty"`
	ArrivalDate      *time.Time               `json:"arrivalDate,omitempty"`
	ReceivedBy       string                   `json:"receivedBy,omitempty"`
	ReceptionNotes   string                   `json:"receptionNotes,omitempty"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
	Details          []MovementDetailResponse `json:"details"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// NewMovementResponse mapea la entidad a la salida HTTP.
func NewMovementResponse(m *entity.Movement) *MovementResponse {
	if m == nil {
		return nil
	}
	out := &MovementResponse{
		ID:               m.ID,
		FromLocationID:   m.FromLocationID,
		FromLocationName: m.FromLocationName,
		ToLocationID:     m.ToLocationID,
		ToLocationName:   m.ToLocationName,
		MovementType:     string(m.Type),
		MovementDate:     m.Date,
		Status:           string(m.Status),
		Quantity:         m.Quantity,
		Notes:            m.Notes,
		Approved:         m.Approved,
		CreatedByID:      m.CreatedBy,
		OrderReference:   m.OrderReference,
		ArrivalDate:      m.ArrivalDate,
		ReceivedBy:       m.ReceivedBy,
		ReceptionNotes:   m.ReceptionNotes,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		Details:          make([]MovementDetailResponse, 0, len(m.Details)),
	}
	for _, d := range m.Details {
		out.Details = append(out.Details, MovementDetailResponse{
			ID:               d.ID,
			VehicleID:        d.VehicleID,
			VehicleSerial:    d.VehicleSerial,
			ProductID:        d.ProductID,
			ProductName:      d.ProductName,
			Quantity:         d.Quantity,
			InspectionStatus: string(d.InspectionStatus),
		})
	}
	return out
}

// MovementListQuery query params de GET /api/movements.
type MovementListQuery struct {
	Type       string `query:"type" validate:"omitempty,oneof=ENTRY EXIT TRANSFER RETURN"`
	Status     string `query:"status" validate:"omitempty,oneof=IN_TRANSIT COMPLETED"`
	LocationID string `query:"locationId" validate:"omitempty,uuid"`
	Limit      int    `query:"limit" validate:"min=0,max=100"`
	Offset     int    `query:"offset" validate:"min=0"`
}

// Page normaliza la paginación del query.
func (q MovementListQuery) Page() PageRequest {
	p := PageRequest{Limit: q.Limit, Offset: q.Offset}
	p.DefaultPage()
	return p
}
