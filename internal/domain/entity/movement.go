package entity

import "time"

// MovementType tipo de movimiento de inventario.
type MovementType string

const (
	MovementTypeEntry    MovementType = "ENTRY"    // ingreso sin origen
	MovementTypeExit     MovementType = "EXIT"     // salida sin destino
	MovementTypeTransfer MovementType = "TRANSFER" // traslado entre ubicaciones
	MovementTypeReturn   MovementType = "RETURN"   // devolución de venta
)

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeTransfer, MovementTypeReturn:
		return true
	}
	return false
}

// MovementStatus estado del movimiento. Única transición legal: IN_TRANSIT -> COMPLETED.
type MovementStatus string

const (
	MovementStatusInTransit MovementStatus = "IN_TRANSIT"
	MovementStatusCompleted MovementStatus = "COMPLETED"
)

// Valid indica si el estado pertenece al conjunto cerrado.
func (s MovementStatus) Valid() bool {
	return s == MovementStatusInTransit || s == MovementStatusCompleted
}

// InspectionStatus resultado de la inspección de una línea.
type InspectionStatus string

const (
	InspectionPending InspectionStatus = "PENDING"
	InspectionPassed  InspectionStatus = "PASSED"
	InspectionFailed  InspectionStatus = "FAILED"
)

// Valid indica si el estado de inspección pertenece al conjunto cerrado.
func (s InspectionStatus) Valid() bool {
	switch s {
	case InspectionPending, InspectionPassed, InspectionFailed:
		return true
	}
	return false
}

// Movement cabecera de un movimiento de inventario con sus líneas.
type Movement struct {
	ID             string
	FromLocationID *string
	ToLocationID   *string
	Type           MovementType
	Date           time.Time
	Status         MovementStatus
	Quantity       int // número de líneas de detalle
	Notes          string
	Approved       bool
	CreatedBy      string
	OrderReference string // correlación libre, p. ej. ID de la devolución
	ArrivalDate    *time.Time
	ReceivedBy     string
	ReceptionNotes string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Details        []*MovementDetail

	// Solo lectura: nombres resueltos por join en las consultas.
	FromLocationName string
	ToLocationName   string
}

// VehicleIDs devuelve los IDs de vehículos referenciados por las líneas.
func (m *Movement) VehicleIDs() []string {
	ids := make([]string, 0, len(m.Details))
	for _, d := range m.Details {
		if d.VehicleID != nil {
			ids = append(ids, *d.VehicleID)
		}
	}
	return ids
}

// Detail busca una línea por ID.
func (m *Movement) Detail(id string) *MovementDetail {
	for _, d := range m.Details {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// MovementDetail línea de un movimiento: exactamente uno de VehicleID / ProductID.
type MovementDetail struct {
	ID               string
	MovementID       string
	VehicleID        *string
	ProductID        *string
	Quantity         int64
	InspectionStatus InspectionStatus

	// Solo lectura (join).
	VehicleSerial string
	ProductName   string
}

// Exclusive indica si la línea referencia exactamente un vehículo o un producto.
func (d *MovementDetail) Exclusive() bool {
	return (d.VehicleID == nil) != (d.ProductID == nil)
}
