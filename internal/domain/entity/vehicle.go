package entity

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AvailabilityStatus disposición actual de un vehículo. Conjunto cerrado, sembrado
// en la tabla availability_statuses y referenciado por código.
type AvailabilityStatus string

const (
	AvailabilityAvailable AvailabilityStatus = "AVAILABLE"
	AvailabilityInTransit AvailabilityStatus = "IN_TRANSIT"
	AvailabilitySold      AvailabilityStatus = "SOLD"
	AvailabilityDamaged   AvailabilityStatus = "DAMAGED"
)

// AvailabilityStatuses devuelve todos los estados en orden estable (seed y reportes).
func AvailabilityStatuses() []AvailabilityStatus {
	return []AvailabilityStatus{AvailabilityAvailable, AvailabilityInTransit, AvailabilitySold, AvailabilityDamaged}
}

// Valid indica si el estado pertenece al conjunto cerrado.
func (s AvailabilityStatus) Valid() bool {
	switch s {
	case AvailabilityAvailable, AvailabilityInTransit, AvailabilitySold, AvailabilityDamaged:
		return true
	}
	return false
}

// InStock indica si el estado exige una ubicación asignada.
func (s AvailabilityStatus) InStock() bool {
	switch s {
	case AvailabilityAvailable, AvailabilityInTransit, AvailabilityDamaged:
		return true
	case AvailabilitySold:
		return false
	}
	return false
}

// ParseAvailabilityStatus acepta el código (AVAILABLE) o las etiquetas heredadas en español
// ("Disponible", "En tránsito", "Vendido", "Dañado"), sin distinguir mayúsculas ni tildes.
func ParseAvailabilityStatus(s string) (AvailabilityStatus, error) {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("estado de disponibilidad %q: %w", s, err)
	}
	key := strings.Join(strings.Fields(cases.Upper(language.Und).String(folded)), "_")
	switch key {
	case "AVAILABLE", "DISPONIBLE":
		return AvailabilityAvailable, nil
	case "IN_TRANSIT", "EN_TRANSITO", "TRANSITO":
		return AvailabilityInTransit, nil
	case "SOLD", "VENDIDO":
		return AvailabilitySold, nil
	case "DAMAGED", "DANADO", "AVERIADO":
		return AvailabilityDamaged, nil
	}
	return "", fmt.Errorf("estado de disponibilidad desconocido: %q", s)
}

// Vehicle unidad serializada del inventario.
// LocationID nil significa que el vehículo no está en stock (vendido o dado de baja).
type Vehicle struct {
	ID           string
	SerialNumber string // VIN; único e inmutable
	EngineNumber string
	ModelID      string
	ColorID      string
	LocationID   *string
	Status       AvailabilityStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Consistent verifica la invariante conjunta estado/ubicación.
func (v *Vehicle) Consistent() bool {
	if !v.Status.Valid() {
		return false
	}
	if v.Status.InStock() {
		return v.LocationID != nil
	}
	return v.LocationID == nil
}

// AvailableAt indica si el vehículo está disponible en la ubicación dada.
func (v *Vehicle) AvailableAt(locationID *string) bool {
	return v.Status == AvailabilityAvailable && locationID != nil && SameLocation(v.LocationID, locationID)
}

// OutOfStock indica si el vehículo no está asignado a ninguna ubicación de inventario.
func (v *Vehicle) OutOfStock() bool {
	return v.LocationID == nil && v.Status == AvailabilitySold
}

// VehicleModel modelo comercial (dato de referencia).
type VehicleModel struct {
	ID   string
	Name string
}

// Color color de carrocería (dato de referencia).
type Color struct {
	ID   string
	Name string
}
