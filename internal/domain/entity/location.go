package entity

import "time"

// Location representa una sede, patio o bodega del concesionario donde se ubica inventario.
type Location struct {
	ID        string
	Name      string
	Address   string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SameLocation compara dos referencias de ubicación opcionales (nil = sin ubicación).
func SameLocation(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
