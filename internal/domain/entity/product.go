package entity

import "time"

// Product repuesto, accesorio o SKU a granel. El stock se lleva por ubicación en Stock.
type Product struct {
	ID           string
	SKU          string
	Name         string
	ReorderPoint int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
