package entity

import "time"

// Stock existencias de un producto en una ubicación. Quantity nunca es negativa.
type Stock struct {
	ProductID  string
	LocationID string
	Quantity   int64
	UpdatedAt  time.Time
}
