package repository

import "context"

// VehicleCountResult conteo agrupado de vehículos por modelo, color y estado.
type VehicleCountResult struct {
	ModelID   string
	ModelName string
	ColorID   string
	ColorName string
	Status    string
	Count     int64
}

// LocationCountResult conteo de vehículos por ubicación y estado.
type LocationCountResult struct {
	LocationID   string
	LocationName string
	Status       string
	Count        int64
}

// InventoryReportRepository consultas agregadas de solo lectura.
type InventoryReportRepository interface {
	// CountByModelColorStatus agrupa vehículos en stock; locationID vacío = todas las ubicaciones.
	CountByModelColorStatus(ctx context.Context, locationID string) ([]VehicleCountResult, error)
	CountByLocation(ctx context.Context) ([]LocationCountResult, error)
}
