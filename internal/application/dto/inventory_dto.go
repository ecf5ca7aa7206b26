package dto

// VehicleCountDTO fila de GET /api/inventory/count-by-model-color-status.
type VehicleCountDTO struct {
	ModelID   string `json:"modelId"`
	ModelName string `json:"modelName"`
	ColorID   string `json:"colorId"`
	ColorName string `json:"colorName"`
	Status    string `json:"status"`
	Count     int64  `json:"count"`
}

// LocationCountDTO fila de GET /api/inventory/count-by-location.
type LocationCountDTO struct {
	LocationID   string `json:"locationId"`
	LocationName string `json:"locationName"`
	Status       string `json:"status"`
	Count        int64  `json:"count"`
}
