package http_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/concesionario-api/internal/application/dto"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/concesionario-api/pkg/jwt"
)

func returnBody(items ...map[string]any) map[string]any {
	return map[string]any{
		"originalSaleId": memory.DemoSaleID,
		"reason":         "cliente insatisfecho",
		"returnedItems":  items,
	}
}

func TestReturns_DevolucionDeVehiculo(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	var created dto.SalesReturnResponse
	status := api.do(t, http.MethodPost, "/api/returns", pkgjwt.RoleSeller,
		returnBody(map[string]any{"saleDetailId": memory.DemoSaleVehicleLine, "quantity": 1}), &created)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, decimal.RequireFromString("8000000").Equal(created.TotalAmount))
	assert.Equal(t, memory.DemoNorthID, created.LocationID)
	assert.Equal(t, testUserID, created.ProcessedBy)
	require.Len(t, created.Details, 1)

	require.NotNil(t, created.Movement)
	assert.Equal(t, "RETURN", created.Movement.MovementType)
	assert.Equal(t, "COMPLETED", created.Movement.Status)
	assert.Equal(t, created.ID, created.Movement.OrderReference)
	assert.Equal(t, "Sede Norte", created.Movement.ToLocationName)
	require.Len(t, created.Movement.Details, 1)
	assert.Equal(t, "PASSED", created.Movement.Details[0].InspectionStatus)

	v, err := api.store.Vehicles().GetByID(ctx, memory.DemoSoldVehicleID)
	require.NoError(t, err)
	assert.Equal(t, entity.AvailabilityAvailable, v.Status)
	require.NotNil(t, v.LocationID)
	assert.Equal(t, memory.DemoNorthID, *v.LocationID)

	var got dto.SalesReturnResponse
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/returns/"+created.ID, pkgjwt.RoleWarehouse, nil, &got))
	require.NotNil(t, got.Sale)
	assert.Equal(t, memory.DemoSaleID, got.Sale.ID)
	assert.Len(t, got.Sale.Details, 2)
	require.NotNil(t, got.Movement)
	assert.Equal(t, created.Movement.ID, got.Movement.ID)

	// el vehículo ya fue devuelto
	var errResp dto.ErrorResponse
	status = api.do(t, http.MethodPost, "/api/returns", pkgjwt.RoleSeller,
		returnBody(map[string]any{"saleDetailId": memory.DemoSaleVehicleLine, "quantity": 1}), &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errResp.Code)
}

func TestReturns_DevolucionParcialDeProducto(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	var first dto.SalesReturnResponse
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/returns", pkgjwt.RoleAdmin,
		returnBody(map[string]any{"saleDetailId": memory.DemoSaleHelmetLine, "quantity": 1}), &first))
	assert.True(t, decimal.RequireFromString("150000").Equal(first.TotalAmount))

	stock, err := api.store.Stock().Get(ctx, memory.DemoHelmetID, memory.DemoNorthID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stock.Quantity)

	var errResp dto.ErrorResponse
	status := api.do(t, http.MethodPost, "/api/returns", pkgjwt.RoleAdmin,
		returnBody(map[string]any{"saleDetailId": memory.DemoSaleHelmetLine, "quantity": 2}), &errResp)
	assert.Equal(t, http.StatusConflict, status, "solo queda 1 casco por devolver")

	var second dto.SalesReturnResponse
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/returns", pkgjwt.RoleAdmin,
		returnBody(map[string]any{"saleDetailId": memory.DemoSaleHelmetLine, "quantity": 1}), &second))

	stock, err = api.store.Stock().Get(ctx, memory.DemoHelmetID, memory.DemoNorthID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), stock.Quantity)

	var list dto.SalesReturnListResponse
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/returns?saleId="+memory.DemoSaleID, pkgjwt.RoleSeller, nil, &list))
	assert.Len(t, list.Items, 2)
}

func TestReturns_Rechazos(t *testing.T) {
	api := newTestAPI(t)

	cases := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"línea inexistente", returnBody(map[string]any{"saleDetailId": unknownID, "quantity": 1}), http.StatusUnprocessableEntity},
		{"línea de otra venta", returnBody(map[string]any{"saleDetailId": memory.DemoOtherSaleLine, "quantity": 1}), http.StatusUnprocessableEntity},
		{"línea de otra venta junto a una propia", returnBody(
			map[string]any{"saleDetailId": memory.DemoSaleHelmetLine, "quantity": 1},
			map[string]any{"saleDetailId": memory.DemoOtherSaleLine, "quantity": 1},
		), http.StatusUnprocessableEntity},
		{"más de lo vendido", returnBody(map[string]any{"saleDetailId": memory.DemoSaleHelmetLine, "quantity": 3}), http.StatusBadRequest},
		{"vehículo con cantidad 2", returnBody(map[string]any{"saleDetailId": memory.DemoSaleVehicleLine, "quantity": 2}), http.StatusBadRequest},
		{"sin líneas", returnBody(), http.StatusBadRequest},
		{"venta inexistente", map[string]any{"originalSaleId": unknownID, "returnedItems": []map[string]any{{"saleDetailId": memory.DemoSaleHelmetLine, "quantity": 1}}}, http.StatusNotFound},
		{"sede distinta a la venta", map[string]any{"originalSaleId": memory.DemoSaleID, "locationId": memory.DemoSouthID, "returnedItems": []map[string]any{{"saleDetailId": memory.DemoSaleHelmetLine, "quantity": 1}}}, http.StatusBadRequest},
		{"línea repetida", returnBody(
			map[string]any{"saleDetailId": memory.DemoSaleHelmetLine, "quantity": 1},
			map[string]any{"saleDetailId": memory.DemoSaleHelmetLine, "quantity": 1},
		), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var errResp dto.ErrorResponse
			assert.Equal(t, tc.status, api.do(t, http.MethodPost, "/api/returns", pkgjwt.RoleSeller, tc.body, &errResp))
			if tc.status == http.StatusUnprocessableEntity {
				assert.Equal(t, "INVARIANT_VIOLATION", errResp.Code)
			}
		})
	}

	// ningún rechazo deja rastro
	var list dto.SalesReturnListResponse
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/returns", pkgjwt.RoleSeller, nil, &list))
	assert.Empty(t, list.Items)
	var movements dto.MovementListResponse
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/movements?type=RETURN", pkgjwt.RoleSeller, nil, &movements))
	assert.Empty(t, movements.Items)
}

func TestReturns_Permisos(t *testing.T) {
	api := newTestAPI(t)
	body := returnBody(map[string]any{"saleDetailId": memory.DemoSaleHelmetLine, "quantity": 1})

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodPost, "/api/returns", pkgjwt.RoleWarehouse, body, &errResp))
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/returns/"+unknownID, pkgjwt.RoleSeller, nil, &errResp))
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/api/returns/123", pkgjwt.RoleSeller, nil, &errResp))
}
