package http_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/concesionario-api/internal/application/dto"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/concesionario-api/pkg/jwt"
)

const unknownID = "99999999-9999-9999-9999-999999999999"


func transferBody() map[string]any {
	return map[string]any{
		"movementType":   "TRANSFER",
		"fromLocationId": memory.DemoWarehouseID,
		"toLocationId":   memory.DemoNorthID,
		"details": []map[string]any{
			{"vehicleId": memory.DemoVehicle1ID},
			{"productId": memory.DemoHelmetID, "quantity": 5},
		},
	}
}

func TestMovements_TrasladoYRecepcion(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	var created dto.MovementResponse
	status := api.do(t, http.MethodPost, "/api/movements", pkgjwt.RoleWarehouse, transferBody(), &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "IN_TRANSIT", created.Status)
	assert.Equal(t, testUserID, created.CreatedByID)
	assert.Equal(t, 2, created.Quantity)
	assert.Equal(t, "Bodega Central", created.FromLocationName)
	require.Len(t, created.Details, 2)

	v, err := api.store.Vehicles().GetByID(ctx, memory.DemoVehicle1ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AvailabilityInTransit, v.Status, "el traslado reserva el vehículo")
	assert.Equal(t, memory.DemoWarehouseID, *v.LocationID)

	var received dto.MovementResponse
	status = api.do(t, http.MethodPut, "/api/movements/"+created.ID, pkgjwt.RoleWarehouse, map[string]any{
		"receivedBy": "Ana", "isReceived": true, "arrivalDate": "2026-03-01",
	}, &received)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "COMPLETED", received.Status)
	assert.Equal(t, "Ana", received.ReceivedBy)
	require.NotNil(t, received.ArrivalDate)

	v, err = api.store.Vehicles().GetByID(ctx, memory.DemoVehicle1ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AvailabilityAvailable, v.Status)
	assert.Equal(t, memory.DemoNorthID, *v.LocationID)

	wh, err := api.store.Stock().Get(ctx, memory.DemoHelmetID, memory.DemoWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), wh.Quantity)
	north, err := api.store.Stock().Get(ctx, memory.DemoHelmetID, memory.DemoNorthID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), north.Quantity)

	// una segunda recepción es un conflicto
	var errResp dto.ErrorResponse
	status = api.do(t, http.MethodPut, "/api/movements/"+created.ID, pkgjwt.RoleWarehouse, map[string]any{
		"receivedBy": "Ana", "isReceived": true,
	}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errResp.Code)

	// un movimiento COMPLETED no se elimina
	status = api.do(t, http.MethodDelete, "/api/movements/"+created.ID, pkgjwt.RoleWarehouse, nil, &errResp)
	assert.Equal(t, http.StatusConflict, status)
}

func TestMovements_RecepcionRequiereIsReceived(t *testing.T) {
	api := newTestAPI(t)
	var created dto.MovementResponse
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/movements", pkgjwt.RoleAdmin, transferBody(), &created))

	var errResp dto.ErrorResponse
	status := api.do(t, http.MethodPut, "/api/movements/"+created.ID, pkgjwt.RoleAdmin, map[string]any{
		"receivedBy": "Ana", "isReceived": false,
	}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errResp.Code)
}

func TestMovements_EliminarTrasladoLiberaVehiculos(t *testing.T) {
	api := newTestAPI(t)
	var created dto.MovementResponse
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/movements", pkgjwt.RoleWarehouse, transferBody(), &created))

	require.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/api/movements/"+created.ID, pkgjwt.RoleWarehouse, nil, nil))

	v, err := api.store.Vehicles().GetByID(context.Background(), memory.DemoVehicle1ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AvailabilityAvailable, v.Status)

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/movements/"+created.ID, pkgjwt.RoleSeller, nil, &errResp))
}

func TestMovements_ReemplazoEInspeccion(t *testing.T) {
	api := newTestAPI(t)
	var created dto.MovementResponse
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/movements", pkgjwt.RoleWarehouse, transferBody(), &created))

	var replaced dto.MovementResponse
	status := api.do(t, http.MethodPut, "/api/movements/"+created.ID+"/details", pkgjwt.RoleWarehouse, map[string]any{
		"details": []map[string]any{{"vehicleId": memory.DemoVehicle2ID}},
	}, &replaced)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, replaced.Details, 1)
	assert.Equal(t, 1, replaced.Quantity)

	ctx := context.Background()
	v1, err := api.store.Vehicles().GetByID(ctx, memory.DemoVehicle1ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AvailabilityAvailable, v1.Status, "el vehículo retirado queda libre")
	v2, err := api.store.Vehicles().GetByID(ctx, memory.DemoVehicle2ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AvailabilityInTransit, v2.Status)

	var inspected dto.MovementResponse
	status = api.do(t, http.MethodPatch, "/api/movements/"+created.ID+"/details/"+replaced.Details[0].ID, pkgjwt.RoleWarehouse,
		map[string]any{"inspectionStatus": "FAILED"}, &inspected)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "FAILED", inspected.Details[0].InspectionStatus)

	var errResp dto.ErrorResponse
	status = api.do(t, http.MethodPatch, "/api/movements/"+created.ID+"/details/"+unknownID, pkgjwt.RoleWarehouse,
		map[string]any{"inspectionStatus": "PASSED"}, &errResp)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMovements_SalidaSinStockRevierte(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	var errResp dto.ErrorResponse
	status := api.do(t, http.MethodPost, "/api/movements", pkgjwt.RoleWarehouse, map[string]any{
		"movementType":   "EXIT",
		"fromLocationId": memory.DemoNorthID,
		"details": []map[string]any{
			{"vehicleId": memory.DemoVehicle3ID},
			{"productId": memory.DemoHelmetID, "quantity": 50},
		},
	}, &errResp)
	// el vehículo 3 está DAMAGED: conflicto antes de tocar stock
	assert.Equal(t, http.StatusConflict, status)

	status = api.do(t, http.MethodPost, "/api/movements", pkgjwt.RoleWarehouse, map[string]any{
		"movementType":   "EXIT",
		"fromLocationId": memory.DemoWarehouseID,
		"details": []map[string]any{
			{"vehicleId": memory.DemoVehicle1ID},
			{"productId": memory.DemoHelmetID, "quantity": 50},
		},
	}, &errResp)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)

	v, err := api.store.Vehicles().GetByID(ctx, memory.DemoVehicle1ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AvailabilityAvailable, v.Status, "la salida fallida no vende el vehículo")

	var list dto.MovementListResponse
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/movements", pkgjwt.RoleSeller, nil, &list))
	assert.Empty(t, list.Items)
}

func TestMovements_EntradaYSalida(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	var entry dto.MovementResponse
	status := api.do(t, http.MethodPost, "/api/movements", pkgjwt.RoleWarehouse, map[string]any{
		"movementType": "ENTRY",
		"toLocationId": memory.DemoSouthID,
		"details": []map[string]any{
			{"vehicleId": memory.DemoSoldVehicleID},
			{"productId": memory.DemoHelmetID, "quantity": 3},
		},
	}, &entry)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "COMPLETED", entry.Status)

	v, err := api.store.Vehicles().GetByID(ctx, memory.DemoSoldVehicleID)
	require.NoError(t, err)
	assert.Equal(t, entity.AvailabilityAvailable, v.Status)
	assert.Equal(t, memory.DemoSouthID, *v.LocationID)
	south, err := api.store.Stock().Get(ctx, memory.DemoHelmetID, memory.DemoSouthID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), south.Quantity)

	var exit dto.MovementResponse
	status = api.do(t, http.MethodPost, "/api/movements", pkgjwt.RoleWarehouse, map[string]any{
		"movementType":   "EXIT",
		"fromLocationId": memory.DemoSouthID,
		"details":        []map[string]any{{"vehicleId": memory.DemoSoldVehicleID}},
	}, &exit)
	require.Equal(t, http.StatusCreated, status)

	v, err = api.store.Vehicles().GetByID(ctx, memory.DemoSoldVehicleID)
	require.NoError(t, err)
	assert.Equal(t, entity.AvailabilitySold, v.Status)
	assert.Nil(t, v.LocationID)

	var list dto.MovementListResponse
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/movements?type=ENTRY&limit=5", pkgjwt.RoleSeller, nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, entry.ID, list.Items[0].ID)
	assert.Equal(t, 5, list.Page.Limit)
}

func TestMovements_Validaciones(t *testing.T) {
	api := newTestAPI(t)

	cases := []struct {
		name   string
		body   map[string]any
		status int
		field  string
	}{
		{"sin tipo", map[string]any{"details": []map[string]any{{"productId": memory.DemoHelmetID, "quantity": 1}}}, http.StatusBadRequest, "movementType"},
		{"RETURN no es público", map[string]any{"movementType": "RETURN", "toLocationId": memory.DemoNorthID, "details": []map[string]any{{"productId": memory.DemoHelmetID, "quantity": 1}}}, http.StatusBadRequest, "movementType"},
		{"sin líneas", map[string]any{"movementType": "ENTRY", "toLocationId": memory.DemoNorthID, "details": []map[string]any{}}, http.StatusBadRequest, "details"},
		{"id no uuid", map[string]any{"movementType": "ENTRY", "toLocationId": "abc", "details": []map[string]any{{"productId": memory.DemoHelmetID, "quantity": 1}}}, http.StatusBadRequest, "toLocationId"},
		{"vehículo y producto", map[string]any{"movementType": "ENTRY", "toLocationId": memory.DemoNorthID, "details": []map[string]any{{"productId": memory.DemoHelmetID, "vehicleId": memory.DemoSoldVehicleID, "quantity": 1}}}, http.StatusBadRequest, ""},
		{"mismo origen y destino", map[string]any{"movementType": "TRANSFER", "fromLocationId": memory.DemoNorthID, "toLocationId": memory.DemoNorthID, "details": []map[string]any{{"productId": memory.DemoHelmetID, "quantity": 1}}}, http.StatusBadRequest, ""},
		{"ubicación inexistente", map[string]any{"movementType": "ENTRY", "toLocationId": unknownID, "details": []map[string]any{{"productId": memory.DemoHelmetID, "quantity": 1}}}, http.StatusNotFound, ""},
		{"vehículo ya en stock", map[string]any{"movementType": "ENTRY", "toLocationId": memory.DemoNorthID, "details": []map[string]any{{"vehicleId": memory.DemoVehicle1ID}}}, http.StatusConflict, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var errResp dto.ErrorResponse
			status := api.do(t, http.MethodPost, "/api/movements", pkgjwt.RoleWarehouse, tc.body, &errResp)
			assert.Equal(t, tc.status, status)
			if tc.field != "" {
				assert.Contains(t, errResp.Fields, tc.field)
			}
		})
	}
}

func TestMovements_Permisos(t *testing.T) {
	api := newTestAPI(t)

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodPost, "/api/movements", pkgjwt.RoleSeller, transferBody(), &errResp))
	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/api/movements", "", nil, &errResp))
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/api/movements/no-es-uuid", pkgjwt.RoleAdmin, nil, &errResp))
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/movements/"+unknownID, pkgjwt.RoleAdmin, nil, &errResp))
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/api/movements?status=LOST", pkgjwt.RoleAdmin, nil, &errResp))
}
