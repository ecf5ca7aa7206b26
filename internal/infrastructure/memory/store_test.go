package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
	"github.com/jhoicas/concesionario-api/internal/infrastructure/memory"
)

func TestRun_ErrorDescartaCambios(t *testing.T) {
	s := memory.NewSeeded()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(_ repository.MovementRepository, vehicles repository.VehicleRepository, stock repository.StockRepository) error {
		require.NoError(t, vehicles.UpdatePlacement(ctx, memory.DemoVehicle1ID, nil, entity.AvailabilitySold, time.Now()))
		require.NoError(t, stock.Upsert(ctx, &entity.Stock{ProductID: memory.DemoHelmetID, LocationID: memory.DemoWarehouseID, Quantity: 1}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, err := s.Vehicles().GetByID(ctx, memory.DemoVehicle1ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AvailabilityAvailable, v.Status)
	require.NotNil(t, v.LocationID)
	assert.Equal(t, memory.DemoWarehouseID, *v.LocationID)

	st, err := s.Stock().Get(ctx, memory.DemoHelmetID, memory.DemoWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), st.Quantity)
}

func TestRun_PublicaAlConfirmar(t *testing.T) {
	s := memory.NewSeeded()
	ctx := context.Background()

	err := s.Run(ctx, func(_ repository.MovementRepository, _ repository.VehicleRepository, stock repository.StockRepository) error {
		return stock.Upsert(ctx, &entity.Stock{ProductID: memory.DemoHelmetID, LocationID: memory.DemoSouthID, Quantity: 7})
	})
	require.NoError(t, err)

	st, err := s.Stock().Get(ctx, memory.DemoHelmetID, memory.DemoSouthID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), st.Quantity)
}

func TestStockUpsert_RechazaNegativo(t *testing.T) {
	s := memory.NewSeeded()
	err := s.Stock().Upsert(context.Background(), &entity.Stock{ProductID: memory.DemoHelmetID, LocationID: memory.DemoWarehouseID, Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestStockGet_SinFilaDevuelveCero(t *testing.T) {
	s := memory.NewSeeded()
	st, err := s.Stock().Get(context.Background(), memory.DemoHelmetID, memory.DemoSouthID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.Quantity)
}

func TestGetByID_Inexistente(t *testing.T) {
	s := memory.NewSeeded()
	ctx := context.Background()

	m, err := s.Movements().GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, m)

	loc, err := s.Locations().GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, loc)

	sale, err := s.Sales().GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, sale)
}

func TestMovementRepo_ListFiltraYOrdena(t *testing.T) {
	s := memory.NewSeeded()
	ctx := context.Background()
	wh, north := memory.DemoWarehouseID, memory.DemoNorthID
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	movs := []*entity.Movement{
		{ID: "m1", Type: entity.MovementTypeEntry, Status: entity.MovementStatusCompleted, ToLocationID: &wh, Date: base},
		{ID: "m2", Type: entity.MovementTypeTransfer, Status: entity.MovementStatusInTransit, FromLocationID: &wh, ToLocationID: &north, Date: base.Add(time.Hour)},
		{ID: "m3", Type: entity.MovementTypeExit, Status: entity.MovementStatusCompleted, FromLocationID: &north, Date: base.Add(2 * time.Hour)},
	}
	for _, m := range movs {
		require.NoError(t, s.Movements().Create(ctx, m))
	}

	all, err := s.Movements().List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "m3", all[0].ID)
	assert.Equal(t, "m1", all[2].ID)

	atNorth, err := s.Movements().List(ctx, repository.MovementFilter{LocationID: north})
	require.NoError(t, err)
	require.Len(t, atNorth, 2)
	assert.Equal(t, "Sede Norte", atNorth[0].FromLocationName)

	transit, err := s.Movements().List(ctx, repository.MovementFilter{Status: entity.MovementStatusInTransit})
	require.NoError(t, err)
	require.Len(t, transit, 1)
	assert.Equal(t, "m2", transit[0].ID)

	page, err := s.Movements().List(ctx, repository.MovementFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "m2", page[0].ID)
}

func TestMovementRepo_ResuelveNombres(t *testing.T) {
	s := memory.NewSeeded()
	ctx := context.Background()
	wh, v1, helmet := memory.DemoWarehouseID, memory.DemoVehicle1ID, memory.DemoHelmetID

	require.NoError(t, s.Movements().Create(ctx, &entity.Movement{
		ID: "m1", Type: entity.MovementTypeExit, Status: entity.MovementStatusCompleted, FromLocationID: &wh,
		Details: []*entity.MovementDetail{
			{ID: "d1", MovementID: "m1", VehicleID: &v1, Quantity: 1, InspectionStatus: entity.InspectionPending},
			{ID: "d2", MovementID: "m1", ProductID: &helmet, Quantity: 3, InspectionStatus: entity.InspectionPending},
		},
	}))

	m, err := s.Movements().GetByID(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, m.Details, 2)
	assert.Equal(t, "Bodega Central", m.FromLocationName)
	assert.Equal(t, "9FSNKD125A0000001", m.Detail("d1").VehicleSerial)
	assert.Equal(t, "Casco integral", m.Detail("d2").ProductName)

	require.NoError(t, s.Movements().UpdateInspection(ctx, "d2", entity.InspectionFailed))
	m, err = s.Movements().GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, entity.InspectionFailed, m.Detail("d2").InspectionStatus)

	assert.ErrorIs(t, s.Movements().UpdateInspection(ctx, "zz", entity.InspectionPassed), domain.ErrNotFound)
}

func TestInventoryReport_SoloVehiculosEnStock(t *testing.T) {
	s := memory.NewSeeded()
	ctx := context.Background()

	rows, err := s.Reports().CountByModelColorStatus(ctx, "")
	require.NoError(t, err)
	var total int64
	for _, r := range rows {
		assert.NotEqual(t, string(entity.AvailabilitySold), r.Status)
		assert.Equal(t, "NKD 125", r.ModelName)
		total += r.Count
	}
	assert.Equal(t, int64(3), total)

	rows, err = s.Reports().CountByModelColorStatus(ctx, memory.DemoNorthID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Rojo", rows[0].ColorName)
	assert.Equal(t, string(entity.AvailabilityDamaged), rows[0].Status)

	byLoc, err := s.Reports().CountByLocation(ctx)
	require.NoError(t, err)
	require.Len(t, byLoc, 2)
	assert.Equal(t, "Bodega Central", byLoc[0].LocationName)
	assert.Equal(t, int64(2), byLoc[0].Count)
}

func TestReturnRepo_ReturnedQuantities(t *testing.T) {
	s := memory.NewSeeded()
	ctx := context.Background()

	for i, qty := range []int64{1, 1} {
		require.NoError(t, s.Returns().Create(ctx, &entity.SalesReturn{
			ID:             []string{"r1", "r2"}[i],
			OriginalSaleID: memory.DemoSaleID,
			Details: []*entity.ReturnDetail{
				{ID: []string{"rd1", "rd2"}[i], SaleDetailID: memory.DemoSaleHelmetLine, QuantityReturned: qty},
			},
		}))
	}
	got, err := s.Returns().ReturnedQuantities(ctx, memory.DemoSaleID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got[memory.DemoSaleHelmetLine])

	list, err := s.Returns().List(ctx, repository.ReturnFilter{SaleID: memory.DemoSaleID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r2", list[0].ID)

	err = s.Returns().Create(ctx, &entity.SalesReturn{ID: "r3", OriginalSaleID: "otra"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
