package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/concesionario-api/internal/application/inventory"
	"github.com/jhoicas/concesionario-api/internal/application/sales"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner   = (*TxRunner)(nil)
	_ sales.ReturnTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	vehicleRepo repository.VehicleRepository,
	stockRepo repository.StockRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewMovementRepository(tx), NewVehicleRepository(tx), NewStockRepository(tx))
	})
}

// RunReturn inicia una transacción con repos de inventario, ventas y devoluciones.
func (r *TxRunner) RunReturn(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	vehicleRepo repository.VehicleRepository,
	stockRepo repository.StockRepository,
	saleRepo repository.SaleRepository,
	returnRepo repository.SalesReturnRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewMovementRepository(tx),
			NewVehicleRepository(tx),
			NewStockRepository(tx),
			NewSaleRepository(tx),
			NewSalesReturnRepository(tx),
		)
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", mapError(err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", mapError(err))
	}
	return nil
}
