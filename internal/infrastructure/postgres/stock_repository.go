package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en una ubicación.
func (r *StockRepo) Get(ctx context.Context, productID, locationID string) (*entity.Stock, error) {
	return r.get(ctx, false, productID, locationID)
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
// Si la fila no existe se crea con cantidad 0 antes de bloquearla: sin fila el FOR UPDATE
// no bloquea nada y dos transacciones leerían 0 a la vez.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.Stock, error) {
	if _, err := r.q.Exec(ctx, seedStockQuery, productID, locationID); err != nil {
		return nil, fmt.Errorf("seed stock: %w", mapError(err))
	}
	return r.get(ctx, true, productID, locationID)
}

const seedStockQuery = `
	INSERT INTO stock (product_id, location_id, quantity, updated_at)
	VALUES ($1, $2, 0, now())
	ON CONFLICT (product_id, location_id) DO NOTHING`

func (r *StockRepo) get(ctx context.Context, lock bool, productID, locationID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, location_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND location_id = $2`
	if lock {
		query += ` FOR UPDATE`
	}
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, productID, locationID).Scan(&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ProductID: productID, LocationID: locationID}, nil
		}
		return nil, fmt.Errorf("get stock: %w", mapError(err))
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por producto y ubicación).
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, stock.ProductID, stock.LocationID, stock.Quantity); err != nil {
		return fmt.Errorf("upsert stock: %w", mapError(err))
	}
	return nil
}
