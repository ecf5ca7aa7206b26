package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo lectura de ventas sobre PostgreSQL. Las ventas las escribe el módulo comercial.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// GetByID obtiene la venta con sus líneas y el nombre de la sede.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `
		SELECT s.id, s.location_id, COALESCE(l.name, ''), s.sale_date, s.total
		FROM sales s
		LEFT JOIN locations l ON l.id = s.location_id
		WHERE s.id = $1`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.LocationID, &s.LocationName, &s.Date, &s.Total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", mapError(err))
	}
	details, err := r.details(ctx, id, false)
	if err != nil {
		return nil, err
	}
	s.Details = details
	return &s, nil
}

// LockDetails bloquea las líneas de la venta (SELECT FOR UPDATE) para serializar devoluciones concurrentes.
func (r *SaleRepo) LockDetails(ctx context.Context, saleID string) ([]*entity.SaleDetail, error) {
	return r.details(ctx, saleID, true)
}

func (r *SaleRepo) details(ctx context.Context, saleID string, lock bool) ([]*entity.SaleDetail, error) {
	query := `
		SELECT id, sale_id, vehicle_id, product_id, quantity, unit_price, subtotal
		FROM sale_details WHERE sale_id = $1 ORDER BY id`
	if lock {
		query += ` FOR UPDATE`
	}
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale details: %w", mapError(err))
	}
	defer rows.Close()
	var list []*entity.SaleDetail
	for rows.Next() {
		var d entity.SaleDetail
		if err := rows.Scan(&d.ID, &d.SaleID, &d.VehicleID, &d.ProductID, &d.Quantity, &d.UnitPrice, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale detail: %w", mapError(err))
		}
		list = append(list, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sale details: %w", mapError(err))
	}
	return list, nil
}
