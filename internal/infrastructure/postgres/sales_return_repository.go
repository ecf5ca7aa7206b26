package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

var _ repository.SalesReturnRepository = (*SalesReturnRepo)(nil)

// SalesReturnRepo devoluciones sobre PostgreSQL (usable con pool o tx).
type SalesReturnRepo struct {
	q Querier
}

// NewSalesReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesReturnRepository(q Querier) *SalesReturnRepo {
	return &SalesReturnRepo{q: q}
}

// Create inserta la devolución y sus líneas.
func (r *SalesReturnRepo) Create(ctx context.Context, ret *entity.SalesReturn) error {
	query := `
		INSERT INTO sales_returns (id, original_sale_id, reason, total_amount, return_date, processed_by, location_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		ret.ID, ret.OriginalSaleID, nullString(ret.Reason), ret.TotalAmount,
		ret.ReturnDate, ret.ProcessedBy, ret.LocationID, ret.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create sales return: %w", mapError(err))
	}
	detailQuery := `
		INSERT INTO return_details (id, return_id, sale_detail_id, quantity_returned, subtotal, vehicle_id, product_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, d := range ret.Details {
		if _, err := r.q.Exec(ctx, detailQuery,
			d.ID, ret.ID, d.SaleDetailID, d.QuantityReturned, d.Subtotal, d.VehicleID, d.ProductID,
		); err != nil {
			return fmt.Errorf("create return detail: %w", mapError(err))
		}
	}
	return nil
}

const returnSelect = `
	SELECT id, original_sale_id, COALESCE(reason, ''), total_amount, return_date, processed_by, location_id, created_at
	FROM sales_returns`

func scanReturn(row pgx.Row) (*entity.SalesReturn, error) {
	var ret entity.SalesReturn
	err := row.Scan(&ret.ID, &ret.OriginalSaleID, &ret.Reason, &ret.TotalAmount,
		&ret.ReturnDate, &ret.ProcessedBy, &ret.LocationID, &ret.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// GetByID obtiene una devolución con sus líneas.
func (r *SalesReturnRepo) GetByID(ctx context.Context, id string) (*entity.SalesReturn, error) {
	ret, err := scanReturn(r.q.QueryRow(ctx, returnSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales return: %w", mapError(err))
	}
	if err := r.loadDetails(ctx, []*entity.SalesReturn{ret}); err != nil {
		return nil, err
	}
	return ret, nil
}

// List lista devoluciones, las más recientes primero.
func (r *SalesReturnRepo) List(ctx context.Context, f repository.ReturnFilter) ([]*entity.SalesReturn, error) {
	query := returnSelect + ` WHERE ($1 = '' OR original_sale_id::text = $1) ORDER BY created_at DESC`
	args := []any{f.SaleID}
	if f.Limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, f.Limit, f.Offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales returns: %w", mapError(err))
	}
	var list []*entity.SalesReturn
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sales return: %w", err)
		}
		list = append(list, ret)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales returns: %w", err)
	}
	if err := r.loadDetails(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SalesReturnRepo) loadDetails(ctx context.Context, list []*entity.SalesReturn) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, 0, len(list))
	byID := make(map[string]*entity.SalesReturn, len(list))
	for _, ret := range list {
		ids = append(ids, ret.ID)
		byID[ret.ID] = ret
	}
	query := `
		SELECT id, return_id, sale_detail_id, quantity_returned, subtotal, vehicle_id, product_id
		FROM return_details WHERE return_id = ANY($1::uuid[]) ORDER BY return_id, id`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list return details: %w", mapError(err))
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.ReturnDetail
		if err := rows.Scan(&d.ID, &d.ReturnID, &d.SaleDetailID, &d.QuantityReturned, &d.Subtotal, &d.VehicleID, &d.ProductID); err != nil {
			return fmt.Errorf("scan return detail: %w", err)
		}
		if ret := byID[d.ReturnID]; ret != nil {
			ret.Details = append(ret.Details, &d)
		}
	}
	return rows.Err()
}

// ReturnedQuantities suma lo ya devuelto por línea de venta.
func (r *SalesReturnRepo) ReturnedQuantities(ctx context.Context, saleID string) (map[string]int64, error) {
	query := `
		SELECT d.sale_detail_id, SUM(d.quantity_returned)
		FROM return_details d
		JOIN sales_returns sr ON sr.id = d.return_id
		WHERE sr.original_sale_id = $1
		GROUP BY d.sale_detail_id`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("returned quantities: %w", mapError(err))
	}
	defer rows.Close()
	out := map[string]int64{}
	for rows.Next() {
		var id string
		var qty int64
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan returned quantity: %w", err)
		}
		out[id] = qty
	}
	return out, rows.Err()
}
