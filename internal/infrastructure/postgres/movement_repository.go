package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo movimientos y sus líneas sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementSelect = `
	SELECT m.id, m.from_location_id, m.to_location_id, m.movement_type, m.movement_date, m.status,
	       m.quantity, COALESCE(m.notes, ''), m.approved, m.created_by, COALESCE(m.order_reference, ''),
	       m.arrival_date, COALESCE(m.received_by, ''), COALESCE(m.reception_notes, ''),
	       m.created_at, m.updated_at,
	       COALESCE(lf.name, ''), COALESCE(lt.name, '')
	FROM movements m
	LEFT JOIN locations lf ON lf.id = m.from_location_id
	LEFT JOIN locations lt ON lt.id = m.to_location_id`

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(
		&m.ID, &m.FromLocationID, &m.ToLocationID, &m.Type, &m.Date, &m.Status,
		&m.Quantity, &m.Notes, &m.Approved, &m.CreatedBy, &m.OrderReference,
		&m.ArrivalDate, &m.ReceivedBy, &m.ReceptionNotes,
		&m.CreatedAt, &m.UpdatedAt,
		&m.FromLocationName, &m.ToLocationName,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste cabecera y líneas.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, from_location_id, to_location_id, movement_type, movement_date, status,
			quantity, notes, approved, created_by, order_reference, arrival_date, received_by, reception_notes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.FromLocationID, m.ToLocationID, string(m.Type), m.Date, string(m.Status),
		m.Quantity, nullString(m.Notes), m.Approved, m.CreatedBy, nullString(m.OrderReference),
		m.ArrivalDate, nullString(m.ReceivedBy), nullString(m.ReceptionNotes),
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", mapError(err))
	}
	return r.insertDetails(ctx, m.ID, m.Details)
}

func (r *MovementRepo) insertDetails(ctx context.Context, movementID string, details []*entity.MovementDetail) error {
	query := `
		INSERT INTO movement_details (id, movement_id, vehicle_id, product_id, quantity, inspection_status)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, d := range details {
		if _, err := r.q.Exec(ctx, query, d.ID, movementID, d.VehicleID, d.ProductID, d.Quantity, string(d.InspectionStatus)); err != nil {
			return fmt.Errorf("create movement detail: %w", mapError(err))
		}
	}
	return nil
}

// GetByID obtiene el movimiento con líneas y nombres resueltos.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, movementSelect+` WHERE m.id = $1`, id)
}

// GetForUpdate bloquea la cabecera del movimiento (solo la tabla movements) y carga las líneas.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, movementSelect+` WHERE m.id = $1 FOR UPDATE OF m`, id)
}

// FindByOrderReference devuelve el movimiento más antiguo con esa referencia.
func (r *MovementRepo) FindByOrderReference(ctx context.Context, ref string) (*entity.Movement, error) {
	return r.getOne(ctx, movementSelect+` WHERE m.order_reference = $1 ORDER BY m.created_at LIMIT 1`, ref)
}

func (r *MovementRepo) getOne(ctx context.Context, query string, arg string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", mapError(err))
	}
	if err := r.loadDetails(ctx, []*entity.Movement{m}); err != nil {
		return nil, err
	}
	return m, nil
}

// List lista movimientos por fecha descendente con filtros opcionales.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	query := movementSelect + ` WHERE 1=1`
	args := []any{}
	pos := 1
	if f.Type != "" {
		query += fmt.Sprintf(` AND m.movement_type = $%d`, pos)
		args = append(args, string(f.Type))
		pos++
	}
	if f.Status != "" {
		query += fmt.Sprintf(` AND m.status = $%d`, pos)
		args = append(args, string(f.Status))
		pos++
	}
	if f.LocationID != "" {
		query += fmt.Sprintf(` AND (m.from_location_id = $%d OR m.to_location_id = $%d)`, pos, pos)
		args = append(args, f.LocationID)
		pos++
	}
	query += ` ORDER BY m.movement_date DESC, m.created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, pos)
		args = append(args, f.Limit)
		pos++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, pos)
		args = append(args, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", mapError(err))
	}
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	if err := r.loadDetails(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadDetails carga las líneas de varios movimientos en una sola consulta.
func (r *MovementRepo) loadDetails(ctx context.Context, movements []*entity.Movement) error {
	if len(movements) == 0 {
		return nil
	}
	ids := make([]string, 0, len(movements))
	byID := make(map[string]*entity.Movement, len(movements))
	for _, m := range movements {
		ids = append(ids, m.ID)
		byID[m.ID] = m
		m.Details = []*entity.MovementDetail{}
	}
	query := `
		SELECT d.id, d.movement_id, d.vehicle_id, d.product_id, d.quantity, d.inspection_status,
		       COALESCE(v.serial_number, ''), COALESCE(p.name, '')
		FROM movement_details d
		LEFT JOIN vehicles v ON v.id = d.vehicle_id
		LEFT JOIN products p ON p.id = d.product_id
		WHERE d.movement_id = ANY($1::uuid[])
		ORDER BY d.movement_id, d.id`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list movement details: %w", mapError(err))
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.MovementDetail
		if err := rows.Scan(&d.ID, &d.MovementID, &d.VehicleID, &d.ProductID, &d.Quantity, &d.InspectionStatus,
			&d.VehicleSerial, &d.ProductName); err != nil {
			return fmt.Errorf("scan movement detail: %w", err)
		}
		if m := byID[d.MovementID]; m != nil {
			m.Details = append(m.Details, &d)
		}
	}
	return rows.Err()
}

// Update persiste estado, cantidad y metadatos de recepción.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	query := `
		UPDATE movements
		SET status = $2, quantity = $3, approved = $4, arrival_date = $5, received_by = $6,
		    reception_notes = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		m.ID, string(m.Status), m.Quantity, m.Approved, m.ArrivalDate,
		nullString(m.ReceivedBy), nullString(m.ReceptionNotes), m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update movement %s: %w", m.ID, domain.ErrNotFound)
	}
	return nil
}

// ReplaceDetails borra todas las líneas del movimiento e inserta las nuevas.
func (r *MovementRepo) ReplaceDetails(ctx context.Context, movementID string, details []*entity.MovementDetail) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM movement_details WHERE movement_id = $1`, movementID); err != nil {
		return fmt.Errorf("delete movement details: %w", mapError(err))
	}
	return r.insertDetails(ctx, movementID, details)
}

// UpdateInspection actualiza el estado de inspección de una línea.
func (r *MovementRepo) UpdateInspection(ctx context.Context, detailID string, status entity.InspectionStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE movement_details SET inspection_status = $2 WHERE id = $1`, detailID, string(status))
	if err != nil {
		return fmt.Errorf("update inspection: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update inspection %s: %w", detailID, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina el movimiento; las líneas caen por ON DELETE CASCADE.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete movement: %w", mapError(err))
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
