package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.PurchaseRequestRepository = (*PurchaseRequestRepo)(nil)

// PurchaseRequestRepo implementación de PurchaseRequestRepository sobre PostgreSQL.
type PurchaseRequestRepo struct {
	q Querier
}

// NewPurchaseRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRequestRepository(q Querier) *PurchaseRequestRepo {
	return &PurchaseRequestRepo{q: q}
}

const purchaseRequestColumns = `id, company_id, product_category, item_name, product_version, quantity_required,
	unit, status, priority, employee_name, employee_email, reason, requested_date, purchase_order_id,
	cycle_closed_at, created_at, updated_at`

func scanPurchaseRequest(row pgx.Row) (*entity.PurchaseRequest, error) {
	var p entity.PurchaseRequest
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Key.Category, &p.Key.ItemName, &p.Key.Version, &p.QuantityRequired,
		&p.Unit, &p.Status, &p.Priority, &p.EmployeeName, &p.EmployeeEmail, &p.Reason, &p.RequestedDate,
		&p.PurchaseOrderID, &p.CycleClosedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste una solicitud nueva.
func (r *PurchaseRequestRepo) Create(ctx context.Context, p *entity.PurchaseRequest) error {
	query := `
		INSERT INTO purchase_requests (` + purchaseRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.Key.Category, p.Key.ItemName, p.Key.Version, p.QuantityRequired,
		p.Unit, p.Status, p.Priority, p.EmployeeName, p.EmployeeEmail, p.Reason, p.RequestedDate,
		p.PurchaseOrderID, p.CycleClosedAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert purchase request: %w", err)
	}
	return nil
}

func (r *PurchaseRequestRepo) get(ctx context.Context, companyID, id string, lock bool) (*entity.PurchaseRequest, error) {
	query := `SELECT ` + purchaseRequestColumns + ` FROM purchase_requests WHERE company_id = $1 AND id = $2`
	if lock {
		query += ` FOR UPDATE`
	}
	p, err := scanPurchaseRequest(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase request: %w", err)
	}
	return p, nil
}

// GetByID obtiene una solicitud de la empresa; (nil, nil) si no existe.
func (r *PurchaseRequestRepo) GetByID(ctx context.Context, companyID, id string) (*entity.PurchaseRequest, error) {
	return r.get(ctx, companyID, id, false)
}

// GetForUpdate obtiene la solicitud y la bloquea hasta el fin de la tx.
func (r *PurchaseRequestRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.PurchaseRequest, error) {
	return r.get(ctx, companyID, id, true)
}

// Update guarda cantidad, estado, orden de compra y cierre de ciclo.
func (r *PurchaseRequestRepo) Update(ctx context.Context, p *entity.PurchaseRequest) error {
	query := `
		UPDATE purchase_requests SET
			quantity_required = $3, unit = $4, status = $5, priority = $6, reason = $7,
			purchase_order_id = $8, cycle_closed_at = $9, updated_at = $10
		WHERE company_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		p.CompanyID, p.ID, p.QuantityRequired, p.Unit, p.Status, p.Priority, p.Reason,
		p.PurchaseOrderID, p.CycleClosedAt, p.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update purchase request: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista solicitudes de la empresa, más recientes primero.
func (r *PurchaseRequestRepo) List(ctx context.Context, companyID string, f repository.PurchaseRequestFilter) ([]*entity.PurchaseRequest, error) {
	query := `SELECT ` + purchaseRequestColumns + ` FROM purchase_requests
		WHERE company_id = $1
		  AND ($2 = '' OR status = $2)
		  AND (NOT $3 OR cycle_closed_at IS NULL)
		ORDER BY updated_at DESC, created_at DESC, id DESC`
	args := []any{companyID, f.Status, f.OpenOnly}
	if f.Limit > 0 {
		query += ` LIMIT $4 OFFSET $5`
		args = append(args, f.Limit, f.Offset)
	}
	return r.query(ctx, query, args...)
}

// ListOpenByKey solicitudes de la clave sin ciclo cerrado.
func (r *PurchaseRequestRepo) ListOpenByKey(ctx context.Context, companyID string, key entity.ProductKey) ([]*entity.PurchaseRequest, error) {
	query := `SELECT ` + purchaseRequestColumns + ` FROM purchase_requests
		WHERE company_id = $1 AND product_category = $2 AND item_name = $3 AND product_version = $4
		  AND cycle_closed_at IS NULL`
	return r.query(ctx, query, companyID, key.Category, key.ItemName, key.Version)
}

func (r *PurchaseRequestRepo) query(ctx context.Context, query string, args ...any) ([]*entity.PurchaseRequest, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseRequest
	for rows.Next() {
		p, err := scanPurchaseRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase request: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// CloseCycle sella cycle_closed_at en las solicitudes abiertas de la clave creadas hasta "until".
func (r *PurchaseRequestRepo) CloseCycle(ctx context.Context, companyID string, key entity.ProductKey, until, closedAt time.Time) (int64, error) {
	query := `
		UPDATE purchase_requests SET cycle_closed_at = $6
		WHERE company_id = $1 AND product_category = $2 AND item_name = $3 AND product_version = $4
		  AND cycle_closed_at IS NULL AND created_at <= $5`
	cmd, err := r.q.Exec(ctx, query, companyID, key.Category, key.ItemName, key.Version, until, closedAt)
	if err != nil {
		return 0, fmt.Errorf("close purchase cycle: %w", err)
	}
	return cmd.RowsAffected(), nil
}
