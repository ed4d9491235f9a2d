package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.PurchaseRecordRepository = (*PurchaseRecordRepo)(nil)

// PurchaseRecordRepo implementación de PurchaseRecordRepository sobre PostgreSQL.
type PurchaseRecordRepo struct {
	q Querier
}

// NewPurchaseRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRecordRepository(q Querier) *PurchaseRecordRepo {
	return &PurchaseRecordRepo{q: q}
}

const purchaseRecordColumns = `id, company_id, product_category, item_name, product_version, quantity, unit,
	price_per_unit, supplier_name, purchase_date, created_at, reconciled_at`

func scanPurchaseRecords(rows pgx.Rows) ([]*entity.PurchaseRecord, error) {
	defer rows.Close()
	var list []*entity.PurchaseRecord
	for rows.Next() {
		var p entity.PurchaseRecord
		if err := rows.Scan(
			&p.ID, &p.CompanyID, &p.Key.Category, &p.Key.ItemName, &p.Key.Version, &p.Quantity, &p.Unit,
			&p.PricePerUnit, &p.SupplierName, &p.PurchaseDate, &p.CreatedAt, &p.ReconciledAt,
		); err != nil {
			return nil, fmt.Errorf("scan purchase record: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Create persiste una compra registrada.
func (r *PurchaseRecordRepo) Create(ctx context.Context, p *entity.PurchaseRecord) error {
	query := `
		INSERT INTO purchase_records (` + purchaseRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.Key.Category, p.Key.ItemName, p.Key.Version, p.Quantity, p.Unit,
		p.PricePerUnit, p.SupplierName, p.PurchaseDate, p.CreatedAt, p.ReconciledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert purchase record: %w", err)
	}
	return nil
}

// ListByCompany lista compras por fecha descendente; limit <= 0 devuelve todas.
func (r *PurchaseRecordRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.PurchaseRecord, error) {
	query := `SELECT ` + purchaseRecordColumns + ` FROM purchase_records WHERE company_id = $1
		ORDER BY purchase_date DESC, created_at DESC, id DESC`
	args := []any{companyID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase records: %w", err)
	}
	return scanPurchaseRecords(rows)
}

// ListUnreconciled devuelve las compras con reconciled_at nulo, en orden cronológico.
func (r *PurchaseRecordRepo) ListUnreconciled(ctx context.Context, companyID string) ([]*entity.PurchaseRecord, error) {
	query := `SELECT ` + purchaseRecordColumns + ` FROM purchase_records
		WHERE company_id = $1 AND reconciled_at IS NULL
		ORDER BY purchase_date, created_at, id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list unreconciled purchase records: %w", err)
	}
	return scanPurchaseRecords(rows)
}

// MarkReconciled sella reconciled_at en las compras indicadas que aún no lo tenían.
func (r *PurchaseRecordRepo) MarkReconciled(ctx context.Context, companyID string, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `
		UPDATE purchase_records SET reconciled_at = $3
		WHERE company_id = $1 AND id = ANY($2::uuid[]) AND reconciled_at IS NULL`,
		companyID, ids, at,
	)
	if err != nil {
		return fmt.Errorf("mark purchase records reconciled: %w", err)
	}
	return nil
}
