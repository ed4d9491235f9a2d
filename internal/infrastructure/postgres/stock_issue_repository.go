package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.StockIssueRepository = (*StockIssueRepo)(nil)

// StockIssueRepo implementación de StockIssueRepository sobre PostgreSQL.
type StockIssueRepo struct {
	q Querier
}

// NewStockIssueRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockIssueRepository(q Querier) *StockIssueRepo {
	return &StockIssueRepo{q: q}
}

// Create registra una salida de stock.
func (r *StockIssueRepo) Create(ctx context.Context, s *entity.StockIssue) error {
	query := `
		INSERT INTO stock_issues (id, company_id, product_category, item_name, product_version, quantity, unit, reference, issued_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.Key.Category, s.Key.ItemName, s.Key.Version, s.Quantity, s.Unit,
		s.Reference, s.IssuedAt, s.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock issue: %w", err)
	}
	return nil
}

// ListByCompany lista todas las salidas de la empresa.
func (r *StockIssueRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.StockIssue, error) {
	query := `
		SELECT id, company_id, product_category, item_name, product_version, quantity, unit, reference, issued_at, created_by
		FROM stock_issues WHERE company_id = $1 ORDER BY issued_at, id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list stock issues: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockIssue
	for rows.Next() {
		var s entity.StockIssue
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Key.Category, &s.Key.ItemName, &s.Key.Version, &s.Quantity,
			&s.Unit, &s.Reference, &s.IssuedAt, &s.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock issue: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// SumByKey total consumido de la clave.
func (r *StockIssueRepo) SumByKey(ctx context.Context, companyID string, key entity.ProductKey) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0) FROM stock_issues
		WHERE company_id = $1 AND product_category = $2 AND item_name = $3 AND product_version = $4`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, companyID, key.Category, key.ItemName, key.Version).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum stock issues: %w", err)
	}
	return total, nil
}
