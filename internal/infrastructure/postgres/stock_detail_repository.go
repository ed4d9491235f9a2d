package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.StockDetailRepository = (*StockDetailRepo)(nil)

// StockDetailRepo implementación de StockDetailRepository sobre PostgreSQL (usable con pool o tx).
type StockDetailRepo struct {
	q Querier
}

// NewStockDetailRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewStockDetailRepository(q Querier) *StockDetailRepo {
	return &StockDetailRepo{q: q}
}

const stockDetailColumns = `id, company_id, product_category, item_name, product_version, current_stock, unit,
	min_required, safe_quantity_limit, display_status, pending_quantity, approved_quantity,
	po_created_quantity, rejected_quantity, last_request_status, last_purchase_date, price_per_unit,
	created_at, updated_at`

func scanStockDetail(row pgx.Row) (*entity.StockDetail, error) {
	var d entity.StockDetail
	err := row.Scan(
		&d.ID, &d.CompanyID, &d.Key.Category, &d.Key.ItemName, &d.Key.Version, &d.CurrentStock, &d.Unit,
		&d.MinRequired, &d.SafeQuantityLimit, &d.DisplayStatus, &d.PendingQuantity, &d.ApprovedQuantity,
		&d.PoCreatedQuantity, &d.RejectedQuantity, &d.LastRequestStatus, &d.LastPurchaseDate, &d.PricePerUnit,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *StockDetailRepo) getByKey(ctx context.Context, companyID string, key entity.ProductKey, lock bool) (*entity.StockDetail, error) {
	query := `SELECT ` + stockDetailColumns + `
		FROM stock_details
		WHERE company_id = $1 AND product_category = $2 AND item_name = $3 AND product_version = $4`
	if lock {
		query += ` FOR UPDATE`
	}
	d, err := scanStockDetail(r.q.QueryRow(ctx, query, companyID, key.Category, key.ItemName, key.Version))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock detail: %w", err)
	}
	return d, nil
}

// Get obtiene la fila del ledger para la clave; (nil, nil) si no existe.
func (r *StockDetailRepo) Get(ctx context.Context, companyID string, key entity.ProductKey) (*entity.StockDetail, error) {
	return r.getByKey(ctx, companyID, key, false)
}

// GetForUpdate obtiene la fila y la bloquea (SELECT FOR UPDATE). Solo tiene efecto dentro de una tx.
func (r *StockDetailRepo) GetForUpdate(ctx context.Context, companyID string, key entity.ProductKey) (*entity.StockDetail, error) {
	return r.getByKey(ctx, companyID, key, true)
}

// GetByID obtiene la fila por ID dentro de la empresa.
func (r *StockDetailRepo) GetByID(ctx context.Context, companyID, id string) (*entity.StockDetail, error) {
	query := `SELECT ` + stockDetailColumns + ` FROM stock_details WHERE company_id = $1 AND id = $2`
	d, err := scanStockDetail(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock detail by id: %w", err)
	}
	return d, nil
}

// ListByCompany lista el ledger de la empresa ordenado por clave.
func (r *StockDetailRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.StockDetail, error) {
	query := `SELECT ` + stockDetailColumns + `
		FROM stock_details WHERE company_id = $1
		ORDER BY product_category, item_name, product_version`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list stock details: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockDetail
	for rows.Next() {
		d, err := scanStockDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock detail: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Create inserta una fila nueva. La clave es única por empresa.
func (r *StockDetailRepo) Create(ctx context.Context, d *entity.StockDetail) error {
	query := `
		INSERT INTO stock_details (` + stockDetailColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.CompanyID, d.Key.Category, d.Key.ItemName, d.Key.Version, d.CurrentStock, d.Unit,
		d.MinRequired, d.SafeQuantityLimit, d.DisplayStatus, d.PendingQuantity, d.ApprovedQuantity,
		d.PoCreatedQuantity, d.RejectedQuantity, d.LastRequestStatus, d.LastPurchaseDate, d.PricePerUnit,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert stock detail: %w", err)
	}
	return nil
}

// Update reescribe los campos mutables de la fila (la clave no cambia).
func (r *StockDetailRepo) Update(ctx context.Context, d *entity.StockDetail) error {
	query := `
		UPDATE stock_details SET
			current_stock = $3, unit = $4, min_required = $5, safe_quantity_limit = $6, display_status = $7,
			pending_quantity = $8, approved_quantity = $9, po_created_quantity = $10, rejected_quantity = $11,
			last_request_status = $12, last_purchase_date = $13, price_per_unit = $14, updated_at = $15
		WHERE company_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		d.CompanyID, d.ID, d.CurrentStock, d.Unit, d.MinRequired, d.SafeQuantityLimit, d.DisplayStatus,
		d.PendingQuantity, d.ApprovedQuantity, d.PoCreatedQuantity, d.RejectedQuantity,
		d.LastRequestStatus, d.LastPurchaseDate, d.PricePerUnit, d.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update stock detail: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la fila (borrado explícito del operador).
func (r *StockDetailRepo) Delete(ctx context.Context, companyID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_details WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete stock detail: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
