package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// StockIssueRepository define el puerto de persistencia de salidas de stock.
type StockIssueRepository interface {
	Create(ctx context.Context, issue *entity.StockIssue) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.StockIssue, error)
	// SumByKey total consumido de la clave (cero si no hay salidas).
	SumByKey(ctx context.Context, companyID string, key entity.ProductKey) (decimal.Decimal, error)
}
