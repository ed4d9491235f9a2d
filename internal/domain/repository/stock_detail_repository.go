package repository

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// StockDetailRepository define el puerto de persistencia del ledger de stock (tabla stock_details).
// Get y GetForUpdate devuelven (nil, nil) si no existe la fila.
type StockDetailRepository interface {
	Get(ctx context.Context, companyID string, key entity.ProductKey) (*entity.StockDetail, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, companyID string, key entity.ProductKey) (*entity.StockDetail, error)
	GetByID(ctx context.Context, companyID, id string) (*entity.StockDetail, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.StockDetail, error)
	Create(ctx context.Context, detail *entity.StockDetail) error
	Update(ctx context.Context, detail *entity.StockDetail) error
	Delete(ctx context.Context, companyID, id string) error
}
