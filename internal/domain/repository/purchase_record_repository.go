package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// PurchaseRecordRepository define el puerto de persistencia de compras registradas (append-only).
type PurchaseRecordRepository interface {
	Create(ctx context.Context, record *entity.PurchaseRecord) error
	// ListByCompany lista compras por fecha descendente; limit <= 0 devuelve todas.
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.PurchaseRecord, error)
	// ListUnreconciled devuelve las compras que aún no se sumaron al stock.
	ListUnreconciled(ctx context.Context, companyID string) ([]*entity.PurchaseRecord, error)
	// MarkReconciled sella las compras indicadas; ignora las que ya tenían sello.
	MarkReconciled(ctx context.Context, companyID string, ids []string, at time.Time) error
}
