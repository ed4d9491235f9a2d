package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// PurchaseRequestFilter filtros para listar solicitudes de compra.
type PurchaseRequestFilter struct {
	Status   string // vacío = todos
	OpenOnly bool   // solo solicitudes sin ciclo cerrado
	Limit    int    // 0 = sin límite
	Offset   int
}

// PurchaseRequestRepository define el puerto de persistencia de solicitudes de compra.
type PurchaseRequestRepository interface {
	Create(ctx context.Context, req *entity.PurchaseRequest) error
	GetByID(ctx context.Context, companyID, id string) (*entity.PurchaseRequest, error)
	// GetForUpdate bloquea la solicitud hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.PurchaseRequest, error)
	Update(ctx context.Context, req *entity.PurchaseRequest) error
	List(ctx context.Context, companyID string, filter PurchaseRequestFilter) ([]*entity.PurchaseRequest, error)
	// ListOpenByKey solicitudes de la clave sin ciclo cerrado.
	ListOpenByKey(ctx context.Context, companyID string, key entity.ProductKey) ([]*entity.PurchaseRequest, error)
	// CloseCycle marca como cerradas las solicitudes abiertas de la clave creadas hasta "until".
	CloseCycle(ctx context.Context, companyID string, key entity.ProductKey, until, closedAt time.Time) (int64, error)
}
