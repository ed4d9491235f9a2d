package stock

import (
	"context"
	"errors"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockDetailRepository,
		requestRepo repository.PurchaseRequestRepository,
		recordRepo repository.PurchaseRecordRepository,
		issueRepo repository.StockIssueRepository,
	) error) error
}

// Unlock libera un lock obtenido con TenantLocker.
type Unlock func(ctx context.Context) error

// TenantLocker serializa las corridas masivas (generación y conciliación) de una misma empresa.
// Devuelve domain.ErrLockNotObtained si otra corrida tiene el lock. La corrida debe usar el
// contexto devuelto: se cancela si el lock se pierde antes de liberarlo.
type TenantLocker interface {
	Lock(ctx context.Context, companyID, scope string) (context.Context, Unlock, error)
}

// lockErr devuelve la causa de cancelación del lock si la hubo; si no, err.
func lockErr(held context.Context, err error) error {
	if cause := context.Cause(held); cause != nil && errors.Is(cause, domain.ErrLockLost) {
		return cause
	}
	return err
}

// Scopes de lock por empresa.
const (
	LockScopeLedger = "stock-ledger"
)
