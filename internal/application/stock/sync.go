package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/ledger"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/pkg/logger"
	"github.com/shopspring/decimal"
)

// SyncUseCase aplica sobre la fila del ledger el delta de un cambio de estado o de cantidad
// de una solicitud de compra, sin reconstruir el ledger.
type SyncUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewSyncUseCase construye el caso de uso.
func NewSyncUseCase(txRunner TxRunner, log *logger.Logger) *SyncUseCase {
	return &SyncUseCase{txRunner: txRunner, log: log, now: time.Now}
}

// SyncPurchaseRequestStatus sincroniza en su propia transacción.
// oldQuantity se informa solo al editar la cantidad de una solicitud pendiente.
// Si no existe fila para la clave no hace nada (el producto aún no tiene stock registrado).
func (uc *SyncUseCase) SyncPurchaseRequestStatus(
	ctx context.Context,
	companyID string,
	key entity.ProductKey,
	status string,
	quantity decimal.Decimal,
	oldQuantity *decimal.Decimal,
) error {
	s := ledger.RequestSync{Status: status, Quantity: quantity, OldQuantity: oldQuantity}
	return uc.txRunner.Run(ctx, func(
		stockRepo repository.StockDetailRepository,
		_ repository.PurchaseRequestRepository,
		_ repository.PurchaseRecordRepository,
		_ repository.StockIssueRepository,
	) error {
		_, err := uc.SyncInTx(ctx, stockRepo, companyID, key, s)
		return err
	})
}

// SyncInTx ejecuta la sincronización con el repositorio del caller (misma transacción).
// Bloquea la fila (SELECT FOR UPDATE) antes del read-modify-write. Devuelve false si no
// había fila que actualizar. Cualquier error del store se propaga para que el caller haga rollback.
func (uc *SyncUseCase) SyncInTx(
	ctx context.Context,
	stockRepo repository.StockDetailRepository,
	companyID string,
	key entity.ProductKey,
	s ledger.RequestSync,
) (bool, error) {
	if companyID == "" || !key.Valid() {
		return false, domain.ErrInvalidInput
	}
	if err := s.Validate(); err != nil {
		return false, err
	}
	detail, err := stockRepo.GetForUpdate(ctx, companyID, key)
	if err != nil {
		return false, fmt.Errorf("leer ledger %s: %w", key, err)
	}
	if detail == nil {
		uc.log.Debug().Str("company_id", companyID).Str("key", key.String()).Msg("sync de solicitud sin fila en el ledger")
		return false, nil
	}
	ledger.ApplyRequestSync(detail, s, uc.now())
	if err := stockRepo.Update(ctx, detail); err != nil {
		return false, fmt.Errorf("actualizar ledger %s: %w", key, err)
	}
	return true, nil
}
