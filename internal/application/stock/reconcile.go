package stock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/ledger"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

// ReconcileResult resultado de una conciliación masiva.
type ReconcileResult struct {
	Success           bool
	Message           string
	ProcessedProducts int
	Skipped           int      // claves sin fila en el ledger; se crean en la próxima generación
	Errors            []string // filas omitidas (no fatales)
}

// ReconcileUseCase suma al stock las compras no conciliadas y cierra el ciclo de compra
// (contadores del pipeline en cero, último estado nulo).
type ReconcileUseCase struct {
	txRunner   TxRunner
	locker     TenantLocker
	recordRepo repository.PurchaseRecordRepository
	log        *logger.Logger
	now        func() time.Time
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(
	txRunner TxRunner,
	locker TenantLocker,
	recordRepo repository.PurchaseRecordRepository,
	log *logger.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		txRunner:   txRunner,
		locker:     locker,
		recordRepo: recordRepo,
		log:        log,
		now:        time.Now,
	}
}

// SyncStockDetails concilia todas las compras pendientes de la empresa en un solo lote.
// Cada compra queda sellada (reconciled_at) en la misma transacción en que se suma, así que
// repetir la corrida no vuelve a sumar la misma cantidad.
func (uc *ReconcileUseCase) SyncStockDetails(ctx context.Context, companyID string) (*ReconcileResult, error) {
	if companyID == "" {
		return nil, domain.ErrInvalidInput
	}
	held, unlock, err := uc.locker.Lock(ctx, companyID, LockScopeLedger)
	if err != nil {
		return nil, err
	}
	defer func(ctx context.Context) {
		if err := unlock(ctx); err != nil {
			uc.log.WithCompany(companyID).Warn().Err(err).Msg("liberar lock de ledger")
		}
	}(ctx)
	ctx = held

	records, err := uc.recordRepo.ListUnreconciled(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{}
	byKey := make(map[entity.ProductKey][]*entity.PurchaseRecord)
	for _, rec := range records {
		if !rec.Key.Valid() || !rec.Quantity.IsPositive() {
			result.Errors = append(result.Errors, fmt.Sprintf("compra %s omitida: clave incompleta o cantidad no positiva", rec.ID))
			continue
		}
		byKey[rec.Key] = append(byKey[rec.Key], rec)
	}
	keys := make([]entity.ProductKey, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockDetailRepository,
		requestRepo repository.PurchaseRequestRepository,
		recordRepo repository.PurchaseRecordRepository,
		_ repository.StockIssueRepository,
	) error {
		processed, deferred := 0, 0
		now := uc.now()
		for _, key := range keys {
			detail, err := stockRepo.GetForUpdate(ctx, companyID, key)
			if err != nil {
				return err
			}
			if detail == nil {
				deferred++
				continue
			}
			group := byKey[key]
			ledger.FoldPurchases(detail, group, now)
			if err := stockRepo.Update(ctx, detail); err != nil {
				return err
			}
			ids := make([]string, len(group))
			for i, rec := range group {
				ids[i] = rec.ID
			}
			if err := recordRepo.MarkReconciled(ctx, companyID, ids, now); err != nil {
				return err
			}
			if _, err := requestRepo.CloseCycle(ctx, companyID, key, now, now); err != nil {
				return err
			}
			processed++
		}
		result.ProcessedProducts = processed
		result.Skipped = deferred
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("conciliar stock: %w", lockErr(ctx, err))
	}

	result.Success = true
	result.Message = fmt.Sprintf("%d productos conciliados", result.ProcessedProducts)
	if result.ProcessedProducts == 0 && len(keys) == 0 {
		result.Message = "no hay compras pendientes de conciliar"
	}
	uc.log.WithCompany(companyID).Info().
		Int("processed", result.ProcessedProducts).
		Int("deferred", result.Skipped).
		Int("omitted", len(result.Errors)).
		Msg("conciliación de stock")
	return result, nil
}
