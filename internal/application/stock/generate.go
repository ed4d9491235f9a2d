package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/ledger"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

// GenerateResult ledger completo de la empresa tras la generación más métricas de la corrida.
type GenerateResult struct {
	Details []*entity.StockDetail
	Created int
	Updated int
	Skipped int
}

// GenerateUseCase reconstruye el ledger de stock de una empresa a partir de todo el historial
// de compras, salidas y solicitudes abiertas.
type GenerateUseCase struct {
	txRunner    TxRunner
	locker      TenantLocker
	stockRepo   repository.StockDetailRepository
	requestRepo repository.PurchaseRequestRepository
	recordRepo  repository.PurchaseRecordRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewGenerateUseCase construye el caso de uso.
func NewGenerateUseCase(
	txRunner TxRunner,
	locker TenantLocker,
	stockRepo repository.StockDetailRepository,
	requestRepo repository.PurchaseRequestRepository,
	recordRepo repository.PurchaseRecordRepository,
	log *logger.Logger,
) *GenerateUseCase {
	return &GenerateUseCase{
		txRunner:    txRunner,
		locker:      locker,
		stockRepo:   stockRepo,
		requestRepo: requestRepo,
		recordRepo:  recordRepo,
		log:         log,
		now:         time.Now,
	}
}

// GenerateStockDetails agrega el historial por clave y hace upsert por clave (una transacción
// por clave, no atómico entre claves). Si una escritura falla se retorna el error; las claves ya
// confirmadas quedan aplicadas y la corrida puede repetirse sin doble conteo.
func (uc *GenerateUseCase) GenerateStockDetails(ctx context.Context, companyID string) (*GenerateResult, error) {
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

	records, err := uc.recordRepo.ListByCompany(ctx, companyID, 0, 0)
	if err != nil {
		return nil, err
	}
	requests, err := uc.requestRepo.List(ctx, companyID, repository.PurchaseRequestFilter{OpenOnly: true})
	if err != nil {
		return nil, err
	}
	// Las salidas se suman por clave dentro de cada transacción.
	built := ledger.Build(records, requests, nil)
	result := &GenerateResult{Skipped: built.Skipped}
	if built.Skipped > 0 {
		uc.log.Warn().Str("company_id", companyID).Int("skipped", built.Skipped).Msg("filas mal formadas omitidas en la generación")
	}

	for _, key := range built.Keys() {
		agg := built.Aggregates[key]
		err := uc.txRunner.Run(ctx, func(
			stockRepo repository.StockDetailRepository,
			requestRepo repository.PurchaseRequestRepository,
			recordRepo repository.PurchaseRecordRepository,
			issueRepo repository.StockIssueRepository,
		) error {
			now := uc.now()
			existing, err := stockRepo.GetForUpdate(ctx, companyID, key)
			if err != nil {
				return err
			}
			// Con la fila bloqueada se releen salidas y solicitudes de la clave.
			open, err := requestRepo.ListOpenByKey(ctx, companyID, key)
			if err != nil {
				return err
			}
			issued, err := issueRepo.SumByKey(ctx, companyID, key)
			if err != nil {
				return err
			}
			agg.Refresh(open, issued)
			detail := ledger.Apply(existing, companyID, agg, now)
			if existing == nil {
				detail.ID = uuid.New().String()
				if err := stockRepo.Create(ctx, detail); err != nil {
					return err
				}
				result.Created++
			} else {
				if err := stockRepo.Update(ctx, detail); err != nil {
					return err
				}
				result.Updated++
			}
			// Lo ya sumado por la generación no debe volver a sumarlo la conciliación.
			return recordRepo.MarkReconciled(ctx, companyID, agg.RecordIDs, now)
		})
		if err != nil {
			return nil, fmt.Errorf("generar ledger %s: %w", key, lockErr(ctx, err))
		}
	}

	details, err := uc.stockRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	result.Details = details

	uc.log.WithCompany(companyID).Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Msg("ledger de stock generado")
	return result, nil
}
