// Package bootstrap arma los casos de uso según la configuración (store y lock).
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-stock/internal/application/purchasing"
	"github.com/jhoicas/inventario-stock/internal/application/stock"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/redis"
	"github.com/jhoicas/inventario-stock/migrations"
	"github.com/jhoicas/inventario-stock/pkg/config"
	"github.com/jhoicas/inventario-stock/pkg/logger"
	"github.com/jhoicas/inventario-stock/pkg/validation"
)

// Services casos de uso listos para los adaptadores (HTTP y CLI).
type Services struct {
	Generate  *stock.GenerateUseCase
	Reconcile *stock.ReconcileUseCase
	Sync      *stock.SyncUseCase
	Gate      *stock.GateUseCase
	Settings  *stock.SettingsUseCase
	RequestUC *purchasing.RequestUseCase
	RecordUC  *purchasing.RecordUseCase
	Validator *validation.Validator
}

type stores struct {
	tx       stock.TxRunner
	details  repository.StockDetailRepository
	requests repository.PurchaseRequestRepository
	records  repository.PurchaseRecordRepository
}

// Build conecta store y lock según cfg y construye los casos de uso.
// La función devuelta libera las conexiones abiertas.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Services, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var st stores
	switch cfg.App.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		st = stores{tx: s, details: s.StockDetails(), requests: s.PurchaseRequests(), records: s.PurchaseRecords()}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		closers = append(closers, pool.Close)
		applied, err := postgres.Migrate(ctx, pool, migrations.FS)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("migraciones: %w", err)
		}
		for _, name := range applied {
			log.Info().Str("migration", name).Msg("migración aplicada")
		}
		st = stores{
			tx:       postgres.NewTxRunner(pool),
			details:  postgres.NewStockDetailRepository(pool),
			requests: postgres.NewPurchaseRequestRepository(pool),
			records:  postgres.NewPurchaseRecordRepository(pool),
		}
	}

	var locker stock.TenantLocker
	if cfg.Redis.Address != "" {
		rdb, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		locker = redis.NewLocker(rdb, cfg.Redis.LockTTL)
	} else {
		log.Warn().Msg("REDIS_ADDRESS vacío: lock de ledger solo dentro de este proceso")
		locker = memory.NewLocker()
	}

	v := validation.New()
	syncUC := stock.NewSyncUseCase(st.tx, log)
	return &Services{
		Generate:  stock.NewGenerateUseCase(st.tx, locker, st.details, st.requests, st.records, log),
		Reconcile: stock.NewReconcileUseCase(st.tx, locker, st.records, log),
		Sync:      syncUC,
		Gate:      stock.NewGateUseCase(st.tx, st.details, log),
		Settings:  stock.NewSettingsUseCase(st.tx, st.details),
		RequestUC: purchasing.NewRequestUseCase(st.tx, syncUC, st.requests, v, log),
		RecordUC:  purchasing.NewRecordUseCase(st.records, v, log),
		Validator: v,
	}, closeAll, nil
}
