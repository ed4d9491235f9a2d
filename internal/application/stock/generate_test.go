package stock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/stock"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

func TestGenerate_DesdeCero(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addRecord(t, "r1", keyResma, "10", "12000", day.AddDate(0, 0, -3))
	f.addRecord(t, "r2", keyResma, "5", "12500", day)
	f.addRequest(t, "p1", keyResma, "3", entity.RequestStatusPending, day)
	f.addRequest(t, "p2", keyToner, "2", entity.RequestStatusApproved, day)

	res, err := f.generate.GenerateStockDetails(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 0, res.Updated)
	require.Len(t, res.Details, 2)

	resma := f.detail(t, keyResma)
	assert.True(t, resma.CurrentStock.Equal(dec("15")))
	assert.True(t, resma.PendingQuantity.Equal(dec("3")))
	assert.True(t, resma.PricePerUnit.Equal(dec("12500")), "precio de la compra más reciente")
	require.NotNil(t, resma.LastPurchaseDate)
	assert.True(t, resma.LastPurchaseDate.Equal(day))
	assert.Equal(t, entity.DisplayStatusSuspended, resma.DisplayStatus)
	assert.True(t, resma.MinRequired.IsZero())

	// Clave solo referenciada por una solicitud: fila con stock 0.
	toner := f.detail(t, keyToner)
	assert.True(t, toner.CurrentStock.IsZero())
	assert.True(t, toner.ApprovedQuantity.Equal(dec("2")))
	require.NotNil(t, toner.LastRequestStatus)
	assert.Equal(t, entity.RequestStatusApproved, *toner.LastRequestStatus)
}

func TestGenerate_Idempotente(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addRecord(t, "r1", keyResma, "10", "1", day)

	_, err := f.generate.GenerateStockDetails(ctx, companyID)
	require.NoError(t, err)
	res, err := f.generate.GenerateStockDetails(ctx, companyID)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.True(t, f.detail(t, keyResma).CurrentStock.Equal(dec("10")))
}

func TestGenerate_ConservaUmbralesDelOperador(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addRecord(t, "r1", keyResma, "10", "1", day)
	_, err := f.generate.GenerateStockDetails(ctx, companyID)
	require.NoError(t, err)

	d := f.detail(t, keyResma)
	minReq, safe, displayed := dec("8"), dec("2"), entity.DisplayStatusDisplayed
	_, err = f.settings.UpdateSettings(ctx, companyID, d.ID, stock.SettingsInput{
		MinRequired: &minReq, SafeQuantityLimit: &safe, DisplayStatus: &displayed,
	})
	require.NoError(t, err)

	f.addRecord(t, "r2", keyResma, "4", "1", day.AddDate(0, 0, 1))
	_, err = f.generate.GenerateStockDetails(ctx, companyID)
	require.NoError(t, err)

	d = f.detail(t, keyResma)
	assert.True(t, d.CurrentStock.Equal(dec("14")))
	assert.True(t, d.MinRequired.Equal(minReq))
	assert.True(t, d.SafeQuantityLimit.Equal(safe))
	assert.Equal(t, entity.DisplayStatusDisplayed, d.DisplayStatus)
}

// Las compras ya sumadas por la generación no se vuelven a sumar en la conciliación.
func TestGenerate_LuegoConciliarNoDuplica(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addRecord(t, "r1", keyResma, "10", "1", day)

	_, err := f.generate.GenerateStockDetails(ctx, companyID)
	require.NoError(t, err)
	res, err := f.reconcile.SyncStockDetails(ctx, companyID)
	require.NoError(t, err)

	assert.Equal(t, 0, res.ProcessedProducts)
	assert.True(t, f.detail(t, keyResma).CurrentStock.Equal(dec("10")))
}

func TestGenerate_RespetaConsumos(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addRecord(t, "r1", keyResma, "10", "1", day)
	_, err := f.generate.GenerateStockDetails(ctx, companyID)
	require.NoError(t, err)

	_, err = f.gate.ConsumeStock(ctx, companyID, "user-1", "FV-100", []stock.StockItem{{Key: keyResma, Required: dec("4")}})
	require.NoError(t, err)

	_, err = f.generate.GenerateStockDetails(ctx, companyID)
	require.NoError(t, err)
	assert.True(t, f.detail(t, keyResma).CurrentStock.Equal(dec("6")))
}

func TestGenerate_IgnoraSolicitudesDeCicloCerrado(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seedDetail(t, keyResma, "0")
	f.addRequest(t, "p1", keyResma, "5", entity.RequestStatusApproved, day)
	f.addRecord(t, "r1", keyResma, "5", "1", day.Add(1))

	_, err := f.reconcile.SyncStockDetails(ctx, companyID)
	require.NoError(t, err)
	_, err = f.generate.GenerateStockDetails(ctx, companyID)
	require.NoError(t, err)

	d := f.detail(t, keyResma)
	assert.True(t, d.CurrentStock.Equal(dec("5")))
	assert.True(t, d.ApprovedQuantity.IsZero(), "la solicitud cerrada no reaparece en el pipeline")
	assert.Nil(t, d.LastRequestStatus)
}

func TestGenerate_LockTomado(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	_, unlock, err := f.locker.Lock(ctx, companyID, stock.LockScopeLedger)
	require.NoError(t, err)
	defer func() { _ = unlock(ctx) }()

	_, err = f.generate.GenerateStockDetails(ctx, companyID)
	assert.ErrorIs(t, err, domain.ErrLockNotObtained)
	_, err = f.reconcile.SyncStockDetails(ctx, companyID)
	assert.ErrorIs(t, err, domain.ErrLockNotObtained)
}

func TestGenerate_SinEmpresa(t *testing.T) {
	_, err := newFixture().generate.GenerateStockDetails(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// hookRunner ejecuta hook una vez, justo antes de la primera transacción, y delega en el store.
type hookRunner struct {
	*memory.Store
	once sync.Once
	hook func()
}

func (r *hookRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockDetailRepository,
	requestRepo repository.PurchaseRequestRepository,
	recordRepo repository.PurchaseRecordRepository,
	issueRepo repository.StockIssueRepository,
) error) error {
	r.once.Do(r.hook)
	return r.Store.Run(ctx, fn)
}

// Un consumo y una solicitud confirmados entre la lectura del historial y la escritura de la
// clave quedan reflejados en la fila generada.
func TestGenerate_IncluyeCambiosConfirmadosDuranteLaCorrida(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addRecord(t, "r1", keyResma, "10", "1", day)
	_, err := f.generate.GenerateStockDetails(ctx, companyID)
	require.NoError(t, err)

	runner := &hookRunner{Store: f.store, hook: func() {
		_, err := f.gate.ConsumeStock(ctx, companyID, "user-1", "FV-200", []stock.StockItem{{Key: keyResma, Required: dec("4")}})
		require.NoError(t, err)
		f.addRequest(t, "p1", keyResma, "3", entity.RequestStatusPending, day.Add(time.Hour))
	}}
	gen := stock.NewGenerateUseCase(runner, f.locker, f.store.StockDetails(), f.store.PurchaseRequests(), f.store.PurchaseRecords(), logger.Nop())

	_, err = gen.GenerateStockDetails(ctx, companyID)
	require.NoError(t, err)

	d := f.detail(t, keyResma)
	assert.True(t, d.CurrentStock.Equal(dec("6")), "current_stock = %s", d.CurrentStock)
	assert.True(t, d.PendingQuantity.Equal(dec("3")), "pending = %s", d.PendingQuantity)
	require.NotNil(t, d.LastRequestStatus)
	assert.Equal(t, entity.RequestStatusPending, *d.LastRequestStatus)
}

// lostLocker entrega el lock con su contexto ya cancelado, como tras una renovación fallida.
type lostLocker struct{}

func (lostLocker) Lock(ctx context.Context, _, _ string) (context.Context, stock.Unlock, error) {
	held, cancel := context.WithCancelCause(ctx)
	cancel(domain.ErrLockLost)
	return held, func(context.Context) error { return nil }, nil
}

func TestGenerate_LockPerdidoAbortaLaCorrida(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addRecord(t, "r1", keyResma, "10", "1", day)
	gen := stock.NewGenerateUseCase(f.store, lostLocker{}, f.store.StockDetails(), f.store.PurchaseRequests(), f.store.PurchaseRecords(), logger.Nop())
	rec := stock.NewReconcileUseCase(f.store, lostLocker{}, f.store.PurchaseRecords(), logger.Nop())

	_, err := gen.GenerateStockDetails(ctx, companyID)
	assert.ErrorIs(t, err, domain.ErrLockLost)
	_, err = rec.SyncStockDetails(ctx, companyID)
	assert.ErrorIs(t, err, domain.ErrLockLost)

	d, err := f.store.StockDetails().Get(ctx, companyID, keyResma)
	require.NoError(t, err)
	assert.Nil(t, d, "no se escribe nada sin el lock")
}
