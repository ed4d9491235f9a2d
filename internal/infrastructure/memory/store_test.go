package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
)

var keyToner = entity.NewProductKey("Oficina", "Tóner", "HP 85A")

func detail(id, companyID string) *entity.StockDetail {
	return &entity.StockDetail{
		ID: id, CompanyID: companyID, Key: keyToner,
		CurrentStock: decimal.NewFromInt(4), DisplayStatus: entity.DisplayStatusSuspended,
	}
}

func TestStore_RunRollbackEnError(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	boom := errors.New("boom")

	err := s.Run(ctx, func(stockRepo repository.StockDetailRepository, _ repository.PurchaseRequestRepository,
		_ repository.PurchaseRecordRepository, _ repository.StockIssueRepository) error {
		require.NoError(t, stockRepo.Create(ctx, detail("d1", "c1")))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.StockDetails().Get(ctx, "c1", keyToner)
	require.NoError(t, err)
	assert.Nil(t, got, "la fila creada dentro de la tx fallida no debe persistir")
}

func TestStore_RunCommit(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	err := s.Run(ctx, func(stockRepo repository.StockDetailRepository, _ repository.PurchaseRequestRepository,
		_ repository.PurchaseRecordRepository, _ repository.StockIssueRepository) error {
		return stockRepo.Create(ctx, detail("d1", "c1"))
	})
	require.NoError(t, err)

	got, err := s.StockDetails().Get(ctx, "c1", keyToner)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.CurrentStock.Equal(decimal.NewFromInt(4)))
}

func TestStockDetailRepo_ClaveUnicaPorEmpresa(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().StockDetails()

	require.NoError(t, repo.Create(ctx, detail("d1", "c1")))
	assert.ErrorIs(t, repo.Create(ctx, detail("d2", "c1")), domain.ErrDuplicate)
	assert.NoError(t, repo.Create(ctx, detail("d3", "c2")), "otra empresa puede usar la misma clave")
}

func TestStockDetailRepo_CopiaDefensiva(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().StockDetails()
	require.NoError(t, repo.Create(ctx, detail("d1", "c1")))

	got, _ := repo.GetByID(ctx, "c1", "d1")
	got.CurrentStock = decimal.NewFromInt(99)

	again, _ := repo.GetByID(ctx, "c1", "d1")
	assert.True(t, again.CurrentStock.Equal(decimal.NewFromInt(4)))
}

func TestStockDetailRepo_OtraEmpresaNoVe(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().StockDetails()
	require.NoError(t, repo.Create(ctx, detail("d1", "c1")))

	got, err := repo.GetByID(ctx, "c2", "d1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, repo.Delete(ctx, "c2", "d1"), domain.ErrNotFound)
}

func TestPurchaseRecordRepo_MarkReconciled(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().PurchaseRecords()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"r1", "r2"} {
		require.NoError(t, repo.Create(ctx, &entity.PurchaseRecord{
			ID: id, CompanyID: "c1", Key: keyToner, Quantity: decimal.NewFromInt(1),
			PurchaseDate: base.AddDate(0, 0, i),
		}))
	}

	first := base.Add(time.Hour)
	require.NoError(t, repo.MarkReconciled(ctx, "c1", []string{"r1"}, first))
	require.NoError(t, repo.MarkReconciled(ctx, "c1", []string{"r1", "r2"}, first.Add(time.Hour)))

	all, err := repo.ListByCompany(ctx, "c1", 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "r2", all[0].ID, "más reciente primero")
	assert.True(t, all[1].ReconciledAt.Equal(first), "el sello existente no se reescribe")

	pending, err := repo.ListUnreconciled(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPurchaseRequestRepo_CloseCycleYFiltros(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().PurchaseRequests()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, repo.Create(ctx, &entity.PurchaseRequest{
			ID: id, CompanyID: "c1", Key: keyToner, QuantityRequired: decimal.NewFromInt(1),
			Status: entity.RequestStatusPending, CreatedAt: base.AddDate(0, 0, i), UpdatedAt: base.AddDate(0, 0, i),
		}))
	}

	n, err := repo.CloseCycle(ctx, "c1", keyToner, base.AddDate(0, 0, 1), base.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	open, err := repo.List(ctx, "c1", repository.PurchaseRequestFilter{OpenOnly: true})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "p3", open[0].ID)

	page, err := repo.List(ctx, "c1", repository.PurchaseRequestFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "p2", page[0].ID)
}

func TestLocker_Exclusivo(t *testing.T) {
	ctx := context.Background()
	l := memory.NewLocker()

	held, unlock, err := l.Lock(ctx, "c1", "stock-ledger")
	require.NoError(t, err)
	require.NoError(t, held.Err())

	_, _, err = l.Lock(ctx, "c1", "stock-ledger")
	assert.ErrorIs(t, err, domain.ErrLockNotObtained)

	_, other, err := l.Lock(ctx, "c2", "stock-ledger")
	require.NoError(t, err, "otra empresa no comparte lock")
	require.NoError(t, other(ctx))

	require.NoError(t, unlock(ctx))
	require.NoError(t, unlock(ctx))
	assert.ErrorIs(t, held.Err(), context.Canceled, "liberar cancela el contexto del lock")
	_, again, err := l.Lock(ctx, "c1", "stock-ledger")
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}
