package stock_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

func TestSync_SinFilaNoHaceNada(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	err := f.sync.SyncPurchaseRequestStatus(ctx, companyID, keyToner, entity.RequestStatusApproved, dec("3"), nil)
	require.NoError(t, err)

	got, err := f.store.StockDetails().Get(ctx, companyID, keyToner)
	require.NoError(t, err)
	assert.Nil(t, got, "la sincronización no crea filas")
}

func TestSync_FlujoCompleto(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seedDetail(t, keyResma, "0")
	zero := decimal.Zero
	old := dec("5")

	require.NoError(t, f.sync.SyncPurchaseRequestStatus(ctx, companyID, keyResma, entity.RequestStatusPending, dec("5"), &zero))
	require.NoError(t, f.sync.SyncPurchaseRequestStatus(ctx, companyID, keyResma, entity.RequestStatusPending, dec("8"), &old))
	assert.True(t, f.detail(t, keyResma).PendingQuantity.Equal(dec("8")))

	require.NoError(t, f.sync.SyncPurchaseRequestStatus(ctx, companyID, keyResma, entity.RequestStatusApproved, dec("8"), nil))
	require.NoError(t, f.sync.SyncPurchaseRequestStatus(ctx, companyID, keyResma, entity.RequestStatusPOCreated, dec("8"), nil))

	d := f.detail(t, keyResma)
	assert.True(t, d.PendingQuantity.IsZero())
	assert.True(t, d.ApprovedQuantity.Equal(dec("8")))
	assert.True(t, d.PoCreatedQuantity.Equal(dec("8")))
	require.NotNil(t, d.LastRequestStatus)
	assert.Equal(t, entity.RequestStatusPOCreated, *d.LastRequestStatus)
	assert.True(t, d.CurrentStock.IsZero(), "el pipeline no toca el stock físico")
}

func TestSync_EntradaInvalida(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seedDetail(t, keyResma, "0")

	err := f.sync.SyncPurchaseRequestStatus(ctx, companyID, keyResma, "cancelled", dec("1"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	err = f.sync.SyncPurchaseRequestStatus(ctx, companyID, keyResma, entity.RequestStatusApproved, dec("0"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	err = f.sync.SyncPurchaseRequestStatus(ctx, companyID, entity.NewProductKey("", "x", "y"), entity.RequestStatusApproved, dec("1"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
