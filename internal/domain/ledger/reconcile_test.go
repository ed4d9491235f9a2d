package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/ledger"
)

// Escenario: stock 0, llega una compra de 20; tras conciliar stock=20 y pipeline en cero.
func TestFoldPurchases_SumaYLimpiaPipeline(t *testing.T) {
	d := newDetail("5", "3", "3", "1")
	status := entity.RequestStatusPOCreated
	d.LastRequestStatus = &status

	added := ledger.FoldPurchases(d, []*entity.PurchaseRecord{record("r1", keyResma, "20", "4", now)}, now)

	assert.True(t, added.Equal(dec("20")))
	assert.True(t, d.CurrentStock.Equal(dec("20")))
	assert.True(t, d.PendingQuantity.IsZero())
	assert.True(t, d.ApprovedQuantity.IsZero())
	assert.True(t, d.PoCreatedQuantity.IsZero())
	assert.True(t, d.RejectedQuantity.IsZero())
	assert.Nil(t, d.LastRequestStatus)
	require.NotNil(t, d.LastPurchaseDate)
	assert.True(t, d.PricePerUnit.Equal(dec("4")))
}

// Compras ya selladas no se vuelven a sumar.
func TestFoldPurchases_IgnoraConciliadas(t *testing.T) {
	d := newDetail("0", "0", "0", "0")
	done := now
	rec := record("r1", keyResma, "20", "4", now)
	rec.ReconciledAt = &done

	added := ledger.FoldPurchases(d, []*entity.PurchaseRecord{rec}, now)
	assert.True(t, added.IsZero())
	assert.True(t, d.CurrentStock.IsZero())
}

// Una compra más antigua que la registrada no pisa la última fecha/precio.
func TestFoldPurchases_NoRetrocedeUltimaCompra(t *testing.T) {
	d := newDetail("0", "0", "0", "0")
	last := now
	d.LastPurchaseDate = &last
	d.PricePerUnit = dec("10")

	ledger.FoldPurchases(d, []*entity.PurchaseRecord{record("r1", keyResma, "2", "3", now.Add(-time.Hour))}, now)
	assert.True(t, d.CurrentStock.Equal(dec("2")))
	assert.True(t, d.PricePerUnit.Equal(dec("10")))
	assert.Equal(t, last, *d.LastPurchaseDate)
}

func TestDeduct(t *testing.T) {
	d := newDetail("0", "0", "0", "0")
	d.CurrentStock = dec("5")

	require.NoError(t, ledger.Deduct(d, dec("3"), now))
	assert.True(t, d.CurrentStock.Equal(dec("2")))

	assert.ErrorIs(t, ledger.Deduct(d, dec("3"), now), domain.ErrInsufficientStock)
	assert.True(t, d.CurrentStock.Equal(dec("2")), "sin descuento parcial")

	assert.ErrorIs(t, ledger.Deduct(d, dec("0"), now), domain.ErrInvalidInput)
}
