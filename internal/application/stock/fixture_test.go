package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/stock"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

const companyID = "company-1"

var (
	keyResma = entity.NewProductKey("Papelería", "Resma carta", "75g")
	keyToner = entity.NewProductKey("Oficina", "Tóner", "HP 85A")
	day      = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store     *memory.Store
	locker    *memory.Locker
	generate  *stock.GenerateUseCase
	sync      *stock.SyncUseCase
	reconcile *stock.ReconcileUseCase
	gate      *stock.GateUseCase
	settings  *stock.SettingsUseCase
}

func newFixture() *fixture {
	s := memory.NewStore()
	l := memory.NewLocker()
	log := logger.Nop()
	return &fixture{
		store:     s,
		locker:    l,
		generate:  stock.NewGenerateUseCase(s, l, s.StockDetails(), s.PurchaseRequests(), s.PurchaseRecords(), log),
		sync:      stock.NewSyncUseCase(s, log),
		reconcile: stock.NewReconcileUseCase(s, l, s.PurchaseRecords(), log),
		gate:      stock.NewGateUseCase(s, s.StockDetails(), log),
		settings:  stock.NewSettingsUseCase(s, s.StockDetails()),
	}
}

func (f *fixture) addRecord(t *testing.T, id string, key entity.ProductKey, qty, price string, date time.Time) {
	t.Helper()
	require.NoError(t, f.store.PurchaseRecords().Create(context.Background(), &entity.PurchaseRecord{
		ID: id, CompanyID: companyID, Key: key, Quantity: dec(qty), Unit: "und",
		PricePerUnit: dec(price), PurchaseDate: date, CreatedAt: date,
	}))
}

func (f *fixture) addRequest(t *testing.T, id string, key entity.ProductKey, qty, status string, at time.Time) {
	t.Helper()
	require.NoError(t, f.store.PurchaseRequests().Create(context.Background(), &entity.PurchaseRequest{
		ID: id, CompanyID: companyID, Key: key, QuantityRequired: dec(qty), Unit: "und",
		Status: status, Priority: entity.PriorityMedium, RequestedDate: at, CreatedAt: at, UpdatedAt: at,
	}))
}

func (f *fixture) detail(t *testing.T, key entity.ProductKey) *entity.StockDetail {
	t.Helper()
	d, err := f.store.StockDetails().Get(context.Background(), companyID, key)
	require.NoError(t, err)
	require.NotNil(t, d, "fila %s", key)
	return d
}

// seedDetail crea la fila directamente, como si existiera de una generación previa.
func (f *fixture) seedDetail(t *testing.T, key entity.ProductKey, current string) *entity.StockDetail {
	t.Helper()
	d := &entity.StockDetail{
		ID: key.String(), CompanyID: companyID, Key: key, CurrentStock: dec(current), Unit: "und",
		DisplayStatus: entity.DisplayStatusSuspended, CreatedAt: day, UpdatedAt: day,
	}
	require.NoError(t, f.store.StockDetails().Create(context.Background(), d))
	return d
}
