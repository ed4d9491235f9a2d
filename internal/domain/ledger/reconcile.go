package ledger

import (
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// FoldPurchases suma al stock las compras aún no conciliadas de la clave, actualiza la última
// compra si es más reciente que la registrada y cierra el pipeline de solicitudes.
// Devuelve la cantidad sumada.
func FoldPurchases(d *entity.StockDetail, records []*entity.PurchaseRecord, now time.Time) decimal.Decimal {
	var added decimal.Decimal
	var latest *entity.PurchaseRecord
	for _, rec := range records {
		if rec == nil || rec.ReconciledAt != nil || !rec.Quantity.IsPositive() {
			continue
		}
		added = added.Add(rec.Quantity)
		if latest == nil || rec.IsNewerThan(latest) {
			latest = rec
		}
	}
	d.CurrentStock = d.CurrentStock.Add(added)
	if latest != nil && (d.LastPurchaseDate == nil || !latest.PurchaseDate.Before(*d.LastPurchaseDate)) {
		purchaseDate := latest.PurchaseDate
		d.LastPurchaseDate = &purchaseDate
		d.PricePerUnit = latest.PricePerUnit
	}
	d.ClearPipeline()
	d.UpdatedAt = now
	return added
}

// Deduct descuenta qty del stock actual; ErrInsufficientStock si no alcanza.
func Deduct(d *entity.StockDetail, qty decimal.Decimal, now time.Time) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	if d.CurrentStock.LessThan(qty) {
		return domain.ErrInsufficientStock
	}
	d.CurrentStock = d.CurrentStock.Sub(qty)
	d.UpdatedAt = now
	return nil
}
