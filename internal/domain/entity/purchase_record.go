package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseRecord compra física registrada (entrada de stock). Solo se agrega, nunca se edita;
// las correcciones son registros nuevos.
type PurchaseRecord struct {
	ID           string
	CompanyID    string
	Key          ProductKey
	Quantity     decimal.Decimal
	Unit         string
	PricePerUnit decimal.Decimal
	SupplierName string
	PurchaseDate time.Time
	CreatedAt    time.Time
	ReconciledAt *time.Time // nil = aún no sumado a current_stock
}

// IsNewerThan compara dos eventos de compra: fecha de compra, luego creación, luego ID.
func (p *PurchaseRecord) IsNewerThan(o *PurchaseRecord) bool {
	if !p.PurchaseDate.Equal(o.PurchaseDate) {
		return p.PurchaseDate.After(o.PurchaseDate)
	}
	if !p.CreatedAt.Equal(o.CreatedAt) {
		return p.CreatedAt.After(o.CreatedAt)
	}
	return p.ID > o.ID
}
