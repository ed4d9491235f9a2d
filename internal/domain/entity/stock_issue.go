package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockIssue salida de stock (factura o entrega interna) registrada al confirmar el consumo.
type StockIssue struct {
	ID        string
	CompanyID string
	Key       ProductKey
	Quantity  decimal.Decimal // siempre positivo
	Unit      string
	Reference string // factura u orden que consume el stock
	IssuedAt  time.Time
	CreatedBy string
}
