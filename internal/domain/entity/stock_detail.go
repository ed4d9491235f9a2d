package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de visibilidad de una fila del ledger.
const (
	DisplayStatusDisplayed = "displayed"
	DisplayStatusSuspended = "suspended"
)

// Niveles de alerta calculados a partir de los umbrales.
const (
	StockLevelUnconfigured = "unconfigured"
	StockLevelCritical     = "critical"
	StockLevelLow          = "low"
	StockLevelOK           = "ok"
)

// StockDetail fila del ledger de stock: stock físico más contadores del pipeline de solicitudes
// de compra para un producto (ProductKey) de una empresa.
type StockDetail struct {
	ID                string
	CompanyID         string
	Key               ProductKey
	CurrentStock      decimal.Decimal
	Unit              string
	MinRequired       decimal.Decimal
	SafeQuantityLimit decimal.Decimal
	DisplayStatus     string
	PendingQuantity   decimal.Decimal
	ApprovedQuantity  decimal.Decimal
	PoCreatedQuantity decimal.Decimal
	RejectedQuantity  decimal.Decimal
	LastRequestStatus *string
	LastPurchaseDate  *time.Time
	PricePerUnit      decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ThresholdsUnset indica si ambos umbrales siguen en cero (fila sin configurar).
func (d *StockDetail) ThresholdsUnset() bool {
	return d.MinRequired.IsZero() && d.SafeQuantityLimit.IsZero()
}

// EnforceDisplayStatus fuerza suspended cuando la fila no tiene umbrales.
func (d *StockDetail) EnforceDisplayStatus() {
	if d.ThresholdsUnset() || d.DisplayStatus == "" {
		d.DisplayStatus = DisplayStatusSuspended
	}
}

// StockLevel nivel de alerta del stock actual frente a los umbrales.
func (d *StockDetail) StockLevel() string {
	switch {
	case d.ThresholdsUnset():
		return StockLevelUnconfigured
	case d.CurrentStock.LessThanOrEqual(d.SafeQuantityLimit):
		return StockLevelCritical
	case d.CurrentStock.LessThanOrEqual(d.MinRequired):
		return StockLevelLow
	default:
		return StockLevelOK
	}
}

// ClearPipeline pone en cero los contadores de solicitudes y limpia el último estado.
func (d *StockDetail) ClearPipeline() {
	d.PendingQuantity = decimal.Zero
	d.ApprovedQuantity = decimal.Zero
	d.PoCreatedQuantity = decimal.Zero
	d.RejectedQuantity = decimal.Zero
	d.LastRequestStatus = nil
}
