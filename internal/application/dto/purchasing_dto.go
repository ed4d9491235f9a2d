package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseRequestRequest body para POST /api/purchase-requests.
type CreatePurchaseRequestRequest struct {
	ProductKeyDTO
	Quantity      decimal.Decimal `json:"quantity" validate:"gt=0"`
	Unit          string          `json:"unit" validate:"max=50"`
	Priority      string          `json:"priority" validate:"omitempty,oneof=low medium high"`
	EmployeeName  string          `json:"employee_name" validate:"required,max=200"`
	EmployeeEmail string          `json:"employee_email" validate:"omitempty,email"`
	Reason        string          `json:"reason" validate:"max=1000"`
	RequestedDate *time.Time      `json:"requested_date"`
}

// UpdateRequestQuantityRequest body para PUT /api/purchase-requests/:id/quantity.
type UpdateRequestQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// PurchaseRequestResponse salida de una solicitud de compra.
type PurchaseRequestResponse struct {
	ProductKeyDTO
	ID               string          `json:"id"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
	Unit             string          `json:"unit"`
	Status           string          `json:"status"`
	Priority         string          `json:"priority"`
	EmployeeName     string          `json:"employee_name"`
	EmployeeEmail    string          `json:"employee_email"`
	Reason           string          `json:"reason"`
	RequestedDate    time.Time       `json:"requested_date"`
	PurchaseOrderID  *string         `json:"purchase_order_id,omitempty"`
	CycleClosedAt    *time.Time      `json:"cycle_closed_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// PurchaseRequestListResponse lista paginada de solicitudes.
type PurchaseRequestListResponse struct {
	Items []PurchaseRequestResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	RequestIDs []string `json:"request_ids" validate:"required,min=1,dive,required,uuid"`
}

// PurchaseOrderLine cantidad total por producto dentro de la orden.
type PurchaseOrderLine struct {
	ProductKeyDTO
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
}

// PurchaseOrderResponse orden de compra creada a partir de solicitudes aprobadas.
type PurchaseOrderResponse struct {
	ID       string                    `json:"id"`
	Lines    []PurchaseOrderLine       `json:"lines"`
	Requests []PurchaseRequestResponse `json:"requests"`
}

// RecordPurchaseRequest body para POST /api/purchase-records.
type RecordPurchaseRequest struct {
	ProductKeyDTO
	Quantity     decimal.Decimal `json:"quantity" validate:"gt=0"`
	Unit         string          `json:"unit" validate:"max=50"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" validate:"gte=0"`
	SupplierName string          `json:"supplier_name" validate:"max=200"`
	PurchaseDate *time.Time      `json:"purchase_date"`
}

// PurchaseRecordResponse salida de una compra registrada.
type PurchaseRecordResponse struct {
	ProductKeyDTO
	ID           string          `json:"id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	SupplierName string          `json:"supplier_name"`
	PurchaseDate time.Time       `json:"purchase_date"`
	ReconciledAt *time.Time      `json:"reconciled_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PurchaseRecordListResponse lista paginada de compras.
type PurchaseRecordListResponse struct {
	Items []PurchaseRecordResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}
