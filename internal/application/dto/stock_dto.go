package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductKeyDTO clave compuesta de producto tal como viaja en JSON.
type ProductKeyDTO struct {
	ProductCategory string `json:"product_category" validate:"required,max=120"`
	ItemName        string `json:"item_name" validate:"required,max=200"`
	ProductVersion  string `json:"product_version" validate:"required,max=120"`
}

// StockDetailResponse fila del ledger de stock.
type StockDetailResponse struct {
	ProductKeyDTO
	ID                string          `json:"id"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	Unit              string          `json:"unit"`
	MinRequired       decimal.Decimal `json:"min_required"`
	SafeQuantityLimit decimal.Decimal `json:"safe_quantity_limit"`
	DisplayStatus     string          `json:"display_status"`
	StockLevel        string          `json:"stock_level"` // unconfigured | critical | low | ok
	PendingQuantity   decimal.Decimal `json:"pending_quantity"`
	ApprovedQuantity  decimal.Decimal `json:"approved_quantity"`
	PoCreatedQuantity decimal.Decimal `json:"po_created_quantity"`
	RejectedQuantity  decimal.Decimal `json:"rejected_quantity"`
	LastRequestStatus *string         `json:"last_request_status"`
	LastPurchaseDate  *time.Time      `json:"last_purchase_date"`
	PricePerUnit      decimal.Decimal `json:"price_per_unit"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// StockDetailListResponse ledger completo de la empresa.
type StockDetailListResponse struct {
	Items []StockDetailResponse `json:"items"`
	Total int                   `json:"total"`
}

// GenerateStockDetailsResponse resultado de POST /api/stock-details/generate.
type GenerateStockDetailsResponse struct {
	Items   []StockDetailResponse `json:"items"`
	Created int                   `json:"created"`
	Updated int                   `json:"updated"`
	Skipped int                   `json:"skipped"`
}

// SyncStockDetailsResponse resultado de la conciliación masiva.
type SyncStockDetailsResponse struct {
	Success           bool     `json:"success"`
	Message           string   `json:"message"`
	ProcessedProducts int      `json:"processed_products"`
	Skipped           int      `json:"skipped"`
	Errors            []string `json:"errors,omitempty"`
}

// SyncRequestStatusRequest body para POST /api/stock-details/sync-request-status.
type SyncRequestStatusRequest struct {
	ProductKeyDTO
	Status      string           `json:"status" validate:"required,oneof=pending approved rejected 'PO Created'"`
	Quantity    decimal.Decimal  `json:"quantity" validate:"gt=0"`
	OldQuantity *decimal.Decimal `json:"old_quantity,omitempty" validate:"omitempty,gte=0"`
}

// UpdateStockSettingsRequest body para PUT /api/stock-details/:id/settings. Campos nil no cambian.
type UpdateStockSettingsRequest struct {
	Unit              *string          `json:"unit" validate:"omitempty,max=50"`
	MinRequired       *decimal.Decimal `json:"min_required" validate:"omitempty,gte=0"`
	SafeQuantityLimit *decimal.Decimal `json:"safe_quantity_limit" validate:"omitempty,gte=0"`
	DisplayStatus     *string          `json:"display_status" validate:"omitempty,oneof=displayed suspended"`
}

// StockItemRequest línea a validar o consumir.
type StockItemRequest struct {
	ProductKeyDTO
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// ValidateStockRequest body para POST /api/stock/validate.
type ValidateStockRequest struct {
	Items []StockItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ConsumeStockRequest body para POST /api/stock/consume. Reference es la factura o entrega.
type ConsumeStockRequest struct {
	Reference string             `json:"reference" validate:"required,max=100"`
	Items     []StockItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ItemAvailabilityDTO disponibilidad de una línea.
type ItemAvailabilityDTO struct {
	ProductKeyDTO
	Unit         string          `json:"unit"`
	Required     decimal.Decimal `json:"required"`
	Available    decimal.Decimal `json:"available"`
	Insufficient bool            `json:"insufficient"`
}

// StockValidationResponse resultado de validar o consumir stock.
type StockValidationResponse struct {
	Valid bool                  `json:"valid"`
	Items []ItemAvailabilityDTO `json:"items"`
}
