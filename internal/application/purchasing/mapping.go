package purchasing

import (
	"fmt"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/pkg/validation"
)

// check valida el DTO; el error envuelve domain.ErrInvalidInput y el detalle del validador.
func check(v *validation.Validator, in interface{}) error {
	if err := v.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

func keyFromDTO(k dto.ProductKeyDTO) entity.ProductKey {
	return entity.NewProductKey(k.ProductCategory, k.ItemName, k.ProductVersion)
}

func toKeyDTO(k entity.ProductKey) dto.ProductKeyDTO {
	return dto.ProductKeyDTO{ProductCategory: k.Category, ItemName: k.ItemName, ProductVersion: k.Version}
}

func toPurchaseRequestResponse(r *entity.PurchaseRequest) *dto.PurchaseRequestResponse {
	return &dto.PurchaseRequestResponse{
		ProductKeyDTO:    toKeyDTO(r.Key),
		ID:               r.ID,
		QuantityRequired: r.QuantityRequired,
		Unit:             r.Unit,
		Status:           r.Status,
		Priority:         r.Priority,
		EmployeeName:     r.EmployeeName,
		EmployeeEmail:    r.EmployeeEmail,
		Reason:           r.Reason,
		RequestedDate:    r.RequestedDate,
		PurchaseOrderID:  r.PurchaseOrderID,
		CycleClosedAt:    r.CycleClosedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func toPurchaseRecordResponse(r *entity.PurchaseRecord) *dto.PurchaseRecordResponse {
	return &dto.PurchaseRecordResponse{
		ProductKeyDTO: toKeyDTO(r.Key),
		ID:            r.ID,
		Quantity:      r.Quantity,
		Unit:          r.Unit,
		PricePerUnit:  r.PricePerUnit,
		SupplierName:  r.SupplierName,
		PurchaseDate:  r.PurchaseDate,
		ReconciledAt:  r.ReconciledAt,
		CreatedAt:     r.CreatedAt,
	}
}
