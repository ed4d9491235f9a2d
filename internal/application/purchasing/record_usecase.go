package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/pkg/logger"
	"github.com/jhoicas/inventario-stock/pkg/validation"
)

// RecordUseCase registro de compras recibidas. La compra no toca el ledger hasta la
// próxima conciliación o generación.
type RecordUseCase struct {
	recordRepo repository.PurchaseRecordRepository
	validate   *validation.Validator
	log        *logger.Logger
	now        func() time.Time
}

// NewRecordUseCase construye el caso de uso.
func NewRecordUseCase(recordRepo repository.PurchaseRecordRepository, validate *validation.Validator, log *logger.Logger) *RecordUseCase {
	return &RecordUseCase{recordRepo: recordRepo, validate: validate, log: log, now: time.Now}
}

// RecordPurchase agrega una compra (append-only).
func (uc *RecordUseCase) RecordPurchase(ctx context.Context, companyID string, in dto.RecordPurchaseRequest) (*dto.PurchaseRecordResponse, error) {
	if err := check(uc.validate, in); err != nil {
		return nil, err
	}
	key := keyFromDTO(in.ProductKeyDTO)
	if companyID == "" || !key.Valid() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	rec := &entity.PurchaseRecord{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Key:          key,
		Quantity:     in.Quantity,
		Unit:         in.Unit,
		PricePerUnit: in.PricePerUnit,
		SupplierName: in.SupplierName,
		PurchaseDate: now,
		CreatedAt:    now,
	}
	if in.PurchaseDate != nil {
		rec.PurchaseDate = *in.PurchaseDate
	}
	if err := uc.recordRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("record_id", rec.ID).Str("key", key.String()).Msg("compra registrada")
	return toPurchaseRecordResponse(rec), nil
}

// List lista compras por fecha descendente.
func (uc *RecordUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.PurchaseRecordListResponse, error) {
	page.DefaultPage()
	list, err := uc.recordRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.PurchaseRecordListResponse{
		Items: make([]dto.PurchaseRecordResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, rec := range list {
		out.Items = append(out.Items, *toPurchaseRecordResponse(rec))
	}
	return out, nil
}
