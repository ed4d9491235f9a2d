package stock

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// SettingsInput campos editables por el operador; nil = no cambia.
type SettingsInput struct {
	Unit              *string
	MinRequired       *decimal.Decimal
	SafeQuantityLimit *decimal.Decimal
	DisplayStatus     *string
}

// SettingsUseCase lectura del ledger y edición de umbrales/visibilidad de una fila.
type SettingsUseCase struct {
	txRunner  TxRunner
	stockRepo repository.StockDetailRepository
	now       func() time.Time
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(txRunner TxRunner, stockRepo repository.StockDetailRepository) *SettingsUseCase {
	return &SettingsUseCase{txRunner: txRunner, stockRepo: stockRepo, now: time.Now}
}

// List devuelve el ledger completo de la empresa.
func (uc *SettingsUseCase) List(ctx context.Context, companyID string) ([]*entity.StockDetail, error) {
	return uc.stockRepo.ListByCompany(ctx, companyID)
}

// GetByID obtiene una fila del ledger; ErrNotFound si no existe o es de otra empresa.
func (uc *SettingsUseCase) GetByID(ctx context.Context, companyID, id string) (*entity.StockDetail, error) {
	detail, err := uc.stockRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrNotFound
	}
	return detail, nil
}

// UpdateSettings aplica la edición bajo lock de fila. Valida umbrales no negativos y
// safe_quantity_limit <= min_required; sin umbrales la fila queda suspended.
func (uc *SettingsUseCase) UpdateSettings(ctx context.Context, companyID, id string, in SettingsInput) (*entity.StockDetail, error) {
	current, err := uc.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	var updated *entity.StockDetail
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockDetailRepository,
		_ repository.PurchaseRequestRepository,
		_ repository.PurchaseRecordRepository,
		_ repository.StockIssueRepository,
	) error {
		detail, err := stockRepo.GetForUpdate(ctx, companyID, current.Key)
		if err != nil {
			return err
		}
		if detail == nil {
			return domain.ErrNotFound
		}
		if err := applySettings(detail, in, uc.now()); err != nil {
			return err
		}
		if err := stockRepo.Update(ctx, detail); err != nil {
			return err
		}
		updated = detail
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete borrado explícito de una fila por el operador.
func (uc *SettingsUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.GetByID(ctx, companyID, id); err != nil {
		return err
	}
	return uc.stockRepo.Delete(ctx, companyID, id)
}

func applySettings(d *entity.StockDetail, in SettingsInput, now time.Time) error {
	minRequired, safeLimit := d.MinRequired, d.SafeQuantityLimit
	if in.MinRequired != nil {
		minRequired = *in.MinRequired
	}
	if in.SafeQuantityLimit != nil {
		safeLimit = *in.SafeQuantityLimit
	}
	if minRequired.IsNegative() || safeLimit.IsNegative() || safeLimit.GreaterThan(minRequired) {
		return domain.ErrInvalidInput
	}
	if in.DisplayStatus != nil {
		switch *in.DisplayStatus {
		case entity.DisplayStatusDisplayed, entity.DisplayStatusSuspended:
			d.DisplayStatus = *in.DisplayStatus
		default:
			return domain.ErrInvalidInput
		}
	}
	if in.Unit != nil {
		d.Unit = *in.Unit
	}
	d.MinRequired = minRequired
	d.SafeQuantityLimit = safeLimit
	d.EnforceDisplayStatus()
	d.UpdatedAt = now
	return nil
}
