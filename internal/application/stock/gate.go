package stock

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/ledger"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/pkg/logger"
	"github.com/shopspring/decimal"
)

// StockItem línea de factura o entrega que consume stock.
type StockItem struct {
	Key      entity.ProductKey
	Unit     string
	Required decimal.Decimal
}

// ItemAvailability disponibilidad de una línea frente al ledger.
type ItemAvailability struct {
	Key          entity.ProductKey
	Unit         string
	Required     decimal.Decimal
	Available    decimal.Decimal
	Insufficient bool
}

// ValidationResult resultado de validar un conjunto de líneas; Valid es false si alguna no alcanza.
type ValidationResult struct {
	Valid bool
	Items []ItemAvailability
}

// GateUseCase valida y descuenta stock para facturas y entregas internas.
type GateUseCase struct {
	txRunner  TxRunner
	stockRepo repository.StockDetailRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewGateUseCase construye el caso de uso.
func NewGateUseCase(txRunner TxRunner, stockRepo repository.StockDetailRepository, log *logger.Logger) *GateUseCase {
	return &GateUseCase{txRunner: txRunner, stockRepo: stockRepo, log: log, now: time.Now}
}

// ValidateStock compara lo requerido con current_stock por línea. Las claves repetidas se suman;
// una clave sin fila en el ledger tiene disponible 0.
func (uc *GateUseCase) ValidateStock(ctx context.Context, companyID string, items []StockItem) (*ValidationResult, error) {
	merged, err := mergeItems(companyID, items)
	if err != nil {
		return nil, err
	}
	result := &ValidationResult{Valid: true, Items: make([]ItemAvailability, 0, len(merged))}
	for _, it := range merged {
		detail, err := uc.stockRepo.Get(ctx, companyID, it.Key)
		if err != nil {
			return nil, err
		}
		result.add(it, detail)
	}
	return result, nil
}

// ConsumeStock valida y descuenta en una sola transacción: bloquea las filas en orden de clave,
// revalida con los valores bloqueados y, si todo alcanza, descuenta y registra una salida por línea.
// Si alguna línea no alcanza retorna ErrInsufficientStock junto al detalle y no descuenta nada.
func (uc *GateUseCase) ConsumeStock(ctx context.Context, companyID, userID, reference string, items []StockItem) (*ValidationResult, error) {
	merged, err := mergeItems(companyID, items)
	if err != nil {
		return nil, err
	}
	if reference == "" {
		return nil, domain.ErrInvalidInput
	}
	locked := make([]StockItem, len(merged))
	copy(locked, merged)
	sort.Slice(locked, func(i, j int) bool { return locked[i].Key.Less(locked[j].Key) })

	var result *ValidationResult
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockDetailRepository,
		_ repository.PurchaseRequestRepository,
		_ repository.PurchaseRecordRepository,
		issueRepo repository.StockIssueRepository,
	) error {
		details := make(map[entity.ProductKey]*entity.StockDetail, len(locked))
		for _, it := range locked {
			detail, err := stockRepo.GetForUpdate(ctx, companyID, it.Key)
			if err != nil {
				return err
			}
			details[it.Key] = detail
		}

		result = &ValidationResult{Valid: true, Items: make([]ItemAvailability, 0, len(merged))}
		for _, it := range merged {
			result.add(it, details[it.Key])
		}
		if !result.Valid {
			return domain.ErrInsufficientStock
		}

		now := uc.now()
		for _, it := range locked {
			detail := details[it.Key]
			if err := ledger.Deduct(detail, it.Required, now); err != nil {
				return err
			}
			if err := stockRepo.Update(ctx, detail); err != nil {
				return err
			}
			issue := &entity.StockIssue{
				ID:        uuid.New().String(),
				CompanyID: companyID,
				Key:       it.Key,
				Quantity:  it.Required,
				Unit:      it.Unit,
				Reference: reference,
				IssuedAt:  now,
				CreatedBy: userID,
			}
			if err := issueRepo.Create(ctx, issue); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return result, err
		}
		return nil, err
	}
	uc.log.WithCompany(companyID).Info().
		Str("reference", reference).
		Int("items", len(merged)).
		Msg("stock descontado")
	return result, nil
}

func (r *ValidationResult) add(it StockItem, detail *entity.StockDetail) {
	available := decimal.Zero
	unit := it.Unit
	if detail != nil {
		available = detail.CurrentStock
		if unit == "" {
			unit = detail.Unit
		}
	}
	insufficient := it.Required.GreaterThan(available)
	if insufficient {
		r.Valid = false
	}
	r.Items = append(r.Items, ItemAvailability{
		Key:          it.Key,
		Unit:         unit,
		Required:     it.Required,
		Available:    available,
		Insufficient: insufficient,
	})
}

// mergeItems suma las líneas con la misma clave conservando el orden de aparición.
func mergeItems(companyID string, items []StockItem) ([]StockItem, error) {
	if companyID == "" || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	index := make(map[entity.ProductKey]int, len(items))
	merged := make([]StockItem, 0, len(items))
	for _, it := range items {
		if !it.Key.Valid() || !it.Required.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		if i, ok := index[it.Key]; ok {
			merged[i].Required = merged[i].Required.Add(it.Required)
			continue
		}
		index[it.Key] = len(merged)
		merged = append(merged, it)
	}
	return merged, nil
}
