package purchasing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/stock"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/ledger"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/pkg/logger"
	"github.com/jhoicas/inventario-stock/pkg/validation"
)

// RequestUseCase ciclo de vida de las solicitudes de compra. Cada cambio de la solicitud y su
// efecto sobre el ledger de stock se confirman en la misma transacción.
type RequestUseCase struct {
	txRunner    stock.TxRunner
	sync        *stock.SyncUseCase
	requestRepo repository.PurchaseRequestRepository
	validate    *validation.Validator
	log         *logger.Logger
	now         func() time.Time
}

// NewRequestUseCase construye el caso de uso.
func NewRequestUseCase(
	txRunner stock.TxRunner,
	sync *stock.SyncUseCase,
	requestRepo repository.PurchaseRequestRepository,
	validate *validation.Validator,
	log *logger.Logger,
) *RequestUseCase {
	return &RequestUseCase{
		txRunner:    txRunner,
		sync:        sync,
		requestRepo: requestRepo,
		validate:    validate,
		log:         log,
		now:         time.Now,
	}
}

// Create registra una solicitud pendiente y suma su cantidad a pending_quantity del ledger
// (si la clave ya tiene fila).
func (uc *RequestUseCase) Create(ctx context.Context, companyID string, in dto.CreatePurchaseRequestRequest) (*dto.PurchaseRequestResponse, error) {
	if err := check(uc.validate, in); err != nil {
		return nil, err
	}
	key := keyFromDTO(in.ProductKeyDTO)
	if companyID == "" || !key.Valid() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	req := &entity.PurchaseRequest{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		Key:              key,
		QuantityRequired: in.Quantity,
		Unit:             in.Unit,
		Status:           entity.RequestStatusPending,
		Priority:         in.Priority,
		EmployeeName:     in.EmployeeName,
		EmployeeEmail:    in.EmployeeEmail,
		Reason:           in.Reason,
		RequestedDate:    now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Priority == "" {
		req.Priority = entity.PriorityMedium
	}
	if in.RequestedDate != nil {
		req.RequestedDate = *in.RequestedDate
	}

	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockDetailRepository,
		requestRepo repository.PurchaseRequestRepository,
		_ repository.PurchaseRecordRepository,
		_ repository.StockIssueRepository,
	) error {
		if err := requestRepo.Create(ctx, req); err != nil {
			return err
		}
		zero := decimal.Zero
		_, err := uc.sync.SyncInTx(ctx, stockRepo, companyID, key, ledger.RequestSync{
			Status:      entity.RequestStatusPending,
			Quantity:    req.QuantityRequired,
			OldQuantity: &zero,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("request_id", req.ID).Str("key", key.String()).Msg("solicitud de compra creada")
	return toPurchaseRequestResponse(req), nil
}

// UpdateQuantity cambia la cantidad de una solicitud pendiente y aplica la diferencia al ledger.
// ErrConflict si la solicitud ya no está pendiente.
func (uc *RequestUseCase) UpdateQuantity(ctx context.Context, companyID, id string, in dto.UpdateRequestQuantityRequest) (*dto.PurchaseRequestResponse, error) {
	if err := check(uc.validate, in); err != nil {
		return nil, err
	}
	var updated *entity.PurchaseRequest
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockDetailRepository,
		requestRepo repository.PurchaseRequestRepository,
		_ repository.PurchaseRecordRepository,
		_ repository.StockIssueRepository,
	) error {
		req, err := requestRepo.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.Status != entity.RequestStatusPending {
			return domain.ErrConflict
		}
		old := req.QuantityRequired
		req.QuantityRequired = in.Quantity
		req.UpdatedAt = uc.now()
		reopened := req.Reopen()
		if err := requestRepo.Update(ctx, req); err != nil {
			return err
		}
		if _, err := uc.sync.SyncInTx(ctx, stockRepo, companyID, req.Key, ledger.RequestSync{
			Status:      entity.RequestStatusPending,
			Quantity:    req.QuantityRequired,
			OldQuantity: &old,
			Uncounted:   reopened,
		}); err != nil {
			return err
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseRequestResponse(updated), nil
}

// Approve pasa una solicitud de pending a approved.
func (uc *RequestUseCase) Approve(ctx context.Context, companyID, id string) (*dto.PurchaseRequestResponse, error) {
	return uc.transition(ctx, companyID, id, entity.RequestStatusApproved)
}

// Reject pasa una solicitud de pending a rejected.
func (uc *RequestUseCase) Reject(ctx context.Context, companyID, id string) (*dto.PurchaseRequestResponse, error) {
	return uc.transition(ctx, companyID, id, entity.RequestStatusRejected)
}

func (uc *RequestUseCase) transition(ctx context.Context, companyID, id, next string) (*dto.PurchaseRequestResponse, error) {
	var updated *entity.PurchaseRequest
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockDetailRepository,
		requestRepo repository.PurchaseRequestRepository,
		_ repository.PurchaseRecordRepository,
		_ repository.StockIssueRepository,
	) error {
		req, err := requestRepo.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if !req.CanTransitionTo(next) {
			return domain.ErrConflict
		}
		req.Status = next
		req.UpdatedAt = uc.now()
		reopened := req.Reopen()
		if err := requestRepo.Update(ctx, req); err != nil {
			return err
		}
		if _, err := uc.sync.SyncInTx(ctx, stockRepo, companyID, req.Key, ledger.RequestSync{
			Status:    next,
			Quantity:  req.QuantityRequired,
			Uncounted: reopened,
		}); err != nil {
			return err
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("request_id", id).Str("status", next).Msg("solicitud de compra actualizada")
	return toPurchaseRequestResponse(updated), nil
}

// CreatePurchaseOrder convierte solicitudes aprobadas en una orden de compra ("PO Created").
// Todas deben existir en la empresa y estar approved; si alguna falla no se convierte ninguna.
// El ledger se sincroniza una vez por clave.
func (uc *RequestUseCase) CreatePurchaseOrder(ctx context.Context, companyID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if err := check(uc.validate, in); err != nil {
		return nil, err
	}
	ids := uniqueSorted(in.RequestIDs)
	orderID := uuid.New().String()
	var converted []*entity.PurchaseRequest

	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockDetailRepository,
		requestRepo repository.PurchaseRequestRepository,
		_ repository.PurchaseRecordRepository,
		_ repository.StockIssueRepository,
	) error {
		converted = converted[:0]
		uncounted := make(map[entity.ProductKey]decimal.Decimal)
		now := uc.now()
		for _, id := range ids {
			req, err := requestRepo.GetForUpdate(ctx, companyID, id)
			if err != nil {
				return err
			}
			if req == nil {
				return fmt.Errorf("solicitud %s: %w", id, domain.ErrNotFound)
			}
			if !req.CanTransitionTo(entity.RequestStatusPOCreated) {
				return fmt.Errorf("solicitud %s en estado %s: %w", id, req.Status, domain.ErrConflict)
			}
			req.Status = entity.RequestStatusPOCreated
			req.PurchaseOrderID = &orderID
			req.UpdatedAt = now
			if req.Reopen() {
				uncounted[req.Key] = uncounted[req.Key].Add(req.QuantityRequired)
			}
			if err := requestRepo.Update(ctx, req); err != nil {
				return err
			}
			converted = append(converted, req)
		}
		for _, line := range orderLines(converted) {
			s := ledger.RequestSync{Status: entity.RequestStatusPOCreated, Quantity: line.quantity}
			if q, ok := uncounted[line.key]; ok {
				s.Quantity, s.Uncounted = q, true
			}
			if _, err := uc.sync.SyncInTx(ctx, stockRepo, companyID, line.key, s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := &dto.PurchaseOrderResponse{ID: orderID}
	for _, line := range orderLines(converted) {
		out.Lines = append(out.Lines, dto.PurchaseOrderLine{
			ProductKeyDTO: toKeyDTO(line.key),
			Unit:          line.unit,
			Quantity:      line.quantity,
		})
	}
	for _, req := range converted {
		out.Requests = append(out.Requests, *toPurchaseRequestResponse(req))
	}
	uc.log.Info().Str("company_id", companyID).Str("purchase_order_id", orderID).Int("requests", len(converted)).Msg("orden de compra creada")
	return out, nil
}

// GetByID obtiene una solicitud; ErrNotFound si no existe en la empresa.
func (uc *RequestUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.PurchaseRequestResponse, error) {
	req, err := uc.requestRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return toPurchaseRequestResponse(req), nil
}

// List lista solicitudes con filtro opcional por estado.
func (uc *RequestUseCase) List(ctx context.Context, companyID, status string, page dto.PageRequest) (*dto.PurchaseRequestListResponse, error) {
	if status != "" && !entity.IsValidRequestStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.requestRepo.List(ctx, companyID, repository.PurchaseRequestFilter{
		Status: status,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.PurchaseRequestListResponse{
		Items: make([]dto.PurchaseRequestResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, req := range list {
		out.Items = append(out.Items, *toPurchaseRequestResponse(req))
	}
	return out, nil
}

type orderLine struct {
	key      entity.ProductKey
	unit     string
	quantity decimal.Decimal
}

// orderLines agrupa por clave, en orden de clave.
func orderLines(reqs []*entity.PurchaseRequest) []orderLine {
	byKey := make(map[entity.ProductKey]*orderLine)
	for _, req := range reqs {
		l, ok := byKey[req.Key]
		if !ok {
			l = &orderLine{key: req.Key, unit: req.Unit}
			byKey[req.Key] = l
		}
		l.quantity = l.quantity.Add(req.QuantityRequired)
	}
	lines := make([]orderLine, 0, len(byKey))
	for _, l := range byKey {
		lines = append(lines, *l)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].key.Less(lines[j].key) })
	return lines
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
