package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/stock"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/pkg/validation"
)

// StockHandler expone el ledger de stock y la puerta de consumo (protegido).
type StockHandler struct {
	generate  *stock.GenerateUseCase
	reconcile *stock.ReconcileUseCase
	sync      *stock.SyncUseCase
	gate      *stock.GateUseCase
	settings  *stock.SettingsUseCase
	validate  *validation.Validator
}

// NewStockHandler construye el handler.
func NewStockHandler(
	generate *stock.GenerateUseCase,
	reconcile *stock.ReconcileUseCase,
	sync *stock.SyncUseCase,
	gate *stock.GateUseCase,
	settings *stock.SettingsUseCase,
	validate *validation.Validator,
) *StockHandler {
	return &StockHandler{
		generate:  generate,
		reconcile: reconcile,
		sync:      sync,
		gate:      gate,
		settings:  settings,
		validate:  validate,
	}
}

// List godoc
// @Summary      Listar ledger de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockDetailListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/stock-details [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	list, err := h.settings.List(c.Context(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	items := toStockDetailResponses(list)
	return c.JSON(dto.StockDetailListResponse{Items: items, Total: len(items)})
}

// GetByID godoc
// @Summary      Obtener fila del ledger
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la fila"
// @Success      200  {object}  dto.StockDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-details/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	d, err := h.settings.GetByID(c.Context(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockDetailResponse(d))
}

// Generate godoc
// @Summary      Generar ledger de stock
// @Description  Recalcula stock y contadores de solicitudes para todas las claves de la empresa.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GenerateStockDetailsResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-details/generate [post]
func (h *StockHandler) Generate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	res, err := h.generate.GenerateStockDetails(c.Context(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.GenerateStockDetailsResponse{
		Items:   toStockDetailResponses(res.Details),
		Created: res.Created,
		Updated: res.Updated,
		Skipped: res.Skipped,
	})
}

// Sync godoc
// @Summary      Conciliar compras pendientes
// @Description  Suma las compras no conciliadas al stock y cierra el ciclo de solicitudes.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncStockDetailsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-details/sync [post]
func (h *StockHandler) Sync(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	res, err := h.reconcile.SyncStockDetails(c.Context(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SyncStockDetailsResponse{
		Success:           res.Success,
		Message:           res.Message,
		ProcessedProducts: res.ProcessedProducts,
		Skipped:           res.Skipped,
		Errors:            res.Errors,
	})
}

// SyncRequestStatus godoc
// @Summary      Sincronizar estado de una solicitud
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SyncRequestStatusRequest  true  "clave, estado y cantidades"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock-details/sync-request-status [post]
func (h *StockHandler) SyncRequestStatus(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.SyncRequestStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	err := h.sync.SyncPurchaseRequestStatus(c.Context(), companyID, keyFromDTO(in.ProductKeyDTO), in.Status, in.Quantity, in.OldQuantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "estado sincronizado"})
}

// UpdateSettings godoc
// @Summary      Editar umbrales y visibilidad
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                          true  "ID de la fila"
// @Param        body  body      dto.UpdateStockSettingsRequest  true  "unit, min_required, safe_quantity_limit, display_status"
// @Success      200   {object}  dto.StockDetailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-details/{id}/settings [put]
func (h *StockHandler) UpdateSettings(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateStockSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	d, err := h.settings.UpdateSettings(c.Context(), companyID, id, stock.SettingsInput{
		Unit:              in.Unit,
		MinRequired:       in.MinRequired,
		SafeQuantityLimit: in.SafeQuantityLimit,
		DisplayStatus:     in.DisplayStatus,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockDetailResponse(d))
}

// Delete godoc
// @Summary      Eliminar fila del ledger
// @Tags         stock
// @Security     Bearer
// @Param        id   path  string  true  "ID de la fila"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-details/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	if err := h.settings.Delete(c.Context(), companyID, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Validate godoc
// @Summary      Validar disponibilidad de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ValidateStockRequest  true  "líneas a validar"
// @Success      200   {object}  dto.StockValidationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/validate [post]
func (h *StockHandler) Validate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.ValidateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	res, err := h.gate.ValidateStock(c.Context(), companyID, toStockItems(in.Items))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toValidationResponse(res))
}

// Consume godoc
// @Summary      Descontar stock
// @Description  Todo o nada: si alguna línea no alcanza no se descuenta nada y se responde 409 con el detalle.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ConsumeStockRequest  true  "referencia y líneas a descontar"
// @Success      200   {object}  dto.StockValidationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.StockValidationResponse
// @Router       /api/stock/consume [post]
func (h *StockHandler) Consume(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.ConsumeStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	res, err := h.gate.ConsumeStock(c.Context(), companyID, userID, in.Reference, toStockItems(in.Items))
	if errors.Is(err, domain.ErrInsufficientStock) && res != nil {
		return c.Status(fiber.StatusConflict).JSON(toValidationResponse(res))
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toValidationResponse(res))
}

func keyFromDTO(k dto.ProductKeyDTO) entity.ProductKey {
	return entity.NewProductKey(k.ProductCategory, k.ItemName, k.ProductVersion)
}

func toKeyDTO(k entity.ProductKey) dto.ProductKeyDTO {
	return dto.ProductKeyDTO{ProductCategory: k.Category, ItemName: k.ItemName, ProductVersion: k.Version}
}

func toStockItems(in []dto.StockItemRequest) []stock.StockItem {
	out := make([]stock.StockItem, 0, len(in))
	for _, it := range in {
		out = append(out, stock.StockItem{Key: keyFromDTO(it.ProductKeyDTO), Unit: it.Unit, Required: it.Quantity})
	}
	return out
}

func toValidationResponse(r *stock.ValidationResult) dto.StockValidationResponse {
	items := make([]dto.ItemAvailabilityDTO, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.ItemAvailabilityDTO{
			ProductKeyDTO: toKeyDTO(it.Key),
			Unit:          it.Unit,
			Required:      it.Required,
			Available:     it.Available,
			Insufficient:  it.Insufficient,
		})
	}
	return dto.StockValidationResponse{Valid: r.Valid, Items: items}
}

func toStockDetailResponses(list []*entity.StockDetail) []dto.StockDetailResponse {
	out := make([]dto.StockDetailResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toStockDetailResponse(d))
	}
	return out
}

func toStockDetailResponse(d *entity.StockDetail) dto.StockDetailResponse {
	return dto.StockDetailResponse{
		ProductKeyDTO:     toKeyDTO(d.Key),
		ID:                d.ID,
		CurrentStock:      d.CurrentStock,
		Unit:              d.Unit,
		MinRequired:       d.MinRequired,
		SafeQuantityLimit: d.SafeQuantityLimit,
		DisplayStatus:     d.DisplayStatus,
		StockLevel:        d.StockLevel(),
		PendingQuantity:   d.PendingQuantity,
		ApprovedQuantity:  d.ApprovedQuantity,
		PoCreatedQuantity: d.PoCreatedQuantity,
		RejectedQuantity:  d.RejectedQuantity,
		LastRequestStatus: d.LastRequestStatus,
		LastPurchaseDate:  d.LastPurchaseDate,
		PricePerUnit:      d.PricePerUnit,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}
