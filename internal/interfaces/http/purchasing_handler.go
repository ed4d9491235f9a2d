package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/purchasing"
)

// PurchasingHandler maneja solicitudes, órdenes y registros de compra (protegido).
type PurchasingHandler struct {
	requests *purchasing.RequestUseCase
	records  *purchasing.RecordUseCase
}

// NewPurchasingHandler construye el handler.
func NewPurchasingHandler(requests *purchasing.RequestUseCase, records *purchasing.RecordUseCase) *PurchasingHandler {
	return &PurchasingHandler{requests: requests, records: records}
}

// CreateRequest godoc
// @Summary      Crear solicitud de compra
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreatePurchaseRequestRequest  true  "clave, cantidad y solicitante"
// @Success      201   {object}  dto.PurchaseRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-requests [post]
func (h *PurchasingHandler) CreateRequest(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreatePurchaseRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.requests.Create(c.Context(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRequests godoc
// @Summary      Listar solicitudes de compra
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        status  query     string  false  "pending | approved | rejected | PO Created"
// @Param        limit   query     int     false  "Límite"
// @Param        offset  query     int     false  "Offset"
// @Success      200     {object}  dto.PurchaseRequestListResponse
// @Router       /api/purchase-requests [get]
func (h *PurchasingHandler) ListRequests(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	out, err := h.requests.List(c.Context(), companyID, c.Query("status"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetRequest godoc
// @Summary      Obtener solicitud de compra
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.PurchaseRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id} [get]
func (h *PurchasingHandler) GetRequest(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	out, err := h.requests.GetByID(c.Context(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateQuantity godoc
// @Summary      Editar cantidad de una solicitud pendiente
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                            true  "ID de la solicitud"
// @Param        body  body      dto.UpdateRequestQuantityRequest  true  "nueva cantidad"
// @Success      200   {object}  dto.PurchaseRequestResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/quantity [put]
func (h *PurchasingHandler) UpdateQuantity(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateRequestQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	out, err := h.requests.UpdateQuantity(c.Context(), companyID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar solicitud
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.PurchaseRequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/approve [post]
func (h *PurchasingHandler) Approve(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	out, err := h.requests.Approve(c.Context(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.PurchaseRequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/reject [post]
func (h *PurchasingHandler) Reject(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	out, err := h.requests.Reject(c.Context(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreatePurchaseOrder godoc
// @Summary      Crear orden de compra
// @Description  Agrupa solicitudes aprobadas; todas pasan a PO Created o ninguna.
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreatePurchaseOrderRequest  true  "IDs de solicitudes aprobadas"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchasingHandler) CreatePurchaseOrder(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.requests.CreatePurchaseOrder(c.Context(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordPurchase godoc
// @Summary      Registrar compra recibida
// @Description  Queda pendiente de conciliación hasta el próximo sync.
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RecordPurchaseRequest  true  "clave, cantidad, precio y fecha"
// @Success      201   {object}  dto.PurchaseRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-records [post]
func (h *PurchasingHandler) RecordPurchase(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.RecordPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.records.RecordPurchase(c.Context(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRecords godoc
// @Summary      Listar compras registradas
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        limit   query     int  false  "Límite"
// @Param        offset  query     int  false  "Offset"
// @Success      200     {object}  dto.PurchaseRecordListResponse
// @Router       /api/purchase-records [get]
func (h *PurchasingHandler) ListRecords(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	out, err := h.records.List(c.Context(), companyID, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
