package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderHandler serves order submission and the order lifecycle. Every route
// sits behind RequireAuth.
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) requester(c *gin.Context) (orderapp.Requester, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Not authorized, no token")
		return orderapp.Requester{}, false
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		h.Unauthorized(c, "Not authorized, token failed")
		return orderapp.Requester{}, false
	}
	return orderapp.Requester{UserID: userID, IsAdmin: claims.IsAdmin}, true
}

func (h *OrderHandler) orderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return uuid.Nil, false
	}
	return id, true
}

// Create godoc
// @ID           createOrder
// @Summary      Create an order
// @Description  Totals are recomputed server side and a mismatch is rejected
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body orderapp.CreateOrderInput true "Order"
// @Success      201 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	var req orderapp.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	placed, err := h.orderService.Create(c.Request.Context(), requester.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, placed)
}

// ListMine godoc
// @ID           listMyOrders
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]orderapp.OrderResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/mine [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	page, err := h.orderService.ListMine(c.Request.Context(), requester.UserID,
		queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// GetByID godoc
// @ID           getOrder
// @Summary      Get an order
// @Description  Visible to its owner and to admins
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	o, err := h.orderService.GetByID(c.Request.Context(), id, requester)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Pay godoc
// @ID           payOrder
// @Summary      Mark an order as paid
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body orderapp.PayOrderInput true "Payment result"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/pay [put]
func (h *OrderHandler) Pay(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	var req orderapp.PayOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	o, err := h.orderService.Pay(c.Request.Context(), id, requester, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Deliver godoc
// @ID           deliverOrder
// @Summary      Mark an order as delivered
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/deliver [put]
func (h *OrderHandler) Deliver(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	o, err := h.orderService.Deliver(c.Request.Context(), id, requester)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}
