package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/lumina-backend/internal/http/response"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/services"
)

type OrderHandler struct {
	log          *logger.Logger
	orderService services.OrderService
	pageSize     int
}

func NewOrderHandler(log *logger.Logger, orderService services.OrderService, pageSize int) *OrderHandler {
	return &OrderHandler{
		log:          log.With("handler", "OrderHandler"),
		orderService: orderService,
		pageSize:     pageSize,
	}
}

// POST /api/orders/create/
// Card fields are accepted so the body validates; nothing downstream keeps them.
func (h *OrderHandler) Create(c *gin.Context) {
	var in services.CheckoutInput
	if !response.BindJSON(c, &in) {
		return
	}
	order, err := h.orderService.Checkout(dbcFrom(c), in)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"order":   services.NewOrderView(order),
		"message": "Order placed successfully!",
	})
}

// GET /api/orders/my-orders/
func (h *OrderHandler) MyOrders(c *gin.Context) {
	p, err := pageParams(c, h.pageSize)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	page, err := h.orderService.MyOrders(dbcFrom(c), p)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondPage(c, response.MapPage(page, services.NewOrderView))
}

// GET /api/orders/:order_number/
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderService.GetByNumber(dbcFrom(c), c.Param("order_number"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, services.NewOrderView(order))
}

// GET /api/orders/?status=&payment_status=&search=
func (h *OrderHandler) List(c *gin.Context) {
	p, err := pageParams(c, h.pageSize)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	var q services.OrderQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	page, err := h.orderService.List(dbcFrom(c), q, p)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondPage(c, response.MapPage(page, services.NewOrderView))
}

// POST /api/orders/:order_number/status/
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var in services.OrderStatusUpdate
	if !response.BindJSON(c, &in) {
		return
	}
	order, err := h.orderService.UpdateStatus(dbcFrom(c), c.Param("order_number"), in)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, services.NewOrderView(order))
}
