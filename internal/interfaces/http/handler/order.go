package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	orderapp "github.com/smarthomes/backend/internal/application/order"
	"github.com/smarthomes/backend/internal/domain/order"
	"github.com/smarthomes/backend/internal/interfaces/http/middleware"
)

// ReplayedHeader is set on a checkout response served from an earlier
// request with the same Idempotency-Key
const ReplayedHeader = "Idempotent-Replayed"

// OrderHandler handles the order ledger endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// OrderMessageResponse is a message plus the affected order
type OrderMessageResponse struct {
	Message string      `json:"message"`
	Order   order.Order `json:"order"`
}

// List returns every order in either stored shape
// GET /api/orders
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// Place appends a client-built order record
// POST /api/orders
func (h *OrderHandler) Place(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.BindError(c, err)
		return
	}
	if _, err := h.orderService.PlaceOrder(c.Request.Context(), body); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Order placed successfully")
}

// Checkout turns the session's cart into an order
// POST /api/orders/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req orderapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.orderService.Checkout(
		c.Request.Context(),
		middleware.GetCartSession(c),
		req,
		c.GetHeader(middleware.IdempotencyKeyHeader),
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Replayed {
		c.Header(ReplayedHeader, "true")
	}
	c.JSON(http.StatusOK, OrderMessageResponse{Message: "Order placed successfully", Order: result.Order})
}

// Summary returns the admin list view of the ledger
// GET /api/orders/summary
func (h *OrderHandler) Summary(c *gin.Context) {
	summaries, err := h.orderService.Summaries(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if summaries == nil {
		summaries = []order.Summary{}
	}
	c.JSON(http.StatusOK, summaries)
}

// Export downloads the ledger as CSV
// GET /api/orders/export
func (h *OrderHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.orderService.ExportCSV(c.Request.Context(), &buf); err != nil {
		h.HandleError(c, err)
		return
	}
	filename := "orders-" + time.Now().UTC().Format("20060102") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Get looks an order up by confirmation number or orderId
// GET /api/orders/:orderId
func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.orderService.Find(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// UpdateStatus sets the status of an order
// PUT /api/orders/:orderId
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req orderapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	updated, err := h.orderService.SetStatus(c.Request.Context(), c.Param("orderId"), req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, OrderMessageResponse{Message: "Order status updated successfully", Order: updated})
}

// Cancel removes a Processing order on the customer's request
// DELETE /api/orders/:orderId
func (h *OrderHandler) Cancel(c *gin.Context) {
	canceled, err := h.orderService.Cancel(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, OrderMessageResponse{Message: "Order canceled successfully", Order: canceled})
}

// RegisterRoutes mounts the order endpoints
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.GET("", h.List)
	orders.POST("", h.Place)
	orders.POST("/checkout", h.Checkout)
	orders.GET("/summary", h.Summary)
	orders.GET("/export", h.Export)
	orders.GET("/:orderId", h.Get)
	orders.PUT("/:orderId", h.UpdateStatus)
	orders.DELETE("/:orderId", h.Cancel)
}
