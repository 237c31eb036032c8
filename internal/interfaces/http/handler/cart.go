package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	cartapp "github.com/smarthomes/backend/internal/application/cart"
	"github.com/smarthomes/backend/internal/domain/cart"
	"github.com/smarthomes/backend/internal/domain/shared"
	"github.com/smarthomes/backend/internal/interfaces/http/middleware"
)

// CartHandler handles the shopping cart endpoints. Every endpoint works
// on the session chosen by the X-Cart-Session header.
type CartHandler struct {
	BaseHandler
	cartService *cartapp.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.Service) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// AddItemRequest adds one unit of a catalog product. ProductID accepts a
// number or a numeric string.
type AddItemRequest struct {
	ProductID any    `json:"productId"`
	Category  string `json:"category" binding:"max=100"`
}

// UpdateQuantityRequest sets the quantity of a cart line
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// TotalResponse is the cart total formatted to two decimals
type TotalResponse struct {
	Total string `json:"total"`
}

// Get returns the lines of the cart
// GET /api/cart
func (h *CartHandler) Get(c *gin.Context) {
	lines, err := h.cartService.Get(c.Request.Context(), middleware.GetCartSession(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNilLines(lines))
}

// Replace overwrites the cart with the posted array
// POST /api/cart
func (h *CartHandler) Replace(c *gin.Context) {
	var lines []cart.Line
	if err := c.ShouldBindJSON(&lines); err != nil {
		h.BindError(c, err)
		return
	}
	if _, err := h.cartService.Replace(c.Request.Context(), middleware.GetCartSession(c), lines); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Cart updated successfully")
}

// Clear empties the cart
// DELETE /api/cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), middleware.GetCartSession(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Cart cleared successfully")
}

// AddItem adds a catalog product to the cart and returns the cart
// POST /api/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if req.ProductID == nil {
		h.HandleError(c, shared.NewValidationError("productId is required"))
		return
	}
	productID, err := shared.ParseIntID(req.ProductID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	lines, err := h.cartService.AddItem(c.Request.Context(), middleware.GetCartSession(c), productID, req.Category)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNilLines(lines))
}

// UpdateQuantity sets a line's quantity; zero removes the line
// PUT /api/cart/items/:id
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	lines, err := h.cartService.UpdateQuantity(c.Request.Context(), middleware.GetCartSession(c), id, *req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNilLines(lines))
}

// RemoveItem deletes a line from the cart
// DELETE /api/cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	lines, err := h.cartService.RemoveItem(c.Request.Context(), middleware.GetCartSession(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNilLines(lines))
}

// Total returns the cart total
// GET /api/cart/total
func (h *CartHandler) Total(c *gin.Context) {
	total, err := h.cartService.Total(c.Request.Context(), middleware.GetCartSession(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, TotalResponse{Total: total})
}

// RegisterRoutes mounts the cart endpoints
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	carts := rg.Group("/cart")
	carts.GET("", h.Get)
	carts.POST("", h.Replace)
	carts.DELETE("", h.Clear)
	carts.GET("/total", h.Total)
	carts.POST("/items", h.AddItem)
	carts.PUT("/items/:id", h.UpdateQuantity)
	carts.DELETE("/items/:id", h.RemoveItem)
}

// nonNilLines makes an empty cart encode as [] rather than null
func nonNilLines(lines []cart.Line) []cart.Line {
	if lines == nil {
		return []cart.Line{}
	}
	return lines
}
