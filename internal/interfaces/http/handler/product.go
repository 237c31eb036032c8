package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/smarthomes/backend/internal/application/catalog"
)

// ProductHandler handles the catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// AddProductResponse is returned by POST /api/products
type AddProductResponse struct {
	Message string                      `json:"message"`
	Product *catalogapp.ProductResponse `json:"product"`
}

// List returns the whole catalog keyed by category
// GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	catalog, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}

// ListCategory returns the products of one category
// GET /api/products/:category
func (h *ProductHandler) ListCategory(c *gin.Context) {
	products, err := h.productService.ListCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Get returns a single product
// GET /api/products/:category/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("category"), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Accessories returns the accessories of a product
// GET /api/products/:category/:id/accessories
func (h *ProductHandler) Accessories(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	accessories, err := h.productService.ProductAccessories(c.Request.Context(), c.Param("category"), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, accessories)
}

// Create adds a product, creating its category when needed
// POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.AddProduct(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, AddProductResponse{Message: "Product added successfully", Product: product})
}

// Update shallow-merges the request body onto a product. Unknown
// products are left alone.
// PUT /api/products/:category/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.BindError(c, err)
		return
	}

	if _, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("category"), id, patch); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Product updated successfully")
}

// Delete removes a product from its category
// DELETE /api/products/:category/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.productService.DeleteProduct(c.Request.Context(), c.Param("category"), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Product deleted successfully")
}

// Categories lists every category with its display title
// GET /api/categories
func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.productService.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// AllAccessories returns the accessory table
// GET /api/accessories
func (h *ProductHandler) AllAccessories(c *gin.Context) {
	c.JSON(http.StatusOK, h.productService.Accessories())
}

// RegisterRoutes mounts the catalog endpoints
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.List)
	products.POST("", h.Create)
	products.GET("/:category", h.ListCategory)
	products.GET("/:category/:id", h.Get)
	products.PUT("/:category/:id", h.Update)
	products.DELETE("/:category/:id", h.Delete)
	products.GET("/:category/:id/accessories", h.Accessories)

	rg.GET("/categories", h.Categories)
	rg.GET("/accessories", h.AllAccessories)
}
