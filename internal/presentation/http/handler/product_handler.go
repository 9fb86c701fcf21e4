package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/request"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/response"
)

// ProductHandler serves the session's catalog
type ProductHandler struct{}

func NewProductHandler() *ProductHandler {
	return &ProductHandler{}
}

// List returns the cached catalog, loading it first if no load has succeeded yet
// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	if !session.Catalog.Loaded() {
		if err := session.Catalog.Load(c.Request.Context()); err != nil {
			response.Error(c, err)
			return
		}
	}
	response.OK(c, "Products retrieved", session.Catalog.Products())
}

// Reload refreshes the catalog from the data provider
func (h *ProductHandler) Reload(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	if err := session.Catalog.Load(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Products reloaded", session.Catalog.Products())
}

// Create adds a product to the catalog
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param request body request.CreateProductRequest true "Product"
// @Success 201 {object} response.APIResponse
// @Router /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var req request.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := session.CreateProduct(c.Request.Context(), req.ToNewProduct())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Product created", product)
}

// Update applies a partial update
func (h *ProductHandler) Update(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var req request.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	id := c.Param("id")
	if err := session.UpdateProduct(c.Request.Context(), id, req.ToPatch()); err != nil {
		response.Error(c, err)
		return
	}

	product, found := session.Catalog.Product(id)
	if !found {
		response.OK(c, "Product updated", nil)
		return
	}
	response.OK(c, "Product updated", product)
}
