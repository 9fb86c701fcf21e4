package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kasir-api/internal/application/service"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/request"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/response"
	"github.com/sangkips/kasir-api/pkg/money"
)

// CartHandler edits the session cart
type CartHandler struct {
	formatter *money.Formatter
}

func NewCartHandler(formatter *money.Formatter) *CartHandler {
	return &CartHandler{formatter: formatter}
}

func (h *CartHandler) render(c *gin.Context, message string, session *service.Session) {
	response.OK(c, message, response.NewCart(session.Cart.Items(), h.formatter.Format))
}

func (h *CartHandler) Get(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	h.render(c, "Cart retrieved", session)
}

// AddItem adds a product, merging with an existing line for the same product
// @Summary Add to cart
// @Tags cart
// @Accept json
// @Produce json
// @Param request body request.AddCartItemRequest true "Item"
// @Success 200 {object} response.APIResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var req request.AddCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := session.AddToCart(req.ProductID, req.Qty(), req.FinalPrice); err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, "Item added", session)
}

// UpdateItem sets a line's quantity and price override. A quantity of zero
// or less removes the line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var req request.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	session.Cart.SetQuantity(c.Param("product_id"), req.Quantity, req.FinalPrice)
	h.render(c, "Cart updated", session)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	session.Cart.Remove(c.Param("product_id"))
	h.render(c, "Item removed", session)
}

func (h *CartHandler) Clear(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	session.Cart.Clear()
	h.render(c, "Cart cleared", session)
}
