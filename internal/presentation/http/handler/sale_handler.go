package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kasir-api/internal/application/service"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/request"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/response"
	"github.com/sangkips/kasir-api/internal/presentation/http/middleware"
	"github.com/sangkips/kasir-api/pkg/apperror"
)

// SaleHandler commits sales and serves receipt history
type SaleHandler struct {
	printer *service.PrinterService
}

func NewSaleHandler(printer *service.PrinterService) *SaleHandler {
	return &SaleHandler{printer: printer}
}

func cashierName(c *gin.Context, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return middleware.Username(c)
}

// Checkout commits the session cart. An empty cart answers 200 with a null
// receipt. The cart is cleared only when the sale was stored.
// @Summary Checkout
// @Tags sales
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replay protection key"
// @Param request body request.CheckoutRequest false "Payment"
// @Success 200 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /checkout [post]
func (h *SaleHandler) Checkout(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var req request.CheckoutRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	receipt, err := session.Checkout(ctx, req.PaymentMethod, req.Discount)
	if err != nil {
		response.Error(c, err)
		return
	}
	if receipt == nil {
		response.OK(c, "Cart is empty", response.Checkout{})
		return
	}

	out := response.Checkout{Receipt: receipt}
	if req.Print {
		out.Print = h.printer.Print(ctx, receipt, cashierName(c, ""))
	}
	response.Created(c, "Transaction completed", out)
}

// CreateManual records a hand-entered sale under the manual invoice sequence
func (h *SaleHandler) CreateManual(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var req request.ManualReceiptRequest
	if !bindJSON(c, &req) {
		return
	}

	items, missing := req.ToCartItems(session.Catalog.Product)
	if missing != "" {
		response.Error(c, apperror.NewNotFoundError("Product "+missing))
		return
	}

	receipt, err := session.RecordManualReceipt(c.Request.Context(), items, req.Discount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Manual receipt recorded", receipt)
}

// ListReceipts returns receipt history, newest first
func (h *SaleHandler) ListReceipts(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	params, ok := pageParams(c)
	if !ok {
		return
	}

	receipts, total, err := session.Receipts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Receipts retrieved", receipts, params, total)
}

func (h *SaleHandler) GetReceipt(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	receipt, err := session.Receipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved", receipt)
}

// PrintReceipt prints a stored receipt through the printer fallback chain.
// Printer trouble never fails the request; the result says how it printed.
func (h *SaleHandler) PrintReceipt(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var req request.PrintReceiptRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.printer.PrintReceipt(c.Request.Context(), session, c.Param("id"), cashierName(c, req.Cashier))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt printed", result)
}
