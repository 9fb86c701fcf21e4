package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kasir-api/internal/application/service"
	"github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/request"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/response"
)

// AdminHandler serves the admin capability check and the stock
// reconciliation report.
type AdminHandler struct {
	verifier service.AdminVerifier
	report   repository.ReconciliationLog
}

func NewAdminHandler(verifier service.AdminVerifier, report repository.ReconciliationLog) *AdminHandler {
	return &AdminHandler{verifier: verifier, report: report}
}

// Verify checks the admin password entered at the till
// @Summary Verify admin password
// @Tags admin
// @Accept json
// @Produce json
// @Param request body request.AdminVerifyRequest true "Admin password"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /admin/verify [post]
func (h *AdminHandler) Verify(c *gin.Context) {
	var req request.AdminVerifyRequest
	if !bindJSON(c, &req) {
		return
	}
	if !h.verifier.Verify(req.Password) {
		response.Forbidden(c, "Invalid admin password")
		return
	}
	response.OK(c, "Admin verified", gin.H{"verified": true})
}

// Reconciliation lists unresolved stock drifts across all stores
func (h *AdminHandler) Reconciliation(c *gin.Context) {
	params, ok := pageParams(c)
	if !ok {
		return
	}
	drifts, total, err := h.report.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Stock drifts retrieved", drifts, params, total)
}
