package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kasir-api/internal/application/service"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}

// Connect opens the printer link. A declined connection is reported in the
// status, not as an error.
func (h *PrinterHandler) Connect(c *gin.Context) {
	status, err := h.printerService.Connect(c.Request.Context())
	if err != nil {
		response.OK(c, "Printer connection failed", gin.H{"status": status, "warning": err.Error()})
		return
	}
	response.OK(c, "Printer connection updated", gin.H{"status": status})
}

func (h *PrinterHandler) Disconnect(c *gin.Context) {
	status, err := h.printerService.Disconnect(c.Request.Context())
	if err != nil {
		response.OK(c, "Printer disconnected with errors", gin.H{"status": status, "warning": err.Error()})
		return
	}
	response.OK(c, "Printer disconnected", gin.H{"status": status})
}

// TestPrint prints a sample receipt through the fallback chain.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	response.OK(c, "Test print completed", h.printerService.TestPrint(c.Request.Context()))
}
