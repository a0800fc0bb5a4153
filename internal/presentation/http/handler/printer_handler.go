package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/investify-receipts/internal/application/service"
	"github.com/sangkips/investify-receipts/internal/presentation/http/dto/request"
	"github.com/sangkips/investify-receipts/internal/presentation/http/dto/response"
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
	status := h.printerService.GetStatus()
	response.OK(c, "Printer status retrieved", status)
}

// TestPrint prints a sample receipt.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	result := h.printerService.TestPrint(c.Request.Context())
	if !result.Succeeded() {
		response.BadGateway(c, "Test print failed", result)
		return
	}
	response.OK(c, "Test page sent to printer", result)
}

// PrintReceipt prints a sale or return receipt.
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	var req request.PrintReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.printerService.PrintReceipt(c.Request.Context(), req.ToEntity())
	if err != nil {
		response.Error(c, err)
		return
	}

	if !result.Succeeded() {
		response.BadGateway(c, "Receipt could not be printed", result)
		return
	}
	response.OK(c, "Receipt printed successfully", result)
}

// PreviewReceipt returns the formatted receipt without printing it.
func (h *PrinterHandler) PreviewReceipt(c *gin.Context) {
	var req request.PrintReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	preview, err := h.printerService.Preview(c.Request.Context(), req.ToEntity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt preview generated", preview)
}
