package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-checkout/internal/application/service"
	"github.com/sangkips/salon-checkout/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-checkout/internal/presentation/http/dto/response"
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

// PrintReceipt reprints the receipt of a settled invoice.
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	var req request.PrintReceiptRequest
	if !bindJSON(c, &req) {
		return
	}
	cashier := req.Cashier
	if cashier == "" {
		cashier = GetCashierName(c)
	}

	receipt, err := h.printerService.PrintReceipt(c.Request.Context(), c.Param("invoice_id"), cashier)
	if err != nil {
		// The receipt was built but the printer failed: the screen can still show it
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
	})
}
