package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-checkout/internal/application/service"
	"github.com/sangkips/salon-checkout/internal/domain/checkout"
	"github.com/sangkips/salon-checkout/internal/domain/enum"
	"github.com/sangkips/salon-checkout/internal/domain/repository"
	"github.com/sangkips/salon-checkout/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-checkout/internal/presentation/http/dto/response"
	"github.com/sangkips/salon-checkout/pkg/pagination"
)

// CheckoutHandler handles POS checkout HTTP requests
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Open handles starting a new checkout
func (h *CheckoutHandler) Open(c *gin.Context) {
	var req request.OpenCheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.checkoutService.Open(c.Request.Context(), req.ClientID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Checkout opened", view)
}

// OpenFromInvoice handles loading a settled invoice for editing
func (h *CheckoutHandler) OpenFromInvoice(c *gin.Context) {
	view, err := h.checkoutService.OpenFromInvoice(c.Request.Context(), c.Param("invoice_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice opened for editing", view)
}

// List handles listing open checkouts. Supervisors see every cashier's checkouts.
func (h *CheckoutHandler) List(c *gin.Context) {
	var filter request.SessionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SessionFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		ClientID:   filter.ClientID,
		Editing:    filter.Editing,
	}

	result, err := h.checkoutService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Checkouts retrieved successfully", result)
}

// Get handles retrieving a checkout with fresh totals
func (h *CheckoutHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	view, err := h.checkoutService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Checkout retrieved successfully", view)
}

// Discard handles dropping an open checkout
func (h *CheckoutHandler) Discard(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.checkoutService.Discard(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SetClient handles selecting the client
func (h *CheckoutHandler) SetClient(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req request.SetClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	h.respond(c, "Client updated")(h.checkoutService.SetClient(c.Request.Context(), id, req.ClientID))
}

// UpdateHeader handles changes to the general discount, tax flag and notes
func (h *CheckoutHandler) UpdateHeader(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateHeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	h.respond(c, "Checkout updated")(h.checkoutService.UpdateHeader(c.Request.Context(), id, service.HeaderInput{
		GeneralDiscount: req.GeneralDiscount.Int64(),
		DiscountID:      req.DiscountID,
		TaxEnabled:      req.TaxEnabled,
		Notes:           req.Notes,
	}))
}

// AddLine handles adding a catalog item
func (h *CheckoutHandler) AddLine(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req request.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	view, err := h.checkoutService.AddLine(c.Request.Context(), id, service.LineInput{
		Kind:                 enum.LineKind(req.Kind),
		ItemID:               req.ItemID,
		Quantity:             req.Quantity,
		Discount:             int64(req.Discount),
		StaffID:              req.StaffID,
		UseCollaboratorPrice: req.UseCollaboratorPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Line added", view)
}

// UpdateLine handles changes to a cart line
func (h *CheckoutHandler) UpdateLine(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	lineID, ok := pathUUID(c, "line_id")
	if !ok {
		return
	}

	var req request.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	h.respond(c, "Line updated")(h.checkoutService.UpdateLine(c.Request.Context(), id, lineID, checkout.LineUpdate{
		Quantity:             req.Quantity,
		Discount:             req.Discount.Int64(),
		StaffID:              req.StaffID,
		UseCollaboratorPrice: req.UseCollaboratorPrice,
	}))
}

// RemoveLine handles removing a cart line
func (h *CheckoutHandler) RemoveLine(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	lineID, ok := pathUUID(c, "line_id")
	if !ok {
		return
	}

	h.respond(c, "Line removed")(h.checkoutService.RemoveLine(c.Request.Context(), id, lineID))
}

// ToggleDeposit handles applying or removing a client deposit
func (h *CheckoutHandler) ToggleDeposit(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	h.respond(c, "Deposit toggled")(h.checkoutService.ToggleDeposit(c.Request.Context(), id, c.Param("deposit_id")))
}

// AutoApplyDeposits handles covering the balance with the client's deposits
func (h *CheckoutHandler) AutoApplyDeposits(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	h.respond(c, "Deposits applied")(h.checkoutService.AutoApplyDeposits(c.Request.Context(), id))
}

// AddPayment handles adding a tender line
func (h *CheckoutHandler) AddPayment(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req request.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	view, err := h.checkoutService.AddPayment(c.Request.Context(), id, service.PaymentInput{
		MethodID:  req.MethodID,
		Amount:    int64(req.Amount),
		Reference: req.Reference,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment added", view)
}

// UpdatePayment handles changes to a tender line
func (h *CheckoutHandler) UpdatePayment(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := pathUUID(c, "payment_id")
	if !ok {
		return
	}

	var req request.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	h.respond(c, "Payment updated")(h.checkoutService.UpdatePayment(c.Request.Context(), id, paymentID, service.PaymentPatch{
		MethodID:  req.MethodID,
		Amount:    req.Amount.Int64(),
		Reference: req.Reference,
	}))
}

// RemovePayment handles removing a tender line
func (h *CheckoutHandler) RemovePayment(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := pathUUID(c, "payment_id")
	if !ok {
		return
	}

	h.respond(c, "Payment removed")(h.checkoutService.RemovePayment(c.Request.Context(), id, paymentID))
}

// EditPreviousPayment handles correcting a payment the edited invoice already carried
func (h *CheckoutHandler) EditPreviousPayment(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req request.EditPreviousPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	h.respond(c, "Previous payment updated")(h.checkoutService.EditPreviousPayment(c.Request.Context(), id, c.Param("payment_id"), int64(req.Amount)))
}

// RemovePreviousPayment handles dropping a payment from the edited invoice
func (h *CheckoutHandler) RemovePreviousPayment(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	h.respond(c, "Previous payment removed")(h.checkoutService.RemovePreviousPayment(c.Request.Context(), id, c.Param("payment_id")))
}

// RemovePreviousDeposit handles dropping a deposit from the edited invoice
func (h *CheckoutHandler) RemovePreviousDeposit(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	h.respond(c, "Previous deposit removed")(h.checkoutService.RemovePreviousDeposit(c.Request.Context(), id, c.Param("deposit_id")))
}

// Submit handles settling the checkout with the salon backend
func (h *CheckoutHandler) Submit(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.checkoutService.Submit(c.Request.Context(), id, GetCashierName(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Mode == checkout.SubmitModeUpdate {
		response.OK(c, "Invoice updated successfully", result)
		return
	}
	response.Created(c, "Invoice created successfully", result)
}

// Hold handles storing the cart as an order awaiting payment
func (h *CheckoutHandler) Hold(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.checkoutService.Hold(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order held successfully", result)
}

// respond writes a checkout view or the error that replaced it
func (h *CheckoutHandler) respond(c *gin.Context, message string) func(*service.CheckoutView, error) {
	return func(view *service.CheckoutView, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, message, view)
	}
}
