package request

// PrintReceiptRequest is the optional body for reprinting an invoice receipt. Cashier
// defaults to the name in the caller's token.
type PrintReceiptRequest struct {
	Cashier string `json:"cashier" binding:"omitempty,max=100"`
}
