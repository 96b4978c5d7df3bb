package entity

// ReceiptHeader holds the salon header printed at the top of a receipt.
type ReceiptHeader struct {
	SalonName string `json:"salon_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single service or product line on a receipt.
type ReceiptItem struct {
	Name      string `json:"name"`
	Staff     string `json:"staff,omitempty"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Discount  int64  `json:"discount,omitempty"`
	Total     int64  `json:"total"`
}

// ReceiptPayment is one tender printed on the receipt.
type ReceiptPayment struct {
	Method    string `json:"method"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference,omitempty"`
}

// Receipt is a value object representing a printable receipt.
// It is not a database entity, it is composed from a backend invoice at print time.
// Amounts are minor units; Locale drives thousands separators.
type Receipt struct {
	Header    ReceiptHeader    `json:"header"`
	InvoiceNo string           `json:"invoice_no"`
	Date      string           `json:"date"`
	Cashier   string           `json:"cashier,omitempty"`
	Client    string           `json:"client,omitempty"`
	Locale    string           `json:"locale"`
	Items     []ReceiptItem    `json:"items"`
	Subtotal  int64            `json:"subtotal"`
	Discount  int64            `json:"discount"`
	Tax       int64            `json:"tax"`
	Total     int64            `json:"total"`
	Payments  []ReceiptPayment `json:"payments"`
	Deposits  int64            `json:"deposits"`
	Change    int64            `json:"change"`
	Notes     string           `json:"notes,omitempty"`
}
