package salonapi

import (
	"time"

	"github.com/sangkips/salon-checkout/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Money fields on every type below are integers in the currency's minor unit.

// Service is a bookable salon service
type Service struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	CategoryID        string `json:"category_id"`
	CategoryName      string `json:"category_name"`
	Price             int64  `json:"price"`
	CollaboratorPrice *int64 `json:"collaborator_price,omitempty"`
	DurationMinutes   int    `json:"duration_minutes,omitempty"`
}

// ServiceCategory groups active services for the catalog picker
type ServiceCategory struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Services []Service `json:"services"`
}

// Product is a retail item sold at the front desk
type Product struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	SKU               string `json:"sku,omitempty"`
	Price             int64  `json:"price"`
	CollaboratorPrice *int64 `json:"collaborator_price,omitempty"`
	Stock             int64  `json:"stock"`
}

// Specialist is a staff member a line can be assigned to
type Specialist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Discount is a discount definition. Value is a whole percent for percent discounts and a
// minor-unit amount for fixed ones.
type Discount struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Kind  enum.DiscountKind `json:"kind"`
	Value decimal.Decimal   `json:"value"`
}

// PaymentMethod is an active tender type
type PaymentMethod struct {
	ID                string `json:"id"`
	Code              string `json:"code"`
	Name              string `json:"name"`
	RequiresReference bool   `json:"requires_reference"`
}

// Client is a salon customer. Collaborator clients may buy at collaborator prices.
type Client struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"`
	Document     string `json:"document,omitempty"`
	Email        string `json:"email,omitempty"`
	Collaborator bool   `json:"collaborator"`
}

// ClientInput creates a client from the checkout screen
type ClientInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Document string `json:"document,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Deposit is a client's prepaid balance ("abono")
type Deposit struct {
	ID        string    `json:"id"`
	Amount    int64     `json:"amount"`
	Available int64     `json:"available"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DepositBalance is a client's deposits with their combined available balance
type DepositBalance struct {
	Deposits       []Deposit `json:"deposits"`
	TotalAvailable int64     `json:"total_available"`
}

// InvoiceLine is a detail line of a settled invoice
type InvoiceLine struct {
	Kind                 enum.LineKind `json:"kind"`
	ItemID               string        `json:"item_id"`
	Name                 string        `json:"name"`
	Quantity             int64         `json:"quantity"`
	UnitPrice            int64         `json:"unit_price"`
	Discount             int64         `json:"discount"`
	StaffID              string        `json:"staff_id,omitempty"`
	StaffName            string        `json:"staff_name,omitempty"`
	UseCollaboratorPrice bool          `json:"use_collaborator_price"`
	CollaboratorPrice    *int64        `json:"collaborator_price,omitempty"`
	Total                int64         `json:"total"`
}

// InvoicePayment is a payment recorded on an invoice
type InvoicePayment struct {
	ID         string `json:"id"`
	MethodID   string `json:"method_id"`
	MethodName string `json:"method_name"`
	Amount     int64  `json:"amount"`
	Reference  string `json:"reference,omitempty"`
}

// InvoiceDeposit is a deposit amount consumed by an invoice
type InvoiceDeposit struct {
	DepositID string `json:"deposit_id"`
	Amount    int64  `json:"amount"`
}

// Invoice is a settled sale as the backend stores it
type Invoice struct {
	ID              string           `json:"id"`
	Number          string           `json:"number"`
	ClientID        string           `json:"client_id"`
	ClientName      string           `json:"client_name"`
	CashierName     string           `json:"cashier_name,omitempty"`
	IssuedAt        time.Time        `json:"issued_at"`
	Lines           []InvoiceLine    `json:"lines"`
	Subtotal        int64            `json:"subtotal"`
	GeneralDiscount int64            `json:"general_discount"`
	DiscountID      string           `json:"discount_id,omitempty"`
	TaxEnabled      bool             `json:"tax_enabled"`
	Tax             int64            `json:"tax"`
	Total           int64            `json:"total"`
	Payments        []InvoicePayment `json:"payments"`
	Deposits        []InvoiceDeposit `json:"deposits"`
	Change          int64            `json:"change"`
	Notes           string           `json:"notes,omitempty"`
}

// Order is a held cart: an invoice awaiting payment
type Order struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Total  int64  `json:"total"`
}

// invoiceRequest is the body of create, update and order calls
type invoiceRequest struct {
	ClientID         string           `json:"client_id"`
	Lines            []InvoiceLine    `json:"lines"`
	GeneralDiscount  int64            `json:"general_discount"`
	DiscountID       string           `json:"discount_id,omitempty"`
	TaxEnabled       bool             `json:"tax_enabled"`
	Subtotal         int64            `json:"subtotal"`
	Tax              int64            `json:"tax"`
	Total            int64            `json:"total"`
	Notes            string           `json:"notes,omitempty"`
	Payments         []InvoicePayment `json:"payments,omitempty"`
	Deposits         []InvoiceDeposit `json:"deposits,omitempty"`
	RestoredDeposits []InvoiceDeposit `json:"restored_deposits,omitempty"`
	Change           int64            `json:"change,omitempty"`
}
