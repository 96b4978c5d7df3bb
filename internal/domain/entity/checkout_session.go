package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-checkout/internal/domain/enum"
	"gorm.io/gorm"
)

// CheckoutSession persists one in-progress POS transaction so the screen can reload
// without losing the cart. Money columns hold minor units.
type CheckoutSession struct {
	ID               uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	CashierID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"cashier_id"`
	Phase            enum.CheckoutPhase `gorm:"default:0;index" json:"phase"`
	ClientID         string             `gorm:"size:64;index" json:"client_id,omitempty"`
	ClientName       string             `gorm:"size:255" json:"client_name,omitempty"`
	Collaborator     bool               `gorm:"default:false" json:"collaborator"`
	GeneralDiscount  int64              `gorm:"default:0" json:"general_discount"`
	DiscountID       string             `gorm:"size:64" json:"discount_id,omitempty"`
	TaxEnabled       bool               `gorm:"default:false" json:"tax_enabled"`
	Notes            string             `gorm:"type:text" json:"notes,omitempty"`
	EditingInvoiceID string             `gorm:"size:64;index" json:"editing_invoice_id,omitempty"`
	OriginalSubtotal int64              `gorm:"default:0" json:"original_subtotal"`
	OriginalDiscount int64              `gorm:"default:0" json:"original_discount"`
	OriginalTax      int64              `gorm:"default:0" json:"original_tax"`
	OriginalTotal    int64              `gorm:"default:0" json:"original_total"`
	CartChanged      bool               `gorm:"default:false" json:"cart_changed"`
	PaymentsManual   bool               `gorm:"default:false" json:"payments_manual"`
	SeededDue        int64              `gorm:"default:0" json:"-"`
	Subtotal         int64              `gorm:"default:0" json:"subtotal"`
	Discount         int64              `gorm:"default:0" json:"discount"`
	Tax              int64              `gorm:"default:0" json:"tax"`
	Total            int64              `gorm:"default:0" json:"total"`
	Outstanding      int64              `gorm:"default:0" json:"outstanding"`
	LastError        string             `gorm:"type:text" json:"last_error,omitempty"`
	InvoiceID        string             `gorm:"size:64" json:"invoice_id,omitempty"` // Set once the backend accepted the invoice
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	DeletedAt        gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Lines    []SessionLine    `gorm:"foreignKey:SessionID" json:"lines"`
	Payments []SessionPayment `gorm:"foreignKey:SessionID" json:"payments"`
	Deposits []SessionDeposit `gorm:"foreignKey:SessionID" json:"deposits"`
}

// BeforeCreate generates a UUID before creating a new session
func (s *CheckoutSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CheckoutSession model
func (CheckoutSession) TableName() string {
	return "checkout_sessions"
}

// IsEditing reports whether the session edits an invoice the backend already settled
func (s *CheckoutSession) IsEditing() bool {
	return s.EditingInvoiceID != ""
}

// SessionLine is a cart line of a checkout session
type SessionLine struct {
	ID                   uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	SessionID            uuid.UUID     `gorm:"type:uuid;not null;index" json:"-"`
	Position             int           `gorm:"not null" json:"-"`
	Kind                 enum.LineKind `gorm:"size:20;not null" json:"kind"`
	ItemID               string        `gorm:"size:64;not null" json:"item_id"`
	Name                 string        `gorm:"size:255" json:"name"`
	Quantity             int64         `gorm:"not null" json:"quantity"`
	UnitPrice            int64         `gorm:"not null" json:"unit_price"`
	Discount             int64         `gorm:"default:0" json:"discount"`
	StaffID              string        `gorm:"size:64" json:"staff_id,omitempty"`
	UseCollaboratorPrice bool          `gorm:"default:false" json:"use_collaborator_price"`
	CollaboratorPrice    *int64        `json:"collaborator_price,omitempty"`
}

// BeforeCreate generates a UUID before creating a new line
func (l *SessionLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SessionLine model
func (SessionLine) TableName() string {
	return "checkout_session_lines"
}

// SessionPayment is either a new payment line or, for edit sessions, a payment the
// invoice already carried (Previous).
type SessionPayment struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SessionID         uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position          int       `gorm:"not null" json:"-"`
	MethodID          string    `gorm:"size:64;not null" json:"method_id"`
	MethodName        string    `gorm:"size:100" json:"method_name"`
	RequiresReference bool      `gorm:"default:false" json:"requires_reference"`
	Amount            int64     `gorm:"not null" json:"amount"`
	Reference         string    `gorm:"size:100" json:"reference,omitempty"`
	IsDefault         bool      `gorm:"default:false" json:"is_default"`
	Previous          bool      `gorm:"default:false;index" json:"previous"`
	RemoteID          string    `gorm:"size:64" json:"remote_id,omitempty"` // Backend payment id of a previous payment
	Removed           bool      `gorm:"default:false" json:"removed"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *SessionPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SessionPayment model
func (SessionPayment) TableName() string {
	return "checkout_session_payments"
}

// SessionDeposit is a client deposit known to the session: offered, applied, or carried
// over from the invoice being edited.
type SessionDeposit struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	SessionID uuid.UUID         `gorm:"type:uuid;not null;index" json:"-"`
	Position  int               `gorm:"not null" json:"-"`
	State     enum.DepositState `gorm:"default:0;index" json:"state"`
	DepositID string            `gorm:"size:64;not null" json:"deposit_id"`
	Amount    int64             `gorm:"default:0" json:"amount"`
	Available int64             `gorm:"default:0" json:"available"`
	Note      string            `gorm:"size:255" json:"note,omitempty"`
	Removed   bool              `gorm:"default:false" json:"removed"`
	DepositAt *time.Time        `json:"deposit_at,omitempty"`
}

// BeforeCreate generates a UUID before creating a new deposit row
func (d *SessionDeposit) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SessionDeposit model
func (SessionDeposit) TableName() string {
	return "checkout_session_deposits"
}
