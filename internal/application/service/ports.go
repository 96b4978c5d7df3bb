package service

import (
	"context"

	"github.com/sangkips/salon-checkout/internal/domain/checkout"
	"github.com/sangkips/salon-checkout/internal/infrastructure/salonapi"
)

// CatalogBackend reads the active catalog from the salon backend
type CatalogBackend interface {
	ListServices(ctx context.Context) ([]salonapi.ServiceCategory, error)
	ListProducts(ctx context.Context) ([]salonapi.Product, error)
	ListSpecialists(ctx context.Context) ([]salonapi.Specialist, error)
	ListDiscounts(ctx context.Context) ([]salonapi.Discount, error)
	ListPaymentMethods(ctx context.Context) ([]salonapi.PaymentMethod, error)
}

// ClientBackend reads and creates salon clients and their deposits
type ClientBackend interface {
	SearchClients(ctx context.Context, query string) ([]salonapi.Client, error)
	GetClient(ctx context.Context, id string) (*salonapi.Client, error)
	CreateClient(ctx context.Context, input salonapi.ClientInput) (*salonapi.Client, error)
	ClientDeposits(ctx context.Context, clientID string) (*salonapi.DepositBalance, error)
}

// InvoiceBackend settles, updates, fetches and holds invoices
type InvoiceBackend interface {
	CreateInvoice(ctx context.Context, sub *checkout.Submission) (*salonapi.Invoice, error)
	UpdateInvoice(ctx context.Context, id string, sub *checkout.Submission) (*salonapi.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*salonapi.Invoice, error)
	CreateOrder(ctx context.Context, sub *checkout.Submission) (*salonapi.Order, error)
}

// SalonBackend is the whole salon REST API as the services use it
type SalonBackend interface {
	CatalogBackend
	ClientBackend
	InvoiceBackend
}

// ReceiptEnqueuer schedules a receipt for background printing
type ReceiptEnqueuer interface {
	EnqueueReceipt(ctx context.Context, invoiceID, cashier string) error
}

// SubmissionRecorder records submission metrics
type SubmissionRecorder interface {
	ObserveSubmission(mode, outcome string)
	ObserveSettled(mode string, total int64)
	ObserveBackendFailure(operation string)
}
