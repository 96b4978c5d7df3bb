package salonapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/samber/lo"
	"github.com/sangkips/salon-checkout/internal/domain/checkout"
)

// CreateInvoice settles a new sale.
func (c *Client) CreateInvoice(ctx context.Context, sub *checkout.Submission) (*Invoice, error) {
	var invoice Invoice
	if err := c.do(ctx, http.MethodPost, "invoices", nil, newInvoiceRequest(sub), &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// UpdateInvoice replaces the detail, payments and deposits of an existing invoice.
// Deposits listed in RestoredDeposits get their balance back.
func (c *Client) UpdateInvoice(ctx context.Context, id string, sub *checkout.Submission) (*Invoice, error) {
	var invoice Invoice
	if err := c.do(ctx, http.MethodPut, "invoices/"+url.PathEscape(id), nil, newInvoiceRequest(sub), &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (c *Client) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	var invoice Invoice
	if err := c.do(ctx, http.MethodGet, "invoices/"+url.PathEscape(id), nil, nil, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CreateOrder holds the cart as a pending order. No payment is sent.
func (c *Client) CreateOrder(ctx context.Context, sub *checkout.Submission) (*Order, error) {
	req := newInvoiceRequest(sub)
	req.Payments = nil
	req.Deposits = nil
	req.RestoredDeposits = nil
	req.Change = 0

	var order Order
	if err := c.do(ctx, http.MethodPost, "orders", nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func newInvoiceRequest(sub *checkout.Submission) invoiceRequest {
	return invoiceRequest{
		ClientID: sub.ClientID,
		Lines: lo.Map(sub.Lines, func(l checkout.CartLine, _ int) InvoiceLine {
			return InvoiceLine{
				Kind:                 l.Kind,
				ItemID:               l.ItemID,
				Name:                 l.Name,
				Quantity:             l.Quantity,
				UnitPrice:            l.UnitPrice,
				Discount:             l.Discount,
				StaffID:              l.StaffID,
				UseCollaboratorPrice: l.UseCollaboratorPrice,
				CollaboratorPrice:    l.CollaboratorPrice,
				Total:                l.Total(),
			}
		}),
		GeneralDiscount: sub.Totals.Discount,
		DiscountID:      sub.DiscountID,
		TaxEnabled:      sub.TaxEnabled,
		Subtotal:        sub.Totals.Subtotal,
		Tax:             sub.Totals.Tax,
		Total:           sub.Totals.Total,
		Notes:           sub.Notes,
		Payments: lo.Map(sub.Merged.Payments, func(p checkout.PaymentEntry, _ int) InvoicePayment {
			return InvoicePayment{MethodID: p.MethodID, Amount: p.Amount, Reference: p.Reference}
		}),
		Deposits:         toInvoiceDeposits(sub.Merged.Deposits),
		RestoredDeposits: toInvoiceDeposits(sub.Merged.RestoredDeposits),
		Change:           sub.Change,
	}
}

func toInvoiceDeposits(entries []checkout.DepositEntry) []InvoiceDeposit {
	if len(entries) == 0 {
		return nil
	}
	return lo.Map(entries, func(d checkout.DepositEntry, _ int) InvoiceDeposit {
		return InvoiceDeposit{DepositID: d.DepositID, Amount: d.Amount}
	})
}
