package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/sangkips/salon-checkout/internal/config"
	"github.com/sangkips/salon-checkout/internal/domain/entity"
	"github.com/sangkips/salon-checkout/internal/infrastructure/salonapi"
	"github.com/sangkips/salon-checkout/pkg/money"
	"github.com/sangkips/salon-checkout/pkg/printer"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer  printer.Printer
	invoices InvoiceBackend
	header   entity.ReceiptHeader
	locale   string
	width    int
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	invoices InvoiceBackend,
	receipt *config.ReceiptConfig,
	printerCfg *config.PrinterConfig,
	locale string,
) *PrinterService {
	return &PrinterService{
		printer:  p,
		invoices: invoices,
		header: entity.ReceiptHeader{
			SalonName: receipt.SalonName,
			Address:   receipt.Address,
			Phone:     receipt.Phone,
			TaxID:     receipt.TaxID,
		},
		locale: locale,
		width:  printerCfg.Width,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	kind := s.printer.Kind()
	return &PrinterStatus{
		Configured: kind != "none",
		Connected:  s.printer.IsConnected(),
		Type:       kind,
	}
}

// PrintReceipt fetches an invoice from the salon backend and prints its receipt. The receipt
// is returned even when printing fails so the screen can show it.
func (s *PrinterService) PrintReceipt(ctx context.Context, invoiceID, cashier string) (*entity.Receipt, error) {
	inv, err := s.invoices.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	receipt := s.BuildReceipt(inv, cashier)
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		slog.Error("printer error", "invoice_id", invoiceID, "printer", s.printer.Kind(), "error", err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	slog.Info("receipt printed", "invoice_id", invoiceID, "printer", s.printer.Kind())
	return receipt, nil
}

// PrintInvoiceReceipt is the receipt job entry point.
func (s *PrinterService) PrintInvoiceReceipt(ctx context.Context, invoiceID, cashier string) error {
	_, err := s.PrintReceipt(ctx, invoiceID, cashier)
	return err
}

// BuildReceipt composes a printable receipt from a backend invoice.
func (s *PrinterService) BuildReceipt(inv *salonapi.Invoice, cashier string) *entity.Receipt {
	issued := inv.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}
	if cashier == "" {
		cashier = inv.CashierName
	}

	receipt := &entity.Receipt{
		Header:    s.header,
		InvoiceNo: inv.Number,
		Date:      issued.Format("2006-01-02 15:04"),
		Cashier:   cashier,
		Client:    inv.ClientName,
		Locale:    s.locale,
		Subtotal:  inv.Subtotal,
		Discount:  inv.GeneralDiscount,
		Tax:       inv.Tax,
		Total:     inv.Total,
		Deposits:  lo.SumBy(inv.Deposits, func(d salonapi.InvoiceDeposit) int64 { return d.Amount }),
		Change:    inv.Change,
		Notes:     inv.Notes,
	}
	if receipt.InvoiceNo == "" {
		receipt.InvoiceNo = inv.ID
	}

	for _, l := range inv.Lines {
		unit := l.UnitPrice
		if l.UseCollaboratorPrice && l.CollaboratorPrice != nil {
			unit = *l.CollaboratorPrice
		}
		total := l.Total
		if total == 0 {
			total = money.ClampZero(l.Quantity*unit - l.Discount)
		}
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      l.Name,
			Staff:     l.StaffName,
			Quantity:  l.Quantity,
			UnitPrice: unit,
			Discount:  l.Discount,
			Total:     total,
		})
	}

	for _, p := range inv.Payments {
		receipt.Payments = append(receipt.Payments, entity.ReceiptPayment{
			Method:    p.MethodName,
			Amount:    p.Amount,
			Reference: p.Reference,
		})
	}

	return receipt
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)
	amount := func(v int64) string { return money.FormatLocale(v, r.Locale) }

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.SalonName).
		SetFontSize(printer.FontNormal).
		SetBold(false).
		Text(r.Header.Address).
		Text(r.Header.Phone)
	if r.Header.TaxID != "" {
		doc.Text("NIT: " + r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Invoice:", r.InvoiceNo).
		KeyValue("Date:", r.Date)
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Client != "" {
		doc.KeyValue("Client:", r.Client)
	}
	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, amount(item.Total))
		if item.Quantity > 1 {
			doc.Text("  @ " + amount(item.UnitPrice))
		}
		if item.Discount > 0 {
			doc.Text("  Discount -" + amount(item.Discount))
		}
		if item.Staff != "" {
			doc.Text("  " + item.Staff)
		}
	}
	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", amount(r.Subtotal))
	if r.Discount > 0 {
		doc.KeyValue("Discount:", "-"+amount(r.Discount))
	}
	if r.Tax > 0 {
		doc.KeyValue("Tax:", amount(r.Tax))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", amount(r.Total)).
		SetBold(false)

	// Payments
	if len(r.Payments) > 0 || r.Deposits > 0 {
		doc.Separator('-')
	}
	for _, p := range r.Payments {
		doc.KeyValue(p.Method+":", amount(p.Amount))
		if p.Reference != "" {
			doc.Text("  Ref: " + p.Reference)
		}
	}
	if r.Deposits > 0 {
		doc.KeyValue("Deposits:", amount(r.Deposits))
	}
	if r.Change > 0 {
		doc.KeyValue("Change:", amount(r.Change))
	}

	if r.Notes != "" {
		doc.Separator('-').Text(r.Notes)
	}

	// Footer
	doc.SetAlign(printer.AlignCenter).
		FeedLines(1).
		Text("Thank you for your visit!").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
