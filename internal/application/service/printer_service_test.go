package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sangkips/salon-checkout/internal/application/service"
	"github.com/sangkips/salon-checkout/internal/config"
	"github.com/sangkips/salon-checkout/internal/domain/enum"
	"github.com/sangkips/salon-checkout/internal/infrastructure/salonapi"
	"github.com/sangkips/salon-checkout/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// capturePrinter keeps every job it receives
type capturePrinter struct {
	jobs [][]byte
	err  error
}

func (p *capturePrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *capturePrinter) Kind() string      { return "network" }
func (p *capturePrinter) IsConnected() bool { return p.err == nil }

func sampleInvoice() *salonapi.Invoice {
	return &salonapi.Invoice{
		ID:          "inv-1",
		Number:      "F-0001",
		ClientName:  "Ana",
		CashierName: "Front desk",
		IssuedAt:    time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Lines: []salonapi.InvoiceLine{
			{Kind: enum.LineKindService, Name: "Corte dama", Quantity: 1, UnitPrice: 50000, StaffName: "Laura", Total: 50000},
			{Kind: enum.LineKindProduct, Name: "Shampoo", Quantity: 2, UnitPrice: 20000, Discount: 5000},
			{Kind: enum.LineKindService, Name: "Color", Quantity: 1, UnitPrice: 30000, UseCollaboratorPrice: true, CollaboratorPrice: int64Ptr(25000), Total: 25000},
		},
		Subtotal:        110000,
		GeneralDiscount: 10000,
		Tax:             0,
		Total:           100000,
		Payments: []salonapi.InvoicePayment{
			{MethodName: "Efectivo", Amount: 50000},
			{MethodName: "Tarjeta", Amount: 20000, Reference: "AUTH-9"},
		},
		Deposits: []salonapi.InvoiceDeposit{{DepositID: "dep-1", Amount: 30000}},
		Notes:    "Vuelve en 6 semanas",
	}
}

func int64Ptr(v int64) *int64 { return &v }

func newPrinterService(p printer.Printer, backend *MockBackend) *service.PrinterService {
	return service.NewPrinterService(p, backend,
		&config.ReceiptConfig{SalonName: "Salon Bella", Address: "Calle 10 # 5-20", Phone: "3001234567", TaxID: "900123456-7"},
		&config.PrinterConfig{Type: "network", Width: 42},
		"es-CO",
	)
}

func TestBuildReceipt(t *testing.T) {
	svc := newPrinterService(&capturePrinter{}, new(MockBackend))

	r := svc.BuildReceipt(sampleInvoice(), "")

	assert.Equal(t, "F-0001", r.InvoiceNo)
	assert.Equal(t, "2026-03-14 10:30", r.Date)
	assert.Equal(t, "Front desk", r.Cashier)
	assert.Equal(t, "Salon Bella", r.Header.SalonName)
	require.Len(t, r.Items, 3)
	assert.Equal(t, int64(35000), r.Items[1].Total)
	assert.Equal(t, int64(25000), r.Items[2].UnitPrice)
	assert.Equal(t, int64(30000), r.Deposits)
	require.Len(t, r.Payments, 2)
	assert.Equal(t, "AUTH-9", r.Payments[1].Reference)

	inv := sampleInvoice()
	inv.Number = ""
	assert.Equal(t, "inv-1", svc.BuildReceipt(inv, "Laura").InvoiceNo)
	assert.Equal(t, "Laura", svc.BuildReceipt(inv, "Laura").Cashier)
}

func TestFormatReceipt(t *testing.T) {
	svc := newPrinterService(&capturePrinter{}, new(MockBackend))
	out := service.FormatReceipt(svc.BuildReceipt(sampleInvoice(), "Laura"), 42)

	for _, want := range []string{
		"Salon Bella",
		"NIT: 900123456-7",
		"F-0001",
		"Corte dama",
		"Laura",
		"  @ 20.000",
		"  Discount -5.000",
		"TOTAL:",
		"100.000",
		"Efectivo:",
		"  Ref: AUTH-9",
		"Deposits:",
		"30.000",
		"Vuelve en 6 semanas",
		"Thank you for your visit!",
	} {
		assert.True(t, bytes.Contains(out, []byte(want)), "receipt is missing %q", want)
	}
	assert.False(t, bytes.Contains(out, []byte("Change:")))
	assert.False(t, bytes.Contains(out, []byte("Tax:")))
}

func TestPrintReceipt(t *testing.T) {
	backend := new(MockBackend)
	backend.On("GetInvoice", mock.Anything, "inv-1").Return(sampleInvoice(), nil)

	p := &capturePrinter{}
	svc := newPrinterService(p, backend)

	require.NoError(t, svc.PrintInvoiceReceipt(context.Background(), "inv-1", "Laura"))
	require.Len(t, p.jobs, 1)
	assert.True(t, bytes.Contains(p.jobs[0], []byte("Corte dama")))
}

func TestPrintReceiptReturnsReceiptWhenPrinterFails(t *testing.T) {
	backend := new(MockBackend)
	backend.On("GetInvoice", mock.Anything, "inv-1").Return(sampleInvoice(), nil)

	svc := newPrinterService(&capturePrinter{err: errors.New("connection refused")}, backend)

	receipt, err := svc.PrintReceipt(context.Background(), "inv-1", "")
	require.Error(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, "F-0001", receipt.InvoiceNo)
	assert.False(t, svc.GetStatus().Connected)
}

func TestPrintReceiptUnknownInvoice(t *testing.T) {
	backend := new(MockBackend)
	backend.On("GetInvoice", mock.Anything, "missing").Return(nil, errors.New("invoice not found"))

	p := &capturePrinter{}
	svc := newPrinterService(p, backend)

	_, err := svc.PrintReceipt(context.Background(), "missing", "")
	require.Error(t, err)
	assert.Empty(t, p.jobs)
}

func TestPrinterStatus(t *testing.T) {
	status := newPrinterService(printer.NewNullPrinter(), new(MockBackend)).GetStatus()
	assert.False(t, status.Configured)
	assert.Equal(t, "none", status.Type)

	status = newPrinterService(&capturePrinter{}, new(MockBackend)).GetStatus()
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
}
