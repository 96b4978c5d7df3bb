// Package tasks runs receipt printing in the background with asynq, so a slow or jammed
// printer never holds up a settled checkout.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sangkips/salon-checkout/internal/config"
	"github.com/sangkips/salon-checkout/pkg/apperror"
)

// TypeReceiptPrint prints the receipt of a settled invoice
const TypeReceiptPrint = "receipt:print"

const queueReceipts = "receipts"

// ReceiptPayload is the payload of a TypeReceiptPrint task
type ReceiptPayload struct {
	InvoiceID string `json:"invoice_id"`
	Cashier   string `json:"cashier,omitempty"`
}

// NewReceiptTask builds a print task for invoiceID
func NewReceiptTask(invoiceID, cashier string) (*asynq.Task, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, errors.New("receipt task needs an invoice id")
	}
	payload, err := json.Marshal(ReceiptPayload{InvoiceID: invoiceID, Cashier: cashier})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReceiptPrint, payload, asynq.Queue(queueReceipts), asynq.MaxRetry(5), asynq.Timeout(time.Minute)), nil
}

// RedisOpt converts the Redis settings into asynq connection options
func RedisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// ReceiptQueue enqueues print jobs
type ReceiptQueue struct {
	client *asynq.Client
}

func NewReceiptQueue(opt asynq.RedisClientOpt) *ReceiptQueue {
	return &ReceiptQueue{client: asynq.NewClient(opt)}
}

// EnqueueReceipt schedules the receipt of invoiceID for printing
func (q *ReceiptQueue) EnqueueReceipt(ctx context.Context, invoiceID, cashier string) error {
	task, err := NewReceiptTask(invoiceID, cashier)
	if err != nil {
		return err
	}
	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueueing receipt for invoice %s: %w", invoiceID, err)
	}
	slog.Info("receipt print queued", "invoice_id", invoiceID, "task_id", info.ID)
	return nil
}

func (q *ReceiptQueue) Close() error {
	return q.client.Close()
}

// DisabledReceiptQueue is used when Redis is not configured: receipts are not printed
// automatically and can still be printed on demand.
type DisabledReceiptQueue struct{}

func (DisabledReceiptQueue) EnqueueReceipt(_ context.Context, invoiceID, _ string) error {
	slog.Info("receipt queue disabled, skipping automatic print", "invoice_id", invoiceID)
	return nil
}

// ReceiptPrinter prints the receipt of an invoice fetched from the salon backend
type ReceiptPrinter interface {
	PrintInvoiceReceipt(ctx context.Context, invoiceID, cashier string) error
}

// Processor handles background tasks
type Processor struct {
	printer ReceiptPrinter
}

func NewProcessor(printer ReceiptPrinter) *Processor {
	return &Processor{printer: printer}
}

// HandleReceiptPrint prints one receipt. Bad payloads and invoices the backend does not
// know are not retried.
func (p *Processor) HandleReceiptPrint(ctx context.Context, t *asynq.Task) error {
	var payload ReceiptPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal receipt payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.InvoiceID == "" {
		return fmt.Errorf("receipt payload without invoice id: %w", asynq.SkipRetry)
	}

	if err := p.printer.PrintInvoiceReceipt(ctx, payload.InvoiceID, payload.Cashier); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusNotFound {
			return fmt.Errorf("invoice %s not found: %w", payload.InvoiceID, asynq.SkipRetry)
		}
		return err
	}

	slog.Info("receipt printed", "invoice_id", payload.InvoiceID)
	return nil
}

// NewServer builds the worker server and its mux. The caller runs it.
func NewServer(opt asynq.RedisClientOpt, processor *Processor) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 1, // one printer, one job at a time
		Queues:      map[string]int{queueReceipts: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			slog.Error("task failed", "type", task.Type(), "payload", string(task.Payload()), "error", err)
		}),
		Logger: newSlogAdapter(),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReceiptPrint, processor.HandleReceiptPrint)
	return srv, mux
}

// slogAdapter routes asynq's internal logging through slog
type slogAdapter struct {
	log *slog.Logger
}

func newSlogAdapter() *slogAdapter {
	return &slogAdapter{log: slog.Default().With("component", "asynq")}
}

func (a *slogAdapter) Debug(args ...interface{}) { a.log.Debug(fmt.Sprint(args...)) }
func (a *slogAdapter) Info(args ...interface{})  { a.log.Info(fmt.Sprint(args...)) }
func (a *slogAdapter) Warn(args ...interface{})  { a.log.Warn(fmt.Sprint(args...)) }
func (a *slogAdapter) Error(args ...interface{}) { a.log.Error(fmt.Sprint(args...)) }
func (a *slogAdapter) Fatal(args ...interface{}) { a.log.Error(fmt.Sprint(args...)) }
