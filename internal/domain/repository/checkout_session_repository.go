package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-checkout/internal/domain/entity"
	"github.com/sangkips/salon-checkout/internal/domain/enum"
	"github.com/sangkips/salon-checkout/pkg/pagination"
)

// CheckoutSessionRepository defines the interface for checkout session persistence.
// Lookups return nil, nil when the session does not exist.
type CheckoutSessionRepository interface {
	Create(ctx context.Context, session *entity.CheckoutSession) error
	// GetByID loads a session with its lines, payments and deposits
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CheckoutSession, error)
	// GetOpenByInvoice finds an open session already editing the given backend invoice
	GetOpenByInvoice(ctx context.Context, invoiceID string) (*entity.CheckoutSession, error)
	// Save updates the session row and replaces all of its children in one transaction,
	// only if the stored phase is still from. It reports false when nothing was written.
	Save(ctx context.Context, session *entity.CheckoutSession, from enum.CheckoutPhase) (bool, error)
	// UpdatePhase moves the session to phase only if it is still in from
	UpdatePhase(ctx context.Context, id uuid.UUID, from, to enum.CheckoutPhase) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListOpen(ctx context.Context, params *SessionFilterParams) ([]entity.CheckoutSession, int64, error)
	// DeleteStale soft-deletes sessions of every cashier not touched since before
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

// SessionFilterParams contains filtering parameters for session listings
type SessionFilterParams struct {
	Pagination *pagination.PaginationParams
	ClientID   string
	Editing    *bool
}
