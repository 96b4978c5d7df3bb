package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

const (
	// CashierIDKey is the context key for the authenticated cashier
	CashierIDKey ctxKey = "cashier_id"
	// SkipCashierScopeKey is the context key for skipping the cashier scope (supervisors)
	SkipCashierScopeKey ctxKey = "skip_cashier_scope"
)

// CashierScope returns a GORM scope that limits checkout sessions to the cashier in ctx.
// Supervisors (SkipCashierScopeKey set) see every session.
func CashierScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if skipScope, ok := ctx.Value(SkipCashierScopeKey).(bool); ok && skipScope {
			return db
		}

		cashierID, ok := ctx.Value(CashierIDKey).(uuid.UUID)
		if !ok || cashierID == uuid.Nil {
			// No cashier in context: match nothing
			return db.Where("1 = 0")
		}
		return db.Where("cashier_id = ?", cashierID)
	}
}

// WithSkipCashierScope adds the skip flag to context (for supervisors)
func WithSkipCashierScope(ctx context.Context, skip bool) context.Context {
	return context.WithValue(ctx, SkipCashierScopeKey, skip)
}

// WithCashier adds the cashier ID to context
func WithCashier(ctx context.Context, cashierID uuid.UUID) context.Context {
	return context.WithValue(ctx, CashierIDKey, cashierID)
}

// GetCashierID extracts the cashier ID from context
func GetCashierID(ctx context.Context) (uuid.UUID, bool) {
	cashierID, ok := ctx.Value(CashierIDKey).(uuid.UUID)
	return cashierID, ok
}
