package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sangkips/salon-checkout/internal/domain/repository"
)

// MaintenanceService periodically clears abandoned checkouts and expired idempotency keys
type MaintenanceService struct {
	sessions    repository.CheckoutSessionRepository
	idempotency repository.IdempotencyRepository
	sessionTTL  time.Duration
	now         func() time.Time
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	sessions repository.CheckoutSessionRepository,
	idempotency repository.IdempotencyRepository,
	sessionTTL time.Duration,
) *MaintenanceService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &MaintenanceService{
		sessions:    sessions,
		idempotency: idempotency,
		sessionTTL:  sessionTTL,
		now:         time.Now,
	}
}

// Sweep runs one cleanup pass. Both steps run even if the first one fails.
func (s *MaintenanceService) Sweep(ctx context.Context) (sessions, keys int64, err error) {
	sessions, sessErr := s.sessions.DeleteStale(ctx, s.now().Add(-s.sessionTTL))
	if sessErr != nil {
		slog.Error("failed to delete stale checkouts", "error", sessErr)
		err = sessErr
	}

	keys, keyErr := s.idempotency.DeleteExpired(ctx)
	if keyErr != nil {
		slog.Error("failed to delete expired idempotency keys", "error", keyErr)
		if err == nil {
			err = keyErr
		}
	}

	if sessions > 0 || keys > 0 {
		slog.Info("maintenance sweep", "stale_checkouts", sessions, "expired_keys", keys)
	}
	return sessions, keys, err
}

// Run sweeps every interval until ctx is done
func (s *MaintenanceService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _, _ = s.Sweep(ctx)
		}
	}
}
