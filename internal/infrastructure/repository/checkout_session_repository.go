package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-checkout/internal/domain/entity"
	"github.com/sangkips/salon-checkout/internal/domain/enum"
	domainRepo "github.com/sangkips/salon-checkout/internal/domain/repository"
	"gorm.io/gorm"
)

type checkoutSessionRepository struct {
	db *gorm.DB
}

// NewCheckoutSessionRepository creates a new checkout session repository
func NewCheckoutSessionRepository(db *gorm.DB) domainRepo.CheckoutSessionRepository {
	return &checkoutSessionRepository{db: db}
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *checkoutSessionRepository) Create(ctx context.Context, session *entity.CheckoutSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines", "Payments", "Deposits").Create(session).Error; err != nil {
			return err
		}
		return createChildren(tx, session)
	})
}

func (r *checkoutSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CheckoutSession, error) {
	var session entity.CheckoutSession
	err := r.db.WithContext(ctx).
		Scopes(CashierScope(ctx)).
		Preload("Lines", orderByPosition).
		Preload("Payments", orderByPosition).
		Preload("Deposits", orderByPosition).
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *checkoutSessionRepository) GetOpenByInvoice(ctx context.Context, invoiceID string) (*entity.CheckoutSession, error) {
	var session entity.CheckoutSession
	err := r.db.WithContext(ctx).
		Scopes(CashierScope(ctx)).
		Where("editing_invoice_id = ? AND phase IN ?", invoiceID, openPhases()).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

// Save writes the session columns and replaces its children, provided the row is still in
// phase from. Child ids are kept, so line and payment ids stay stable across saves.
func (r *checkoutSessionRepository) Save(ctx context.Context, session *entity.CheckoutSession, from enum.CheckoutPhase) (bool, error) {
	saved := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(session).
			Scopes(CashierScope(ctx)).
			Where("phase = ?", from).
			Select("*").
			Omit("ID", "CashierID", "CreatedAt", "DeletedAt", "Lines", "Payments", "Deposits").
			Updates(session)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		saved = true

		for _, model := range []interface{}{&entity.SessionLine{}, &entity.SessionPayment{}, &entity.SessionDeposit{}} {
			if err := tx.Where("session_id = ?", session.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return createChildren(tx, session)
	})
	if err != nil {
		return false, err
	}
	return saved, nil
}

func createChildren(tx *gorm.DB, session *entity.CheckoutSession) error {
	for i := range session.Lines {
		session.Lines[i].SessionID = session.ID
		session.Lines[i].Position = i
	}
	for i := range session.Payments {
		session.Payments[i].SessionID = session.ID
		session.Payments[i].Position = i
	}
	for i := range session.Deposits {
		session.Deposits[i].SessionID = session.ID
		session.Deposits[i].Position = i
	}

	if len(session.Lines) > 0 {
		if err := tx.Create(&session.Lines).Error; err != nil {
			return err
		}
	}
	if len(session.Payments) > 0 {
		if err := tx.Create(&session.Payments).Error; err != nil {
			return err
		}
	}
	if len(session.Deposits) > 0 {
		if err := tx.Create(&session.Deposits).Error; err != nil {
			return err
		}
	}
	return nil
}

// UpdatePhase is a compare-and-set on the phase column. It reports false when another
// request moved the session first.
func (r *checkoutSessionRepository) UpdatePhase(ctx context.Context, id uuid.UUID, from, to enum.CheckoutPhase) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.CheckoutSession{}).
		Scopes(CashierScope(ctx)).
		Where("id = ? AND phase = ?", id, from).
		Update("phase", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *checkoutSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(CashierScope(ctx)).
		Delete(&entity.CheckoutSession{}, "id = ?", id).Error
}

func (r *checkoutSessionRepository) ListOpen(ctx context.Context, params *domainRepo.SessionFilterParams) ([]entity.CheckoutSession, int64, error) {
	var sessions []entity.CheckoutSession
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CheckoutSession{}).
		Scopes(CashierScope(ctx)).
		Where("phase IN ?", openPhases())

	if params.ClientID != "" {
		query = query.Where("client_id = ?", params.ClientID)
	}
	if params.Editing != nil {
		if *params.Editing {
			query = query.Where("editing_invoice_id <> ''")
		} else {
			query = query.Where("editing_invoice_id = ''")
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("updated_at DESC").
		Find(&sessions).Error

	return sessions, total, err
}

// DeleteStale runs outside any cashier scope and also sweeps sessions stuck in Submitting.
func (r *checkoutSessionRepository) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	phases := append(openPhases(), enum.CheckoutPhaseSubmitting)
	result := r.db.WithContext(ctx).
		Where("updated_at < ? AND phase IN ?", before, phases).
		Delete(&entity.CheckoutSession{})
	return result.RowsAffected, result.Error
}

func openPhases() []enum.CheckoutPhase {
	return []enum.CheckoutPhase{enum.CheckoutPhaseCreating, enum.CheckoutPhaseEditing, enum.CheckoutPhaseFailed}
}
