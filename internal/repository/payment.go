package repository

import (
	"context"

	"courier-backend/internal/model"

	"gorm.io/gorm"
)

// PaymentRepository is the append-only payment ledger. There is no update or
// delete; the unique index on payment_intent_id is the idempotency guard.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	ListByEmail(ctx context.Context, email string) ([]*model.Payment, error)
	FindByIntentID(ctx context.Context, paymentIntentID string) (*model.Payment, error)
	ListOrphans(ctx context.Context) ([]*model.Payment, error)
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

// Create returns gorm.ErrDuplicatedKey when the intent id is already recorded.
func (r *paymentRepoImpl) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepoImpl) ListByEmail(ctx context.Context, email string) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("id DESC").
		Find(&payments).
		Error

	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepoImpl) FindByIntentID(ctx context.Context, paymentIntentID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("payment_intent_id = ?", paymentIntentID).
		First(&payment).Error

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// ListOrphans returns payments no parcel points back to.
func (r *paymentRepoImpl) ListOrphans(ctx context.Context) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Select("payments.*").
		Joins("LEFT JOIN parcels ON parcels.payment_intent_id = payments.payment_intent_id").
		Where("parcels.id IS NULL").
		Order("payments.id").
		Find(&payments).
		Error

	if err != nil {
		return nil, err
	}

	return payments, nil
}
