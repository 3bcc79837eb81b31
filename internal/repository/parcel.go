package repository

import (
	"context"
	"errors"
	"time"

	"courier-backend/internal/model"

	"gorm.io/gorm"
)

// ErrVersionConflict is returned when a parcel changed between read and write.
var ErrVersionConflict = errors.New("parcel modified concurrently")

type ParcelRepository interface {
	Create(ctx context.Context, parcel *model.Parcel) error
	List(ctx context.Context, senderEmail string) ([]*model.Parcel, error)
	FindByID(ctx context.Context, id string) (*model.Parcel, error)
	Delete(ctx context.Context, id string) error
	Save(ctx context.Context, parcel *model.Parcel) error
	MarkPaid(ctx context.Context, id, paymentIntentID string, paidAt time.Time) (bool, error)
}

type parcelRepoImpl struct {
	db *gorm.DB
}

func NewParcelRepository(db *gorm.DB) ParcelRepository {
	return &parcelRepoImpl{
		db: db,
	}
}

func (r *parcelRepoImpl) Create(ctx context.Context, parcel *model.Parcel) error {
	return r.db.WithContext(ctx).Create(parcel).Error
}

func (r *parcelRepoImpl) List(ctx context.Context, senderEmail string) ([]*model.Parcel, error) {
	var parcels []*model.Parcel

	query := r.db.WithContext(ctx).Order("id")
	if senderEmail != "" {
		query = query.Where("sender_email = ?", senderEmail)
	}

	if err := query.Find(&parcels).Error; err != nil {
		return nil, err
	}

	return parcels, nil
}

func (r *parcelRepoImpl) FindByID(ctx context.Context, id string) (*model.Parcel, error) {
	var parcel model.Parcel
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&parcel).Error

	if err != nil {
		return nil, err
	}

	return &parcel, nil
}

func (r *parcelRepoImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Parcel{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Save writes the non-payment fields of parcel if its Version still matches
// the stored one, then bumps Version.
func (r *parcelRepoImpl) Save(ctx context.Context, parcel *model.Parcel) error {
	prev := parcel.Version
	parcel.Version = prev + 1
	parcel.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(parcel).
		Where("version = ?", prev).
		Select("sender", "sender_email", "details", "delivery_status", "version", "updated_at").
		Updates(parcel)

	if result.Error != nil {
		parcel.Version = prev
		return result.Error
	}
	if result.RowsAffected == 0 {
		parcel.Version = prev
		return ErrVersionConflict
	}

	return nil
}

// MarkPaid flips an unpaid parcel to paid in one conditional update. It
// returns false when the parcel exists but was already paid, and
// gorm.ErrRecordNotFound when no parcel has this id.
func (r *parcelRepoImpl) MarkPaid(ctx context.Context, id, paymentIntentID string, paidAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Parcel{}).
		Where("id = ? AND payment_status <> ?", id, model.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"payment_status":    model.PaymentStatusPaid,
			"paid_at":           paidAt,
			"payment_intent_id": paymentIntentID,
			"version":           gorm.Expr("version + 1"),
			"updated_at":        paidAt,
		})

	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	exists, err := r.exists(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, gorm.ErrRecordNotFound
	}

	return false, nil
}

func (r *parcelRepoImpl) exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Parcel{}).
		Where("id = ?", id).
		Count(&count).Error

	return count > 0, err
}
