package repository

import (
	"context"
	"time"

	"courier-backend/internal/model"

	"gorm.io/gorm"
)

type RiderRepository interface {
	Create(ctx context.Context, rider *model.Rider) error
	List(ctx context.Context, status string) ([]*model.Rider, error)
	UpdateStatus(ctx context.Context, id, status string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type riderRepoImpl struct {
	db *gorm.DB
}

func NewRiderRepository(db *gorm.DB) RiderRepository {
	return &riderRepoImpl{
		db: db,
	}
}

func (r *riderRepoImpl) Create(ctx context.Context, rider *model.Rider) error {
	return r.db.WithContext(ctx).Create(rider).Error
}

func (r *riderRepoImpl) List(ctx context.Context, status string) ([]*model.Rider, error) {
	var riders []*model.Rider

	query := r.db.WithContext(ctx).Order("id")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Find(&riders).Error; err != nil {
		return nil, err
	}

	return riders, nil
}

// UpdateStatus returns the number of riders modified: 0 when the rider
// already has status, 1 when it changed. Missing riders yield
// gorm.ErrRecordNotFound.
func (r *riderRepoImpl) UpdateStatus(ctx context.Context, id, status string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Rider{}).
		Where("id = ? AND status <> ?", id, status).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		return result.RowsAffected, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Rider{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	return 0, nil
}

func (r *riderRepoImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Rider{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
