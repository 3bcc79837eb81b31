package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"courier-backend/internal/apperr"
	"courier-backend/internal/model"
	"courier-backend/internal/repository"

	"gorm.io/gorm"
)

const maxParcelUpdateAttempts = 3

type ParcelService interface {
	Create(ctx context.Context, doc map[string]any) (string, error)
	List(ctx context.Context, senderEmail string) ([]*model.Parcel, error)
	Get(ctx context.Context, id string) (*model.Parcel, error)
	Delete(ctx context.Context, id string) error
	Update(ctx context.Context, id string, fields map[string]any) (*model.Parcel, error)
}

type parcelServiceImpl struct {
	logger     *slog.Logger
	parcelRepo repository.ParcelRepository
}

func NewParcelService(
	logger *slog.Logger,
	parcelRepo repository.ParcelRepository,
) ParcelService {
	return &parcelServiceImpl{
		logger:     logger,
		parcelRepo: parcelRepo,
	}
}

func (s *parcelServiceImpl) Create(ctx context.Context, doc map[string]any) (string, error) {
	parcel := model.NewParcel(doc)
	if err := s.parcelRepo.Create(ctx, parcel); err != nil {
		return "", apperr.Internal("Failed to create parcel", err)
	}

	s.logger.InfoContext(ctx, "parcel created", "parcelId", parcel.ID, "sender", parcel.SenderEmail)
	return parcel.ID, nil
}

func (s *parcelServiceImpl) List(ctx context.Context, senderEmail string) ([]*model.Parcel, error) {
	parcels, err := s.parcelRepo.List(ctx, senderEmail)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch parcels", err)
	}
	return parcels, nil
}

func (s *parcelServiceImpl) Get(ctx context.Context, id string) (*model.Parcel, error) {
	if !model.ValidID(id) {
		return nil, apperr.Validation("Invalid parcel ID")
	}

	parcel, err := s.parcelRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Parcel not found")
		}
		return nil, apperr.Internal("Failed to fetch parcel", err)
	}

	return parcel, nil
}

// Delete cancels a parcel unconditionally; no ownership check is made here.
func (s *parcelServiceImpl) Delete(ctx context.Context, id string) error {
	if !model.ValidID(id) {
		return apperr.Validation("Invalid parcel ID")
	}

	if err := s.parcelRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Parcel not found")
		}
		return apperr.Internal("Failed to delete parcel", err)
	}

	s.logger.InfoContext(ctx, "parcel cancelled", "parcelId", id)
	return nil
}

// Update applies a partial update of delivery and shipment fields. Payment
// fields belong to the payment coordinator and are refused.
func (s *parcelServiceImpl) Update(ctx context.Context, id string, fields map[string]any) (*model.Parcel, error) {
	if !model.ValidID(id) {
		return nil, apperr.Validation("Invalid parcel ID")
	}
	for _, key := range model.ParcelPaymentKeys {
		if _, ok := fields[key]; ok {
			return nil, apperr.Validation(fmt.Sprintf("%s cannot be updated directly", key))
		}
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("No fields to update")
	}

	for attempt := 1; ; attempt++ {
		parcel, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		parcel.Merge(fields)
		err = s.parcelRepo.Save(ctx, parcel)
		if err == nil {
			return parcel, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperr.Internal("Failed to update parcel", err)
		}
		if attempt == maxParcelUpdateAttempts {
			return nil, apperr.Conflict("Parcel is being modified, retry later", err)
		}
		// the parcel may have been deleted or modified in between; reload
	}
}
