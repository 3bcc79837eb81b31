package service

import (
	"context"
	"errors"
	"log/slog"

	"courier-backend/internal/apperr"
	"courier-backend/internal/model"
	"courier-backend/internal/repository"

	"gorm.io/gorm"
)

type RiderService interface {
	Register(ctx context.Context, doc map[string]any) (string, error)
	List(ctx context.Context, status string) ([]*model.Rider, error)
	Approve(ctx context.Context, id, status string) (int64, error)
	Reject(ctx context.Context, id string) error
}

type riderServiceImpl struct {
	logger    *slog.Logger
	riderRepo repository.RiderRepository
}

func NewRiderService(
	logger *slog.Logger,
	riderRepo repository.RiderRepository,
) RiderService {
	return &riderServiceImpl{
		logger:    logger,
		riderRepo: riderRepo,
	}
}

// Register stores a rider application as pending whatever status was sent.
func (s *riderServiceImpl) Register(ctx context.Context, doc map[string]any) (string, error) {
	rider := model.NewRider(doc)
	if err := s.riderRepo.Create(ctx, rider); err != nil {
		return "", apperr.Internal("Failed to register rider", err)
	}

	s.logger.InfoContext(ctx, "rider application received", "riderId", rider.ID)
	return rider.ID, nil
}

func (s *riderServiceImpl) List(ctx context.Context, status string) ([]*model.Rider, error) {
	riders, err := s.riderRepo.List(ctx, status)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch riders", err)
	}
	return riders, nil
}

// Approve sets the rider status (active by default) and returns how many
// riders changed: 0 means it already had that status.
func (s *riderServiceImpl) Approve(ctx context.Context, id, status string) (int64, error) {
	if !model.ValidID(id) {
		return 0, apperr.Validation("Invalid rider ID")
	}
	if status == "" {
		status = model.RiderStatusActive
	}

	modified, err := s.riderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperr.NotFound("Rider not found")
		}
		return 0, apperr.Internal("Failed to update rider", err)
	}

	if modified > 0 {
		s.logger.InfoContext(ctx, "rider status changed", "riderId", id, "status", status)
	}
	return modified, nil
}

// Reject removes the application entirely.
func (s *riderServiceImpl) Reject(ctx context.Context, id string) error {
	if !model.ValidID(id) {
		return apperr.Validation("Invalid rider ID")
	}

	if err := s.riderRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Rider not found")
		}
		return apperr.Internal("Failed to delete rider", err)
	}

	s.logger.InfoContext(ctx, "rider rejected", "riderId", id)
	return nil
}
