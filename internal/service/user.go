package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"courier-backend/internal/apperr"
	"courier-backend/internal/dto"
	"courier-backend/internal/model"
	"courier-backend/internal/repository"

	"gorm.io/gorm"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterUserRequest) (string, error)
}

type userServiceImpl struct {
	logger   *slog.Logger
	userRepo repository.UserRepository
}

func NewUserService(
	logger *slog.Logger,
	userRepo repository.UserRepository,
) UserService {
	return &userServiceImpl{
		logger:   logger,
		userRepo: userRepo,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterUserRequest) (string, error) {
	now := time.Now()
	user := &model.User{
		Email:        strings.TrimSpace(req.Email),
		Name:         req.Name,
		Role:         valueOrDefault(req.Role, model.DefaultUserRole),
		CreatedAt:    now,
		LastLoggedIn: &now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", apperr.Conflict("User already exists", err)
		}
		return "", apperr.Internal("Failed to register user", err)
	}

	return user.ID, nil
}
