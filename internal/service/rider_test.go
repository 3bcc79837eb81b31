package service

import (
	"context"
	"testing"

	"courier-backend/internal/apperr"
	"courier-backend/internal/dto"
	"courier-backend/internal/logging"
	"courier-backend/internal/model"
	"courier-backend/internal/repository"
	"courier-backend/internal/testutil"
)

func TestRiderService_Lifecycle(t *testing.T) {
	svc := NewRiderService(logging.Discard(), repository.NewRiderRepository(testutil.NewDB(t)))
	ctx := context.Background()

	id, err := svc.Register(ctx, map[string]any{"name": "Rahim", "status": "active"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	pending, err := svc.List(ctx, model.RiderStatusPending)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected one pending rider, got %d (%v)", len(pending), err)
	}

	modified, err := svc.Approve(ctx, id, "")
	if err != nil || modified != 1 {
		t.Fatalf("expected approval to modify one rider, got %d (%v)", modified, err)
	}
	modified, err = svc.Approve(ctx, id, model.RiderStatusActive)
	if err != nil || modified != 0 {
		t.Fatalf("expected repeat approval to modify nothing, got %d (%v)", modified, err)
	}

	active, err := svc.List(ctx, model.RiderStatusActive)
	if err != nil || len(active) != 1 {
		t.Fatalf("expected one active rider, got %d (%v)", len(active), err)
	}

	if err := svc.Reject(ctx, id); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := svc.Reject(ctx, id); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Approve(ctx, id, ""); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Approve(ctx, "abc", ""); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserService_Register(t *testing.T) {
	svc := NewUserService(logging.Discard(), repository.NewUserRepository(testutil.NewDB(t)))
	ctx := context.Background()

	id, err := svc.Register(ctx, &dto.RegisterUserRequest{Email: "a@x.com", Name: "A"})
	if err != nil || id == "" {
		t.Fatalf("expected user to be created, got %q (%v)", id, err)
	}

	_, err = svc.Register(ctx, &dto.RegisterUserRequest{Email: "a@x.com"})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
}
