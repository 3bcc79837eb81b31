package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"courier-backend/internal/model"
	"courier-backend/internal/testutil"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newParcel(email string) *model.Parcel {
	return model.NewParcel(map[string]any{
		"sender": map[string]any{"user_email": email},
		"title":  "Books",
	})
}

func TestParcelRepository_CreateListFind(t *testing.T) {
	ctx := context.Background()
	repo := NewParcelRepository(testutil.NewDB(t))

	first := newParcel("a@x.com")
	second := newParcel("b@x.com")
	third := newParcel("a@x.com")
	for _, p := range []*model.Parcel{first, second, third} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}
		if !model.ValidID(p.ID) {
			t.Fatalf("expected generated id, got %q", p.ID)
		}
	}

	all, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 parcels, got %d", len(all))
	}

	mine, err := repo.List(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != first.ID || mine[1].ID != third.ID {
		t.Fatalf("expected parcels of a@x.com in insertion order, got %+v", mine)
	}

	got, err := repo.FindByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Details["title"] != "Books" {
		t.Fatalf("expected details to round-trip, got %v", got.Details)
	}
	if got.Sender["user_email"] != "b@x.com" {
		t.Fatalf("expected sender to round-trip, got %v", got.Sender)
	}
}

func TestParcelRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewParcelRepository(testutil.NewDB(t))

	p := newParcel("a@x.com")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, p.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on second delete, got %v", err)
	}
	if _, err := repo.FindByID(ctx, p.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound after delete, got %v", err)
	}
}

func TestParcelRepository_MarkPaid(t *testing.T) {
	ctx := context.Background()
	repo := NewParcelRepository(testutil.NewDB(t))

	p := newParcel("a@x.com")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	paidAt := time.Now()
	modified, err := repo.MarkPaid(ctx, p.ID, "pi_1", paidAt)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if !modified {
		t.Fatal("expected first MarkPaid to modify the parcel")
	}

	modified, err = repo.MarkPaid(ctx, p.ID, "pi_2", time.Now())
	if err != nil {
		t.Fatalf("mark paid again: %v", err)
	}
	if modified {
		t.Fatal("expected already-paid parcel to stay unmodified")
	}

	got, err := repo.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.PaymentStatus != model.PaymentStatusPaid {
		t.Fatalf("expected paid, got %q", got.PaymentStatus)
	}
	if got.PaymentIntentID == nil || *got.PaymentIntentID != "pi_1" {
		t.Fatalf("payment intent must be set once, got %v", got.PaymentIntentID)
	}
	if got.PaidAt == nil {
		t.Fatal("expected paidAt to be set")
	}

	_, err = repo.MarkPaid(ctx, "3f2c1a9e-0000-4000-8000-000000000001", "pi_3", time.Now())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for missing parcel, got %v", err)
	}
}

func TestParcelRepository_SaveDetectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	repo := NewParcelRepository(testutil.NewDB(t))

	p := newParcel("a@x.com")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	stale, err := repo.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	fresh, err := repo.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	fresh.Merge(map[string]any{"deliveryStatus": "in_transit"})
	if err := repo.Save(ctx, fresh); err != nil {
		t.Fatalf("save: %v", err)
	}

	stale.Merge(map[string]any{"deliveryStatus": "delivered"})
	if err := repo.Save(ctx, stale); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	got, err := repo.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.DeliveryStatus != "in_transit" {
		t.Fatalf("expected in_transit, got %q", got.DeliveryStatus)
	}
}

func TestPaymentRepository_UniqueIntent(t *testing.T) {
	ctx := context.Background()
	repo := NewPaymentRepository(testutil.NewDB(t))

	payment := &model.Payment{
		PaymentIntentID: "pi_1",
		ParcelID:        "3f2c1a9e-0000-4000-8000-000000000001",
		Amount:          decimal.RequireFromString("12.50"),
		Currency:        "usd",
		Email:           "a@x.com",
	}
	if err := repo.Create(ctx, payment); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := *payment
	dup.ID = ""
	if err := repo.Create(ctx, &dup); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}

	payments, err := repo.ListByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("expected exactly one payment, got %d", len(payments))
	}
	if !payments[0].Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected amount %s", payments[0].Amount)
	}
}

func TestPaymentRepository_ListOrphans(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	parcels := NewParcelRepository(db)
	payments := NewPaymentRepository(db)

	p := newParcel("a@x.com")
	if err := parcels.Create(ctx, p); err != nil {
		t.Fatalf("create parcel: %v", err)
	}

	linked := &model.Payment{PaymentIntentID: "pi_linked", ParcelID: p.ID, Amount: decimal.NewFromInt(5), Currency: "usd", Email: "a@x.com"}
	orphan := &model.Payment{PaymentIntentID: "pi_orphan", ParcelID: "3f2c1a9e-0000-4000-8000-000000000009", Amount: decimal.NewFromInt(7), Currency: "usd", Email: "a@x.com"}
	for _, pay := range []*model.Payment{linked, orphan} {
		if err := payments.Create(ctx, pay); err != nil {
			t.Fatalf("create payment: %v", err)
		}
	}
	if _, err := parcels.MarkPaid(ctx, p.ID, "pi_linked", time.Now()); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	orphans, err := payments.ListOrphans(ctx)
	if err != nil {
		t.Fatalf("list orphans: %v", err)
	}
	if len(orphans) != 1 || orphans[0].PaymentIntentID != "pi_orphan" {
		t.Fatalf("expected only pi_orphan, got %+v", orphans)
	}
	if orphans[0].ID != orphan.ID {
		t.Fatalf("expected payment id %s, got %s", orphan.ID, orphans[0].ID)
	}
}

func TestRiderRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewRiderRepository(testutil.NewDB(t))

	rider := model.NewRider(map[string]any{"name": "Rahim"})
	if err := repo.Create(ctx, rider); err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := repo.UpdateStatus(ctx, rider.ID, model.RiderStatusActive)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 modified, got %d (%v)", n, err)
	}
	n, err = repo.UpdateStatus(ctx, rider.ID, model.RiderStatusActive)
	if err != nil || n != 0 {
		t.Fatalf("expected 0 modified on repeat, got %d (%v)", n, err)
	}

	_, err = repo.UpdateStatus(ctx, "3f2c1a9e-0000-4000-8000-000000000001", model.RiderStatusActive)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	pending, err := repo.List(ctx, model.RiderStatusPending)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending riders, got %d", len(pending))
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)

	if err := repo.Create(ctx, &model.User{Email: "a@x.com", Name: "First", Role: model.DefaultUserRole}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repo.Create(ctx, &model.User{Email: "a@x.com", Name: "Second", Role: "admin"})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}

	var got model.User
	if err := db.Where("email = ?", "a@x.com").First(&got).Error; err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Name != "First" || got.Role != model.DefaultUserRole {
		t.Fatalf("existing user must not be overwritten, got %+v", got)
	}
}

func TestListKeepsInsertionOrderWhenTimestampsTie(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	parcels := NewParcelRepository(db)
	riders := NewRiderRepository(db)
	payments := NewPaymentRepository(db)
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	const n = 20
	var parcelIDs, riderIDs, paymentIDs []string
	for i := 0; i < n; i++ {
		p := newParcel("a@x.com")
		p.CreatedAt = stamp
		if err := parcels.Create(ctx, p); err != nil {
			t.Fatalf("create parcel: %v", err)
		}
		parcelIDs = append(parcelIDs, p.ID)

		r := model.NewRider(map[string]any{"name": "Rider"})
		r.CreatedAt = stamp
		if err := riders.Create(ctx, r); err != nil {
			t.Fatalf("create rider: %v", err)
		}
		riderIDs = append(riderIDs, r.ID)

		pay := &model.Payment{
			PaymentIntentID: "pi_" + p.ID,
			ParcelID:        p.ID,
			Amount:          decimal.NewFromInt(1),
			Currency:        "usd",
			Email:           "a@x.com",
			CreatedAt:       stamp,
		}
		if err := payments.Create(ctx, pay); err != nil {
			t.Fatalf("create payment: %v", err)
		}
		paymentIDs = append(paymentIDs, pay.ID)
	}

	gotParcels, err := parcels.List(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("list parcels: %v", err)
	}
	gotRiders, err := riders.List(ctx, "")
	if err != nil {
		t.Fatalf("list riders: %v", err)
	}
	gotPayments, err := payments.ListByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(gotParcels) != n || len(gotRiders) != n || len(gotPayments) != n {
		t.Fatalf("expected %d of each, got %d %d %d", n, len(gotParcels), len(gotRiders), len(gotPayments))
	}

	for i := 0; i < n; i++ {
		if gotParcels[i].ID != parcelIDs[i] {
			t.Errorf("parcel %d: expected %s, got %s", i, parcelIDs[i], gotParcels[i].ID)
		}
		if gotRiders[i].ID != riderIDs[i] {
			t.Errorf("rider %d: expected %s, got %s", i, riderIDs[i], gotRiders[i].ID)
		}
		if gotPayments[i].ID != paymentIDs[n-1-i] {
			t.Errorf("payment %d: expected newest first %s, got %s", i, paymentIDs[n-1-i], gotPayments[i].ID)
		}
	}
}
