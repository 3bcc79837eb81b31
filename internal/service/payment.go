package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"courier-backend/internal/apperr"
	"courier-backend/internal/client"
	"courier-backend/internal/dto"
	"courier-backend/internal/model"
	"courier-backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultCurrency      = "usd"
	DefaultPaymentMethod = "card"
	DefaultPaymentStatus = "succeeded"
)

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a major-unit amount to the gateway's integer
// representation: amount*100 rounded half away from zero. Currencies whose
// minor unit is not 1/100 are misconverted.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

type PaymentService interface {
	CreateIntent(ctx context.Context, req *dto.CreateIntentRequest) (*dto.CreateIntentResponse, error)
	RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*PaymentResult, error)
	ListForPrincipal(ctx context.Context, principal *model.Principal, userEmail string) ([]*model.Payment, error)
	ListOrphans(ctx context.Context) ([]*model.Payment, error)
}

type PaymentResult struct {
	PaymentID string
	Modified  bool // false when the parcel was already paid
}

type paymentServiceImpl struct {
	logger          *slog.Logger
	gateway         client.PaymentGateway
	defaultCurrency string
	parcelRepo      repository.ParcelRepository
	paymentRepo     repository.PaymentRepository
	now             func() time.Time
}

func NewPaymentService(
	logger *slog.Logger,
	gateway client.PaymentGateway,
	defaultCurrency string,
	parcelRepo repository.ParcelRepository,
	paymentRepo repository.PaymentRepository,
) PaymentService {
	if defaultCurrency == "" {
		defaultCurrency = DefaultCurrency
	}
	return &paymentServiceImpl{
		logger:          logger,
		gateway:         gateway,
		defaultCurrency: defaultCurrency,
		parcelRepo:      parcelRepo,
		paymentRepo:     paymentRepo,
		now:             time.Now,
	}
}

func (s *paymentServiceImpl) CreateIntent(ctx context.Context, req *dto.CreateIntentRequest) (*dto.CreateIntentResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, apperr.Validation("Amount must be greater than zero")
	}

	intent, err := s.gateway.CreateIntent(ctx, client.IntentParams{
		Amount:   ToMinorUnits(req.Amount),
		Currency: s.currency(req.Currency),
		ParcelID: req.ParcelID,
	})
	if err != nil {
		var gwErr *client.GatewayError
		if errors.As(err, &gwErr) {
			return nil, apperr.Upstream(gwErr.Message, err)
		}
		return nil, apperr.Upstream("Failed to create payment intent", err)
	}

	return &dto.CreateIntentResponse{
		ClientSecret: intent.ClientSecret,
		IntentID:     intent.ID,
	}, nil
}

// RecordPayment writes the ledger entry first and only then marks the parcel
// paid. The unique intent id makes a retried call fail before any parcel
// write, so each intent transitions a parcel at most once; the Conflict
// carries the id of the payment already recorded. If the parcel is
// gone the payment stays recorded and a NotFound carrying the paymentId is
// returned for manual reconciliation.
func (s *paymentServiceImpl) RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*PaymentResult, error) {
	if !model.ValidID(req.ParcelID) {
		return nil, apperr.Validation("Invalid parcel ID")
	}
	if strings.TrimSpace(req.PaymentIntentID) == "" {
		return nil, apperr.Validation("paymentIntentId is required")
	}
	if req.Amount.IsNegative() {
		return nil, apperr.Validation("Amount must not be negative")
	}

	// a client that disconnects must not leave the ledger and parcel half done
	ctx = context.WithoutCancel(ctx)

	payment := &model.Payment{
		PaymentIntentID: req.PaymentIntentID,
		ParcelID:        req.ParcelID,
		Amount:          req.Amount,
		Currency:        s.currency(req.Currency),
		Email:           req.Email,
		PaymentMethod:   valueOrDefault(req.PaymentMethod, DefaultPaymentMethod),
		Status:          valueOrDefault(req.Status, DefaultPaymentStatus),
		CreatedAt:       s.now(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.WarnContext(ctx, "duplicate payment submission", "paymentIntentId", req.PaymentIntentID)
			conflict := apperr.Conflict("Payment already recorded", err)
			if existing, findErr := s.paymentRepo.FindByIntentID(ctx, req.PaymentIntentID); findErr == nil {
				conflict.With("paymentId", existing.ID)
			}
			return nil, conflict
		}
		return nil, apperr.Internal("Failed to record payment", err)
	}

	modified, err := s.parcelRepo.MarkPaid(ctx, req.ParcelID, req.PaymentIntentID, payment.CreatedAt)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.ErrorContext(ctx, "orphan payment: parcel not found",
				"paymentId", payment.ID,
				"paymentIntentId", payment.PaymentIntentID,
				"parcelId", req.ParcelID,
			)
			return nil, apperr.Wrap(apperr.KindNotFound, "Parcel not found; payment was recorded", err).
				With("paymentId", payment.ID)
		}
		s.logger.ErrorContext(ctx, "orphan payment: parcel update failed",
			"paymentId", payment.ID,
			"parcelId", req.ParcelID,
			"error", err,
		)
		return nil, apperr.Internal("Payment recorded but parcel update failed", err).
			With("paymentId", payment.ID)
	}

	s.logger.InfoContext(ctx, "payment recorded",
		"paymentId", payment.ID,
		"parcelId", req.ParcelID,
		"modified", modified,
	)

	return &PaymentResult{
		PaymentID: payment.ID,
		Modified:  modified,
	}, nil
}

// ListForPrincipal returns the payment history of userEmail, which must be
// the principal's own. An empty userEmail means the principal's own history.
func (s *paymentServiceImpl) ListForPrincipal(ctx context.Context, principal *model.Principal, userEmail string) ([]*model.Payment, error) {
	if principal == nil || principal.Email == "" {
		return nil, apperr.Unauthorized("Unauthorized access")
	}
	if userEmail == "" {
		userEmail = principal.Email
	}
	if principal.Email != userEmail {
		return nil, apperr.Forbidden("Forbidden access")
	}

	payments, err := s.paymentRepo.ListByEmail(ctx, userEmail)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch payments", err)
	}
	return payments, nil
}

func (s *paymentServiceImpl) ListOrphans(ctx context.Context) ([]*model.Payment, error) {
	payments, err := s.paymentRepo.ListOrphans(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch orphan payments", err)
	}
	return payments, nil
}

func (s *paymentServiceImpl) currency(c string) string {
	if c == "" {
		return s.defaultCurrency
	}
	return strings.ToLower(c)
}

func valueOrDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
