package client

import (
	"context"
	"fmt"

	"courier-backend/internal/config"
)

type IntentParams struct {
	Amount   int64 // minor units
	Currency string
	ParcelID string
}

type Intent struct {
	ID           string
	ClientSecret string
}

// PaymentGateway creates payment intents at the external provider. It keeps
// no local state.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, params IntentParams) (*Intent, error)
}

// GatewayError is an upstream failure; Message is the provider's own text.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("gateway error %d: %s", e.StatusCode, e.Message)
}

func NewPaymentGateway(cfg *config.Payment) (PaymentGateway, error) {
	switch cfg.Provider {
	case "stripe":
		return NewStripeClient(&cfg.Stripe), nil
	case "braintree":
		return NewBraintreeClient(&cfg.Braintree), nil
	case "paypal":
		return NewPaypalClient(&cfg.Paypal), nil
	default:
		return nil, fmt.Errorf("unsupported payment provider %q", cfg.Provider)
	}
}
