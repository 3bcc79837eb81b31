package client

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"courier-backend/internal/config"

	"github.com/stripe/stripe-go/v76"
	stripeclient "github.com/stripe/stripe-go/v76/client"
)

type stripeClientImpl struct {
	api *stripeclient.API
}

// NewStripeClient builds a Stripe API client bound to its own backend, so
// the base URL and timeout come from config instead of package globals.
func NewStripeClient(cfg *config.Stripe) PaymentGateway {
	backendCfg := &stripe.BackendConfig{
		HTTPClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
	if cfg.BaseApiURL != "" {
		backendCfg.URL = stripe.String(strings.TrimRight(cfg.BaseApiURL, "/"))
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)
	api := &stripeclient.API{}
	api.Init(cfg.SecretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})

	return &stripeClientImpl{
		api: api,
	}
}

func (c *stripeClientImpl) CreateIntent(ctx context.Context, params IntentParams) (*Intent, error) {
	intentParams := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(params.Amount),
		Currency:           stripe.String(params.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	intentParams.Context = ctx
	if params.ParcelID != "" {
		intentParams.AddMetadata("parcelId", params.ParcelID)
	}

	pi, err := c.api.PaymentIntents.New(intentParams)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return nil, &GatewayError{StatusCode: stripeErr.HTTPStatusCode, Message: stripeErr.Msg}
		}
		return nil, &GatewayError{Message: err.Error()}
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}
