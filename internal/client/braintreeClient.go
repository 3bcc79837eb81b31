package client

import (
	"context"
	"fmt"

	"courier-backend/internal/config"

	"github.com/braintree-go/braintree-go"
	"github.com/google/uuid"
)

// Braintree has no server-side intent object. The client token plays the
// role of the client secret and the intent id is a local reference the
// client echoes back when it records the payment.
type braintreeClientImpl struct {
	gateway *braintree.Braintree
}

func NewBraintreeClient(cfg *config.Braintree) PaymentGateway {
	env := braintree.Sandbox
	if cfg.Environment == "production" {
		env = braintree.Production
	}

	gateway := braintree.New(
		env,
		cfg.MerchantID,
		cfg.PublicKey,
		cfg.PrivateKey,
	)

	return &braintreeClientImpl{
		gateway: gateway,
	}
}

func (c *braintreeClientImpl) CreateIntent(ctx context.Context, params IntentParams) (*Intent, error) {
	token, err := c.gateway.ClientToken().Generate(ctx)
	if err != nil {
		return nil, &GatewayError{Message: fmt.Sprintf("failed to generate client token: %v", err)}
	}

	return &Intent{
		ID:           "bt_" + uuid.NewString(),
		ClientSecret: token,
	}, nil
}
