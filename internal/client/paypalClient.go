package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"courier-backend/internal/config"

	"github.com/shopspring/decimal"
)

type paypalClientImpl struct {
	httpClient         *http.Client
	baseApiURL         string
	paypalClientID     string
	paypalClientSecret string
}

type PaypalLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type paypalCreateOrderResult struct {
	ID     string       `json:"id"`
	Links  []PaypalLink `json:"links"`
	Status string       `json:"status"`
}

type paypalErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// NewPaypalClient creates checkout orders. The order id is the intent id and
// the buyer approval link is handed to the client as its secret.
func NewPaypalClient(cfg *config.Paypal) PaymentGateway {
	return &paypalClientImpl{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseApiURL:         strings.TrimRight(cfg.BaseApiURL, "/"),
		paypalClientID:     cfg.ClientID,
		paypalClientSecret: cfg.ClientSecret,
	}
}

func (c *paypalClientImpl) getAccessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/v1/oauth2/token",
		bytes.NewBufferString("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.SetBasicAuth(c.paypalClientID, c.paypalClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &GatewayError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.errorFrom(resp)
	}

	var res struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode paypal token: %w", err)
	}

	return res.AccessToken, nil
}

func (c *paypalClientImpl) CreateIntent(ctx context.Context, params IntentParams) (*Intent, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	unit := map[string]interface{}{
		"amount": map[string]string{
			"currency_code": strings.ToUpper(params.Currency),
			"value":         decimal.New(params.Amount, -2).StringFixed(2),
		},
	}
	if params.ParcelID != "" {
		unit["custom_id"] = params.ParcelID
	}
	payload := map[string]interface{}{
		"intent":         "CAPTURE",
		"purchase_units": []map[string]interface{}{unit},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v2/checkout/orders",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.errorFrom(resp)
	}

	var result paypalCreateOrderResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode paypal response: %w", err)
	}

	secret := extractApproveURL(result.Links)
	if secret == "" {
		secret = result.ID
	}

	return &Intent{
		ID:           result.ID,
		ClientSecret: secret,
	}, nil
}

func (c *paypalClientImpl) errorFrom(resp *http.Response) error {
	b, _ := io.ReadAll(resp.Body)

	var errResp paypalErrorResponse
	if json.Unmarshal(b, &errResp) == nil && errResp.Message != "" {
		return &GatewayError{StatusCode: resp.StatusCode, Message: errResp.Message}
	}
	return &GatewayError{StatusCode: resp.StatusCode, Message: string(b)}
}

func extractApproveURL(links []PaypalLink) string {
	for _, link := range links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			return link.Href
		}
	}
	return ""
}
