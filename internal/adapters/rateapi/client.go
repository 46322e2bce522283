package rateapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/FxPeer/fx_marketplace_app/internal/apperrors"
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	portssvc "github.com/FxPeer/fx_marketplace_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// Client talks to an exchangerate-api.com style v6 endpoint. Every failure
// mode (transport error, non-2xx, provider error payload, malformed body)
// surfaces as apperrors.ErrRateUnavailable so callers need exactly one check.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a rate source client with a bounded request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ensure Client implements portssvc.RateSource
var _ portssvc.RateSource = (*Client)(nil)

type pairResponse struct {
	Result         string      `json:"result"`
	ErrorType      string      `json:"error-type"`
	ConversionRate json.Number `json:"conversion_rate"`
}

type codesResponse struct {
	Result         string      `json:"result"`
	ErrorType      string      `json:"error-type"`
	SupportedCodes [][2]string `json:"supported_codes"`
}

// GetPairRate retrieves the current base conversion rate between two currencies.
func (c *Client) GetPairRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/v6/%s/pair/%s/%s", c.baseURL, c.apiKey, fromCurrency, toCurrency)

	var body pairResponse
	if err := c.getJSON(ctx, url, &body); err != nil {
		return decimal.Decimal{}, err
	}
	if body.Result != "success" {
		return decimal.Decimal{}, fmt.Errorf("%w: provider returned %q", apperrors.ErrRateUnavailable, body.ErrorType)
	}

	rate, err := decimal.NewFromString(body.ConversionRate.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: malformed conversion rate %q", apperrors.ErrRateUnavailable, body.ConversionRate.String())
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, fmt.Errorf("%w: non-positive conversion rate", apperrors.ErrRateUnavailable)
	}
	return rate, nil
}

// ListSupportedCurrencies retrieves the currency codes the provider quotes.
func (c *Client) ListSupportedCurrencies(ctx context.Context) ([]domain.SupportedCurrency, error) {
	url := fmt.Sprintf("%s/v6/%s/codes", c.baseURL, c.apiKey)

	var body codesResponse
	if err := c.getJSON(ctx, url, &body); err != nil {
		return nil, err
	}
	if body.Result != "success" {
		return nil, fmt.Errorf("%w: provider returned %q", apperrors.ErrRateUnavailable, body.ErrorType)
	}

	currencies := make([]domain.SupportedCurrency, len(body.SupportedCodes))
	for i, pair := range body.SupportedCodes {
		currencies[i] = domain.SupportedCurrency{Code: pair[0], Name: pair[1]}
	}
	return currencies, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRateUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: provider responded with status %d", apperrors.ErrRateUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRateUnavailable, err)
	}
	return nil
}
