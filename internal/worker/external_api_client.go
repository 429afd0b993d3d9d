package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Lutefd/currency-converter/internal/model"
	"github.com/Lutefd/currency-converter/internal/telemetry"
)

const (
	DefaultRatesAPIURL  = "https://api.exchangerate-api.com/v4/latest/"
	DefaultFetchTimeout = 10 * time.Second
)

type exchangeRateAPIResponse struct {
	Base            string             `json:"base"`
	Rates           map[string]float64 `json:"rates"`
	TimeLastUpdated int64              `json:"time_last_updated"`
}

type ExchangeRateAPIClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type ClientOption func(*ExchangeRateAPIClient)

func WithAPIKey(apiKey string) ClientOption {
	return func(c *ExchangeRateAPIClient) {
		c.apiKey = apiKey
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ExchangeRateAPIClient) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *ExchangeRateAPIClient) {
		c.client = client
	}
}

func NewExchangeRateAPIClient(baseURL string, opts ...ClientOption) *ExchangeRateAPIClient {
	if baseURL == "" {
		baseURL = DefaultRatesAPIURL
	}
	c := &ExchangeRateAPIClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultFetchTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ExchangeRateAPIClient) FetchRates(ctx context.Context, base model.Currency) (*model.RateTable, error) {
	if !base.Supported() {
		return nil, &model.UnsupportedCurrencyError{Code: string(base)}
	}

	table, err := c.fetch(ctx, base)
	if err != nil {
		var fetchErr *model.RateFetchError
		if errors.As(err, &fetchErr) {
			telemetry.RateFetchCounter.WithLabelValues(string(base), string(fetchErr.Kind)).Inc()
		}
		return nil, err
	}
	telemetry.RateFetchCounter.WithLabelValues(string(base), "ok").Inc()
	return table, nil
}

func (c *ExchangeRateAPIClient) fetch(ctx context.Context, base model.Currency) (*model.RateTable, error) {
	endpoint, err := url.JoinPath(c.baseURL, string(base))
	if err != nil {
		return nil, &model.RateFetchError{Kind: model.RateFetchNetwork, Base: base, Err: fmt.Errorf("invalid base URL: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &model.RateFetchError{Kind: model.RateFetchNetwork, Base: base, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		kind := model.RateFetchNetwork
		if isTimeout(err) {
			kind = model.RateFetchTimeout
		}
		return nil, &model.RateFetchError{Kind: kind, Base: base, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.RateFetchError{Kind: model.RateFetchStatus, Base: base, Err: fmt.Errorf("API request failed with status code: %d", resp.StatusCode)}
	}

	var body exchangeRateAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		kind := model.RateFetchParse
		if isTimeout(err) {
			kind = model.RateFetchTimeout
		}
		return nil, &model.RateFetchError{Kind: kind, Base: base, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	table, err := toRateTable(base, body)
	if err != nil {
		return nil, &model.RateFetchError{Kind: model.RateFetchParse, Base: base, Err: err}
	}
	return table, nil
}

func toRateTable(base model.Currency, body exchangeRateAPIResponse) (*model.RateTable, error) {
	if body.Base != "" && !strings.EqualFold(body.Base, string(base)) {
		return nil, fmt.Errorf("response base %q does not match requested %s", body.Base, base)
	}

	table := &model.RateTable{
		Base:      base,
		Rates:     make(map[model.Currency]float64, len(model.SupportedCurrencies())),
		UpdatedAt: time.Now().UTC(),
	}
	if body.TimeLastUpdated > 0 {
		table.UpdatedAt = time.Unix(body.TimeLastUpdated, 0).UTC()
	}

	var missing []string
	for _, info := range model.SupportedCurrencies() {
		rate, ok := body.Rates[string(info.Code)]
		if !ok {
			missing = append(missing, string(info.Code))
			continue
		}
		if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			return nil, fmt.Errorf("invalid rate %v for %s", rate, info.Code)
		}
		table.Rates[info.Code] = rate
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("response is missing rates for %s", strings.Join(missing, ", "))
	}
	return table, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
