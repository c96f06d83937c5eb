package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// TradeClient queries the apartment sale-price provider.
type TradeClient struct {
	BaseURL    string
	ServiceKey string
	HTTPClient *http.Client
}

// NewTradeClient creates a trade lookup client with a sane request timeout.
func NewTradeClient(baseURL, serviceKey string) *TradeClient {
	return &TradeClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		ServiceKey: serviceKey,
		HTTPClient: defaultHTTPClient(),
	}
}

// TradeQuery narrows the result set to a region code and a deal year-month
// (YYYYMM), mirroring the upstream API's two mandatory parameters.
type TradeQuery struct {
	RegionCode string
	YearMonth  string
}

// Trade is one recorded apartment sale.
type Trade struct {
	ComplexName string `json:"complex_name"`
	Dong        string `json:"dong"`
	PriceWon    int64  `json:"price_won"`
	AreaSqm     float64 `json:"area_sqm"`
	Floor       int    `json:"floor"`
	DealtAt     string `json:"dealt_at"` // YYYY-MM-DD
}

type tradeEnvelope struct {
	Items []Trade `json:"items"`
}

// Query fetches the sale records matching q. Context cancellation and the
// client timeout both abort the upstream call.
func (c *TradeClient) Query(ctx context.Context, q TradeQuery) ([]Trade, error) {
	params := url.Values{}
	params.Set("regionCode", q.RegionCode)
	params.Set("yearMonth", q.YearMonth)
	if c.ServiceKey != "" {
		params.Set("serviceKey", c.ServiceKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/trades?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var envelope tradeEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}

	return envelope.Items, nil
}
