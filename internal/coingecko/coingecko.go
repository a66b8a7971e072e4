package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cotacao/gateway/internal/service"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	DefaultTimeout = 10 * time.Second

	apiKeyHeader = "x-cg-demo-api-key"
)

var upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "upstream_request_duration_seconds",
	Help: "Latency of coingecko requests in seconds.",
}, []string{"code"})

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid coingecko base url: %w", err)
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// StatusError is returned when coingecko answers with a non 2xx status.
// Body is kept for logs and left out of Error.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("coingecko returned status %d %s", e.Code, http.StatusText(e.Code))
}

// SimplePrice calls /simple/price for a single asset and quote currency.
// Network failures and non 2xx responses wrap service.ErrUpstreamUnavailable.
func (c *Client) SimplePrice(ctx context.Context, assetID, vsCurrency string) (service.Prices, error) {
	q := url.Values{}
	q.Set("ids", assetID)
	q.Set("vs_currencies", vsCurrency)
	endpoint := c.baseURL + "/simple/price?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		upstreamDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, &service.UnavailableError{Cause: err}
	}
	defer resp.Body.Close()
	upstreamDuration.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(body)),
		}
		log.Printf("coingecko: status %d: %s", statusErr.Code, statusErr.Body)
		return nil, &service.UnavailableError{Cause: statusErr}
	}

	// A body cut short by a timeout or reset is still a transport failure.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &service.UnavailableError{Cause: fmt.Errorf("read body: %w", err)}
	}

	return decodePrices(body)
}

// decodePrices rejects null assets and rates instead of letting them decode
// as empty or zero.
func decodePrices(body []byte) (service.Prices, error) {
	var raw map[string]map[string]*float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode simple price: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode simple price: null payload")
	}

	prices := make(service.Prices, len(raw))
	for assetID, rates := range raw {
		if rates == nil {
			return nil, fmt.Errorf("decode simple price: null entry for asset %q", assetID)
		}
		prices[assetID] = make(map[string]float64, len(rates))
		for currency, rate := range rates {
			if rate == nil {
				return nil, fmt.Errorf("decode simple price: null %q rate for asset %q", currency, assetID)
			}
			prices[assetID][currency] = *rate
		}
	}

	return prices, nil
}
