package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/shoplens/backend/internal/domain"
)

const maxAttempts = 3

// HTTPConfig holds configuration for the HTTP catalog provider
type HTTPConfig struct {
	URL       string
	Token     string // sent as a bearer token when set
	Timeout   time.Duration
	RateLimit rate.Limit // requests per second
	Burst     int
}

// HTTPProvider fetches a JSON catalog document from a remote endpoint
type HTTPProvider struct {
	httpClient  *http.Client
	url         string
	token       string
	rateLimiter *rate.Limiter
	mapper      Mapper
	logger      zerolog.Logger
}

// NewHTTPProvider creates a new HTTP catalog provider
func NewHTTPProvider(cfg HTTPConfig, mapper Mapper, logger zerolog.Logger) *HTTPProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = rate.Limit(1)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = maxAttempts
	}

	return &HTTPProvider{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url:         cfg.URL,
		token:       cfg.Token,
		rateLimiter: rate.NewLimiter(limit, burst),
		mapper:      mapper,
		logger:      logger.With().Str("component", "catalog_http").Logger(),
	}
}

// Name identifies the provider in logs, without query parameters
func (p *HTTPProvider) Name() string {
	u, err := url.Parse(p.url)
	if err != nil {
		return "http"
	}
	return "http:" + u.Host + u.Path
}

// Load fetches and maps the remote catalog, retrying transient failures
func (p *HTTPProvider) Load(ctx context.Context) ([]domain.Product, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := p.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, status, err := p.doRequest(ctx)
		switch {
		case err != nil:
			p.logger.Warn().Err(err).Int("attempt", attempt).Msg("catalog request failed")
			lastErr = err
		case status == http.StatusOK:
			records, err := DecodeRecords(body, FormatJSON)
			if err != nil {
				return nil, err
			}
			p.logger.Debug().Int("records", len(records)).Msg("fetched catalog")
			return p.mapper.MapRecords(records), nil
		case status >= 400 && status < 500 && status != http.StatusTooManyRequests:
			// client errors other than throttling are not retried
			return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogSourceFailure, status)
		default:
			p.logger.Warn().Int("status", status).Int("attempt", attempt).Msg("catalog endpoint error")
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogSourceFailure, status)
		}

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(exponentialBackoff(attempt)):
			}
		}
	}

	p.logger.Error().Err(lastErr).Msg("all catalog retries failed")
	return nil, lastErr
}

// doRequest executes an HTTP GET request and reads the whole body
func (p *HTTPProvider) doRequest(ctx context.Context) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "ShopLens/1.0")
	req.Header.Set("Accept", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrCatalogSourceFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: reading body: %v", domain.ErrCatalogSourceFailure, err)
	}
	return body, resp.StatusCode, nil
}

// exponentialBackoff returns the wait before the next attempt: 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}
