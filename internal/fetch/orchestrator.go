// Package fetch downloads thematic feature collections and turns them into
// registered layers.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/woozymasta/citymap/internal/feature"
	"github.com/woozymasta/citymap/internal/geo"

	"github.com/rs/zerolog/log"
)

const userAgent = "citymap/1.0"

// DefaultMaxBodyBytes caps a feature collection body when no limit is set.
const DefaultMaxBodyBytes int64 = 64 << 20

// ErrBodyTooLarge is wrapped by the FetchError of an oversized response.
var ErrBodyTooLarge = errors.New("response body too large")

// Loader fetches one category's feature collection.
type Loader interface {
	Load(ctx context.Context, category feature.Category, url string) (*geo.Collection, error)
}

// Orchestrator issues feature collection requests. It never retries: failed
// loads are reported and may be re-invoked by the caller at any time.
type Orchestrator struct {
	Client *http.Client

	// MaxBodyBytes bounds the response body, DefaultMaxBodyBytes when <= 0.
	MaxBodyBytes int64
}

// NewOrchestrator creates an orchestrator with a pooled client. A zero timeout
// leaves the transport defaults in place, a zero maxBody uses
// DefaultMaxBodyBytes.
func NewOrchestrator(timeout time.Duration, maxBody int64) *Orchestrator {
	return &Orchestrator{
		MaxBodyBytes: maxBody,
		Client: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: timeout,
		},
	}
}

// Load performs one GET for the category and parses the body. Transport
// failures and non-2xx statuses yield *FetchError, bodies that are not a
// feature collection yield *ParseError. No partial collection is returned.
func (o *Orchestrator) Load(ctx context.Context, category feature.Category, url string) (*geo.Collection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Category: category, URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/geo+json, application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := o.httpClient().Do(req)
	if err != nil {
		return nil, &FetchError{Category: category, URL: url, Err: err}
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(snippet))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &FetchError{
			Category:   category,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        errors.New(msg),
		}
	}

	limit := o.maxBodyBytes()
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &FetchError{Category: category, URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > limit {
		return nil, &FetchError{
			Category:   category,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, limit),
		}
	}

	c, err := geo.Parse(body)
	if err != nil {
		return nil, &ParseError{Category: category, URL: url, Err: err}
	}
	c.Source = url

	log.Debug().
		Str("category", string(category)).
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Int("features", c.Len()).
		Dur("duration", time.Since(start)).
		Msg("Feature collection fetched")

	return c, nil
}

func (o *Orchestrator) maxBodyBytes() int64 {
	if o.MaxBodyBytes > 0 {
		return o.MaxBodyBytes
	}
	return DefaultMaxBodyBytes
}

func (o *Orchestrator) httpClient() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return http.DefaultClient
}
