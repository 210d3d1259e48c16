package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/adapters/outbound"
	"trip_planner/internal/domain"
)

var (
	ErrUnauthorized = errors.New("serpapi: unauthorized")
	ErrForbidden    = errors.New("serpapi: forbidden")
)

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// FlightSearch runs a google_flights query for the round trip.
func (c *Client) FlightSearch(ctx context.Context, q domain.FlightQuery) (map[string]any, error) {
	v := url.Values{}
	v.Set("engine", "google_flights")
	v.Set("departure_id", q.Origin)
	v.Set("arrival_id", q.Destination)
	v.Set("outbound_date", q.DepartureDate)
	v.Set("return_date", q.ReturnDate)
	if q.Currency != "" {
		v.Set("currency", q.Currency)
	}
	v.Set("hl", "en")
	return c.search(ctx, "google_flights", v)
}

// PlaceSearch runs a plain google query; used for attractions, hotels and
// restaurants research.
func (c *Client) PlaceSearch(ctx context.Context, query string) (map[string]any, error) {
	v := url.Values{}
	v.Set("engine", "google")
	v.Set("q", query)
	v.Set("hl", "en")
	return c.search(ctx, "google", v)
}

// search performs a GET against /search with client-side rate limiting and
// retries on 429/transient 5xx, honoring Retry-After when provided.
func (c *Client) search(ctx context.Context, engine string, v url.Values) (map[string]any, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}
	v.Set("api_key", c.key)
	u := c.base + "/search?" + v.Encode()

	var lastErr error
	for i := 0; i < outbound.MaxAttempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "trip-planner/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if i < outbound.MaxAttempts-1 && outbound.SleepCtx(ctx, outbound.Backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr
		}
		observability.ObserveExternal("serpapi", engine, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusOK:
			var out map[string]any
			err := json.NewDecoder(resp.Body).Decode(&out)
			resp.Body.Close()
			if err != nil {
				return nil, err
			}
			// SerpAPI reports some failures inside a 200 body.
			if msg, ok := out["error"].(string); ok && msg != "" {
				return nil, fmt.Errorf("serpapi: %s", msg)
			}
			return out, nil

		case resp.StatusCode == http.StatusUnauthorized:
			resp.Body.Close()
			return nil, ErrUnauthorized

		case resp.StatusCode == http.StatusForbidden:
			resp.Body.Close()
			return nil, ErrForbidden

		case outbound.Retryable(resp.StatusCode):
			wait := outbound.RetryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = outbound.Backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < outbound.MaxAttempts-1 && outbound.SleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return nil, lastErr
}
