package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/adapters/outbound"
)

var ErrUnauthorized = errors.New("openai: unauthorized")

type Client struct {
	base  string
	hc    *http.Client
	key   string
	model string
	rl    *rate.Limiter
}

func New(base, key, model string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = "gpt-4o"
	}
	if rps <= 0 {
		rps = 2
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		hc:    &http.Client{Timeout: 90 * time.Second},
		key:   key,
		model: model,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one chat completion and returns the assistant text.
// Retries 429/transient 5xx with Retry-After + backoff, like the search client.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}

	payload := chatRequest{
		Model:       c.model,
		Temperature: 0.2,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	u := c.base + "/chat/completions"

	var lastErr error
	for i := 0; i < outbound.MaxAttempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
		if err != nil {
			return "", err
		}
		req.Header.Set("Authorization", "Bearer "+c.key)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			if i < outbound.MaxAttempts-1 && outbound.SleepCtx(ctx, outbound.Backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", lastErr
		}
		observability.ObserveExternal("openai", "chat_completions", resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusOK:
			var out chatResponse
			err := json.NewDecoder(resp.Body).Decode(&out)
			resp.Body.Close()
			if err != nil {
				return "", err
			}
			if out.Error != nil {
				return "", fmt.Errorf("openai: %s", out.Error.Message)
			}
			if len(out.Choices) == 0 {
				return "", fmt.Errorf("openai: empty choices")
			}
			return out.Choices[0].Message.Content, nil

		case resp.StatusCode == http.StatusUnauthorized:
			resp.Body.Close()
			return "", ErrUnauthorized

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
				return "", ctx.Err()
			}
			return "", lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return "", fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return "", lastErr
}
