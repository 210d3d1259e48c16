package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"trip_planner/internal/adapters/openai"
)

func TestComplete_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["model"] != "gpt-4o" {
			t.Errorf("model = %v", body["model"])
		}
		w.WriteHeader(200)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"role": "assistant", "content": "Day 1: arrive."}},
			},
		})
	}))
	defer ts.Close()

	cl, err := openai.New(ts.URL, "test-key", "gpt-4o", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := cl.Complete(ctx, "You are a planner.", "Plan a trip.")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "Day 1: arrive." {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestComplete_RetriesOn429(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(429)
			return
		}
		w.WriteHeader(200)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": "ok"}}},
		})
	}))
	defer ts.Close()

	cl, _ := openai.New(ts.URL, "test-key", "", 100)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := cl.Complete(ctx, "sys", "user")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "ok" || atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("content=%q hits=%d", got, hits)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer ts.Close()

	cl, _ := openai.New(ts.URL, "test-key", "", 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := cl.Complete(ctx, "sys", "user"); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}
