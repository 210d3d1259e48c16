package domain

import (
	"context"
	"time"
)

// FlightQuery is what the flight search engine needs from a TripRequest.
type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Currency      string
}

// SearchClient wraps the external search provider. Payloads come back as raw
// decoded JSON; mapping into domain records happens in the app layer.
type SearchClient interface {
	FlightSearch(ctx context.Context, q FlightQuery) (map[string]any, error)
	PlaceSearch(ctx context.Context, query string) (map[string]any, error)
}

// CompletionClient wraps the external language-model provider.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// PlanArchive persists generated plans so they can be re-fetched and exported.
type PlanArchive interface {
	SavePlan(ctx context.Context, p TripPlan) error
	GetPlan(ctx context.Context, id string) (TripPlan, error)
	ListPlans(ctx context.Context, limit int) ([]PlanSummary, error)
}

// QuotaStore guards the outbound provider budget. Allow reports whether one
// more generation may run inside the current window.
type QuotaStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
