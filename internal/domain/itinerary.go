package domain

import "time"

// Activity is one entry in a day plan. Slot is morning|afternoon|evening.
type Activity struct {
	Slot        string  `json:"slot"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Ref         *string `json:"ref,omitempty"` // name of a search listing this leans on
}

type DayPlan struct {
	Day        int        `json:"day"`
	Summary    string     `json:"summary,omitempty"`
	Activities []Activity `json:"activities"`
}

// Itinerary is the generated day-by-day plan. Built once from the model
// response; never mutated afterwards.
type Itinerary struct {
	Days []DayPlan `json:"days"`
}

type PlanStatus string

const (
	StatusComplete PlanStatus = "complete" // itinerary generated
	StatusPartial  PlanStatus = "partial"  // search data present, generation failed
	StatusEmpty    PlanStatus = "empty"    // nothing usable came back
)

// TripPlan is the archived outcome of one orchestration run.
type TripPlan struct {
	ID         string       `json:"id"`
	Request    TripRequest  `json:"request"`
	Search     SearchResult `json:"search"`
	Research   *string      `json:"research,omitempty"`    // researcher notes
	HotelNotes *string      `json:"hotel_notes,omitempty"` // hotels & dining notes
	Itinerary  *Itinerary   `json:"itinerary,omitempty"`
	Status     PlanStatus   `json:"status"`
	Warnings   []string     `json:"warnings,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// PlanSummary is the listing row for archived plans.
type PlanSummary struct {
	ID          string     `json:"id"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Status      PlanStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}
