package domain

import (
	"errors"
	"fmt"
	"strings"
)

type TravelTheme string

const (
	ThemeCouple    TravelTheme = "couple"
	ThemeFamily    TravelTheme = "family"
	ThemeAdventure TravelTheme = "adventure"
	ThemeSolo      TravelTheme = "solo"
)

type BudgetTier string

const (
	BudgetEconomy  BudgetTier = "economy"
	BudgetStandard BudgetTier = "standard"
	BudgetLuxury   BudgetTier = "luxury"
)

// TripRequest is the user's submitted trip parameters. Immutable once
// validated; nothing downstream mutates it.
type TripRequest struct {
	Origin        string      `json:"origin"`         // IATA code
	Destination   string      `json:"destination"`    // IATA code
	DepartureDate string      `json:"departure_date"` // YYYY-MM-DD
	ReturnDate    string      `json:"return_date"`    // YYYY-MM-DD
	Days          int         `json:"days"`
	Theme         TravelTheme `json:"theme"`
	Activities    string      `json:"activities"`
	Budget        BudgetTier  `json:"budget"`
	FlightClass   string      `json:"flight_class"`
	HotelRating   int         `json:"hotel_rating"` // 0 = any
	Currency      string      `json:"currency"`
}

const MaxTripDays = 14

// Validate checks the fields the form marks required. Errors wrap
// ErrMissingInput so callers can refuse before any outbound call.
func (t TripRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(t.Origin) == "" {
		missing = append(missing, "origin")
	}
	if strings.TrimSpace(t.Destination) == "" {
		missing = append(missing, "destination")
	}
	if strings.TrimSpace(t.DepartureDate) == "" {
		missing = append(missing, "departure_date")
	}
	if strings.TrimSpace(t.ReturnDate) == "" {
		missing = append(missing, "return_date")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingInput, strings.Join(missing, ", "))
	}
	if t.Days < 1 || t.Days > MaxTripDays {
		return fmt.Errorf("%w: days must be between 1 and %d", ErrMissingInput, MaxTripDays)
	}
	return nil
}

// FlightOption is one priced flight listing from the search provider.
type FlightOption struct {
	Airline          string   `json:"airline"`
	FlightNumber     *string  `json:"flight_number,omitempty"`
	DepartureAirport *string  `json:"departure_airport,omitempty"`
	ArrivalAirport   *string  `json:"arrival_airport,omitempty"`
	DepartureTime    *string  `json:"departure_time,omitempty"`
	ArrivalTime      *string  `json:"arrival_time,omitempty"`
	DurationMinutes  *int     `json:"duration_minutes,omitempty"`
	Stops            int      `json:"stops"`
	Price            *float64 `json:"price,omitempty"`
	Currency         string   `json:"currency,omitempty"`
	BookingToken     *string  `json:"booking_token,omitempty"`
}

type PlaceKind string

const (
	PlaceAttraction PlaceKind = "attraction"
	PlaceHotel      PlaceKind = "hotel"
	PlaceRestaurant PlaceKind = "restaurant"
)

// PlaceListing is a flat attraction/hotel/restaurant record.
type PlaceListing struct {
	Name       string    `json:"name"`
	Kind       PlaceKind `json:"kind"`
	Rating     *float64  `json:"rating,omitempty"`
	PriceLevel *string   `json:"price_level,omitempty"`
	Address    *string   `json:"address,omitempty"`
	Snippet    *string   `json:"snippet,omitempty"`
}

// SearchResult bundles everything fetched from the search provider for one
// trip query. Read-only after the fetch stage.
type SearchResult struct {
	Flights     []FlightOption `json:"flights"`
	Attractions []PlaceListing `json:"attractions"`
	Hotels      []PlaceListing `json:"hotels"`
	Restaurants []PlaceListing `json:"restaurants"`
}

func (s SearchResult) Empty() bool {
	return len(s.Flights) == 0 && len(s.Attractions) == 0 &&
		len(s.Hotels) == 0 && len(s.Restaurants) == 0
}

var (
	ErrMissingInput  = errors.New("missing required input")
	ErrSearch        = errors.New("search provider failed")
	ErrGeneration    = errors.New("itinerary generation failed")
	ErrNotFound      = errors.New("not found")
	ErrQuotaExceeded = errors.New("outbound quota exceeded")
)
