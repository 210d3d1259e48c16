package app

import (
	"sort"
	"strings"

	"trip_planner/internal/domain"
)

/********** alias registries (single source of truth) **********/

var placeAliases = map[string][]string{
	"name":    {"title", "name"},
	"rating":  {"rating", "rating.value", "reviews.rating"},
	"price":   {"price", "price_level", "price_range"},
	"address": {"address", "address.line", "full_address", "location.address"},
	"snippet": {"snippet", "description", "about", "summary"},
}

var legAliases = map[string][]string{
	"airline":       {"airline", "carrier", "operated_by"},
	"flight_number": {"flight_number", "flightNumber", "number"},
	"dep_airport":   {"departure_airport.id", "departure_airport.name"},
	"arr_airport":   {"arrival_airport.id", "arrival_airport.name"},
	"dep_time":      {"departure_airport.time", "departure_time"},
	"arr_time":      {"arrival_airport.time", "arrival_time"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// lookupFloat returns the number at path; JSON numbers decode as float64.
func lookupFloat(m map[string]any, path string) (float64, bool) {
	switch v := lookupAny(m, path).(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

func firstFloatAlias(m map[string]any, aliases map[string][]string, key string) *float64 {
	for _, p := range aliases[key] {
		if f, ok := lookupFloat(m, p); ok {
			return &f
		}
	}
	return nil
}

func asMapSlice(v any) []map[string]any {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(arr))
	for _, e := range arr {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

/********** flights **********/

// mapFlights flattens a google_flights payload into priced options, cheapest
// first, keeping at most maxN. best_flights is preferred; other_flights fills
// the rest when the provider returns no "best" bucket.
func mapFlights(payload map[string]any, currency string, maxN int) []domain.FlightOption {
	groups := asMapSlice(payload["best_flights"])
	if len(groups) == 0 {
		groups = asMapSlice(payload["other_flights"])
	}

	opts := make([]domain.FlightOption, 0, len(groups))
	for _, g := range groups {
		opts = append(opts, mapFlightGroup(g, currency))
	}

	// cheapest first; options without a price sink to the end
	sort.SliceStable(opts, func(i, j int) bool {
		pi, pj := opts[i].Price, opts[j].Price
		if pi == nil {
			return false
		}
		if pj == nil {
			return true
		}
		return *pi < *pj
	})
	if maxN > 0 && len(opts) > maxN {
		opts = opts[:maxN]
	}
	return opts
}

func mapFlightGroup(g map[string]any, currency string) domain.FlightOption {
	fo := domain.FlightOption{Currency: currency}
	fo.Price = firstFloatAlias(g, map[string][]string{"price": {"price", "price.amount"}}, "price")
	if tok := lookupStr(g, "booking_token"); tok != "" {
		fo.BookingToken = &tok
	}
	if d, ok := lookupFloat(g, "total_duration"); ok {
		n := int(d)
		fo.DurationMinutes = &n
	}

	legs := asMapSlice(g["flights"])
	if len(legs) == 0 {
		return fo
	}
	fo.Stops = len(legs) - 1

	first, last := legs[0], legs[len(legs)-1]
	if a := firstNonEmptyAlias(first, legAliases, "airline"); a != nil {
		fo.Airline = *a
	}
	fo.FlightNumber = firstNonEmptyAlias(first, legAliases, "flight_number")
	fo.DepartureAirport = firstNonEmptyAlias(first, legAliases, "dep_airport")
	fo.DepartureTime = firstNonEmptyAlias(first, legAliases, "dep_time")
	fo.ArrivalAirport = firstNonEmptyAlias(last, legAliases, "arr_airport")
	fo.ArrivalTime = firstNonEmptyAlias(last, legAliases, "arr_time")
	return fo
}

/********** places **********/

// mapPlaces pulls listings out of a google search payload. Map-pack results
// (local_results.places) carry ratings and addresses; organic results fill in
// when nothing local came back.
func mapPlaces(payload map[string]any, kind domain.PlaceKind, maxN int) []domain.PlaceListing {
	var raw []map[string]any
	switch lr := payload["local_results"].(type) {
	case map[string]any:
		raw = asMapSlice(lr["places"])
	case []any:
		raw = asMapSlice(lr)
	}
	raw = append(raw, asMapSlice(payload["organic_results"])...)

	out := make([]domain.PlaceListing, 0, len(raw))
	for _, m := range raw {
		name := firstNonEmptyAlias(m, placeAliases, "name")
		if name == nil {
			continue
		}
		out = append(out, domain.PlaceListing{
			Name:       *name,
			Kind:       kind,
			Rating:     firstFloatAlias(m, placeAliases, "rating"),
			PriceLevel: firstNonEmptyAlias(m, placeAliases, "price"),
			Address:    firstNonEmptyAlias(m, placeAliases, "address"),
			Snippet:    firstNonEmptyAlias(m, placeAliases, "snippet"),
		})
		if maxN > 0 && len(out) == maxN {
			break
		}
	}
	return out
}
