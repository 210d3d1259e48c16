package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"trip_planner/internal/domain"
)

const researcherSystem = "You are a travel researcher. Identify the destination, gather detailed " +
	"information on climate, culture and safety, find popular attractions and must-visit places, " +
	"and match activities to the traveler's interests. Provide structured summaries with key insights."

const finderSystem = "You recommend hotels and restaurants. Prefer top-rated options near major " +
	"attractions and prioritize by rating, price and distance."

const plannerSystem = "You are a trip planner. Create a detailed day-by-day itinerary optimized for " +
	"the traveler's budget and preferences, with estimated travel times and activity durations. " +
	"Respond with a single JSON object and nothing else, shaped as " +
	`{"days":[{"day":1,"summary":"...","activities":[{"slot":"morning|afternoon|evening","title":"...","description":"..."}]}]}.` +
	" Do not wrap the JSON in markdown fences."

func themeLabel(t domain.TravelTheme) string {
	switch t {
	case domain.ThemeCouple:
		return "couple getaway"
	case domain.ThemeFamily:
		return "family vacation"
	case domain.ThemeAdventure:
		return "adventure trip"
	case domain.ThemeSolo:
		return "solo exploration"
	}
	return "trip"
}

func hotelRatingLabel(r int) string {
	if r <= 0 {
		return "any"
	}
	return fmt.Sprintf("%d-star or better", r)
}

func buildResearchPrompt(req domain.TripRequest, attractions []domain.PlaceListing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Research the best attractions and activities in %s for a %d-day %s. ",
		req.Destination, req.Days, themeLabel(req.Theme))
	fmt.Fprintf(&b, "The traveler enjoys: %s. Budget: %s.", req.Activities, req.Budget)
	writeListings(&b, "Search listings for attractions", attractions)
	return b.String()
}

func buildFinderPrompt(req domain.TripRequest, hotels, restaurants []domain.PlaceListing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Find the best hotels and restaurants near attractions in %s. ", req.Destination)
	fmt.Fprintf(&b, "Preferences: %s, Budget: %s, Hotel rating: %s, Flight class: %s.",
		req.Activities, req.Budget, hotelRatingLabel(req.HotelRating), req.FlightClass)
	writeListings(&b, "Hotel listings", hotels)
	writeListings(&b, "Restaurant listings", restaurants)
	return b.String()
}

func buildItineraryPrompt(req domain.TripRequest, plan domain.TripPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-day itinerary for %s (%s to %s). ",
		req.Days, req.Destination, req.DepartureDate, req.ReturnDate)
	if plan.Research != nil {
		fmt.Fprintf(&b, "Attractions: %s ", *plan.Research)
	}
	if plan.HotelNotes != nil {
		fmt.Fprintf(&b, "Hotels and dining: %s ", *plan.HotelNotes)
	}
	if len(plan.Search.Flights) > 0 {
		fj, _ := json.Marshal(plan.Search.Flights)
		fmt.Fprintf(&b, "Flight options: %s ", fj)
	}
	fmt.Fprintf(&b, "The plan must cover exactly %d days.", req.Days)
	return b.String()
}

func writeListings(b *strings.Builder, header string, ps []domain.PlaceListing) {
	if len(ps) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", header)
	for _, p := range ps {
		fmt.Fprintf(b, "- %s", p.Name)
		if p.Rating != nil {
			fmt.Fprintf(b, " (rating %.1f)", *p.Rating)
		}
		if p.PriceLevel != nil {
			fmt.Fprintf(b, " [%s]", *p.PriceLevel)
		}
		if p.Snippet != nil {
			fmt.Fprintf(b, ": %s", *p.Snippet)
		}
		b.WriteByte('\n')
	}
}
