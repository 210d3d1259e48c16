// Package batch reads trip request files for the offline planner.
package batch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"trip_planner/internal/domain"
)

type tripSpec struct {
	Origin        string `yaml:"origin"`
	Destination   string `yaml:"destination"`
	DepartureDate string `yaml:"departure_date"`
	ReturnDate    string `yaml:"return_date"`
	Days          int    `yaml:"days"`
	Theme         string `yaml:"theme"`
	Activities    string `yaml:"activities"`
	Budget        string `yaml:"budget"`
	FlightClass   string `yaml:"flight_class"`
	HotelRating   int    `yaml:"hotel_rating"`
	Currency      string `yaml:"currency"`
}

type tripFile struct {
	Trips []tripSpec `yaml:"trips"`
}

// Load parses a YAML trip file into validated requests. A file with zero
// trips or any invalid entry is rejected whole, so a batch run never starts
// half-broken.
func Load(path string) ([]domain.TripRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trips file: %w", err)
	}
	var f tripFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse trips file: %w", err)
	}
	if len(f.Trips) == 0 {
		return nil, fmt.Errorf("trips file %s has no trips", path)
	}

	out := make([]domain.TripRequest, 0, len(f.Trips))
	for i, t := range f.Trips {
		req := domain.TripRequest{
			Origin:        t.Origin,
			Destination:   t.Destination,
			DepartureDate: t.DepartureDate,
			ReturnDate:    t.ReturnDate,
			Days:          t.Days,
			Theme:         domain.TravelTheme(t.Theme),
			Activities:    t.Activities,
			Budget:        domain.BudgetTier(t.Budget),
			FlightClass:   t.FlightClass,
			HotelRating:   t.HotelRating,
			Currency:      t.Currency,
		}
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("trip %d: %w", i+1, err)
		}
		out = append(out, req)
	}
	return out, nil
}
