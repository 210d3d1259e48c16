package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/domain"
)

type PlannerConfig struct {
	Currency    string
	MaxFlights  int
	PlaceLimit  int
	QuotaKey    string
	QuotaLimit  int
	QuotaWindow time.Duration
}

// PlannerService runs the collect → fetch → generate pipeline for one trip
// request. archive and quota may be nil (batch runs without a quota window).
type PlannerService struct {
	search  domain.SearchClient
	llm     domain.CompletionClient
	archive domain.PlanArchive
	quota   domain.QuotaStore
	cfg     PlannerConfig
}

func NewPlannerService(search domain.SearchClient, llm domain.CompletionClient,
	archive domain.PlanArchive, quota domain.QuotaStore, cfg PlannerConfig) *PlannerService {
	if cfg.MaxFlights <= 0 {
		cfg.MaxFlights = 3
	}
	if cfg.PlaceLimit <= 0 {
		cfg.PlaceLimit = 5
	}
	if cfg.QuotaKey == "" {
		cfg.QuotaKey = "quota:plan"
	}
	return &PlannerService{search: search, llm: llm, archive: archive, quota: quota, cfg: cfg}
}

// PlanTrip validates the request, fetches search data, generates notes and an
// itinerary, archives the outcome and returns it. Provider failures degrade
// to a partial or empty plan; only invalid input, quota exhaustion and a
// total search failure come back as errors.
func (s *PlannerService) PlanTrip(ctx context.Context, req domain.TripRequest) (domain.TripPlan, error) {
	if err := req.Validate(); err != nil {
		observability.ObservePlan("rejected")
		return domain.TripPlan{}, err
	}

	if s.quota != nil {
		ok, err := s.quota.Allow(ctx, s.cfg.QuotaKey, s.cfg.QuotaLimit, s.cfg.QuotaWindow)
		if err != nil {
			// quota store down must not take planning with it
			log.Warn().Err(err).Msg("quota check failed, allowing")
		} else if !ok {
			observability.ObservePlan("rejected")
			return domain.TripPlan{}, domain.ErrQuotaExceeded
		}
	}

	if req.Currency == "" {
		req.Currency = s.cfg.Currency
	}

	plan := domain.TripPlan{
		ID:        uuid.NewString(),
		Request:   req,
		CreatedAt: time.Now().UTC(),
	}

	searchCalls, searchFails := s.fetch(ctx, &plan)
	if searchFails == searchCalls {
		plan.Status = domain.StatusEmpty
		observability.ObservePlan(string(plan.Status))
		s.archivePlan(ctx, plan)
		return plan, fmt.Errorf("%w: all search stages failed", domain.ErrSearch)
	}
	if plan.Search.Empty() {
		// searches answered but had nothing usable: explicit empty state,
		// no point burning completion calls on it
		plan.Warnings = append(plan.Warnings, "no search results for this trip")
		plan.Status = domain.StatusEmpty
		observability.ObservePlan(string(plan.Status))
		s.archivePlan(ctx, plan)
		return plan, nil
	}

	s.generate(ctx, &plan)

	switch {
	case plan.Itinerary != nil:
		plan.Status = domain.StatusComplete
	default:
		plan.Status = domain.StatusPartial
	}
	observability.ObservePlan(string(plan.Status))
	s.archivePlan(ctx, plan)
	return plan, nil
}

// fetch runs the four search stages, each best-effort. Returns how many
// stages ran and how many errored.
func (s *PlannerService) fetch(ctx context.Context, plan *domain.TripPlan) (calls, fails int) {
	req := plan.Request

	calls++
	if payload, err := s.search.FlightSearch(ctx, domain.FlightQuery{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		Currency:      req.Currency,
	}); err != nil {
		fails++
		log.Warn().Err(err).Str("plan", plan.ID).Msg("flight search failed")
		plan.Warnings = append(plan.Warnings, "flight search failed")
	} else {
		plan.Search.Flights = mapFlights(payload, req.Currency, s.cfg.MaxFlights)
		if len(plan.Search.Flights) == 0 {
			plan.Warnings = append(plan.Warnings, "no flights found for these dates")
		}
	}

	type stage struct {
		query string
		kind  domain.PlaceKind
		dst   *[]domain.PlaceListing
	}
	for _, st := range []stage{
		{fmt.Sprintf("top attractions and activities in %s", req.Destination), domain.PlaceAttraction, &plan.Search.Attractions},
		{fmt.Sprintf("best %s hotels in %s", req.Budget, req.Destination), domain.PlaceHotel, &plan.Search.Hotels},
		{fmt.Sprintf("best restaurants near attractions in %s", req.Destination), domain.PlaceRestaurant, &plan.Search.Restaurants},
	} {
		calls++
		payload, err := s.search.PlaceSearch(ctx, st.query)
		if err != nil {
			fails++
			log.Warn().Err(err).Str("plan", plan.ID).Str("kind", string(st.kind)).Msg("place search failed")
			plan.Warnings = append(plan.Warnings, string(st.kind)+" search failed")
			continue
		}
		*st.dst = mapPlaces(payload, st.kind, s.cfg.PlaceLimit)
	}
	return calls, fails
}

// generate runs the three completion stages. Research and hotel notes are
// best-effort inputs to the final itinerary; an itinerary failure leaves the
// plan partial, never errors out.
func (s *PlannerService) generate(ctx context.Context, plan *domain.TripPlan) {
	req := plan.Request

	if notes, err := s.llm.Complete(ctx, researcherSystem, buildResearchPrompt(req, plan.Search.Attractions)); err != nil {
		log.Warn().Err(err).Str("plan", plan.ID).Msg("research generation failed")
		plan.Warnings = append(plan.Warnings, "attraction research unavailable")
	} else {
		plan.Research = &notes
	}

	if notes, err := s.llm.Complete(ctx, finderSystem, buildFinderPrompt(req, plan.Search.Hotels, plan.Search.Restaurants)); err != nil {
		log.Warn().Err(err).Str("plan", plan.ID).Msg("hotel notes generation failed")
		plan.Warnings = append(plan.Warnings, "hotel and dining notes unavailable")
	} else {
		plan.HotelNotes = &notes
	}

	content, err := s.llm.Complete(ctx, plannerSystem, buildItineraryPrompt(req, *plan))
	if err != nil {
		log.Warn().Err(err).Str("plan", plan.ID).Msg("itinerary generation failed")
		plan.Warnings = append(plan.Warnings, "itinerary generation failed; showing search results only")
		return
	}
	it, err := parseItinerary(content)
	if err != nil {
		log.Warn().Err(err).Str("plan", plan.ID).Msg("itinerary rejected")
		plan.Warnings = append(plan.Warnings, "itinerary generation failed; showing search results only")
		return
	}
	plan.Itinerary = it
}

func (s *PlannerService) archivePlan(ctx context.Context, plan domain.TripPlan) {
	if s.archive == nil {
		return
	}
	if err := s.archive.SavePlan(ctx, plan); err != nil {
		log.Warn().Err(err).Str("plan", plan.ID).Msg("archive save failed")
	}
}

func (s *PlannerService) GetPlan(ctx context.Context, id string) (domain.TripPlan, error) {
	return s.archive.GetPlan(ctx, id)
}

func (s *PlannerService) ListPlans(ctx context.Context, limit int) ([]domain.PlanSummary, error) {
	return s.archive.ListPlans(ctx, limit)
}
