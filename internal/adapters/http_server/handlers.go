package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"trip_planner/internal/adapters/pdf"
	"trip_planner/internal/domain"
)

// PlanService is what the handlers need from the app layer.
type PlanService interface {
	PlanTrip(ctx context.Context, req domain.TripRequest) (domain.TripPlan, error)
	GetPlan(ctx context.Context, id string) (domain.TripPlan, error)
	ListPlans(ctx context.Context, limit int) ([]domain.PlanSummary, error)
}

type Handlers struct{ S PlanService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/", h.tripForm)
	s.mux.Post("/plan", h.planFromForm)
	s.mux.Post("/v1/plans", h.createPlan)
	s.mux.Get("/v1/plans", h.listPlans)
	s.mux.Get("/v1/plans/{id}", h.getPlan)
	s.mux.Get("/v1/plans/{id}/pdf", h.planPDF)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// planProblem maps a planner error to its problem response.
func planProblem(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingInput):
		writeProblem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	case errors.Is(err, domain.ErrQuotaExceeded):
		writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "plan generation quota exhausted, retry later")
	case errors.Is(err, domain.ErrSearch):
		writeProblem(w, http.StatusBadGateway, "Search Unavailable", "the search provider could not be reached")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "plan not found")
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) createPlan(w http.ResponseWriter, r *http.Request) {
	var req domain.TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Input", "body must be a trip request JSON object")
		return
	}

	plan, err := h.S.PlanTrip(r.Context(), req)
	if err != nil {
		planProblem(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(plan); err != nil {
		log.Error().Err(err).Msg("failed to write createPlan body")
	}
}

func (h *Handlers) getPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.S.GetPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		planProblem(w, err)
		return
	}

	etag, body := calcETagAndBody(plan)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getPlan body")
	}
}

func (h *Handlers) listPlans(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}

	sums, err := h.S.ListPlans(r.Context(), limit)
	if err != nil {
		planProblem(w, err)
		return
	}
	if sums == nil {
		sums = []domain.PlanSummary{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]any{"items": sums}); err != nil {
		log.Error().Err(err).Msg("failed to write listPlans body")
	}
}

func (h *Handlers) planPDF(w http.ResponseWriter, r *http.Request) {
	plan, err := h.S.GetPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		planProblem(w, err)
		return
	}

	body, name, err := pdf.Render(plan)
	if err != nil {
		log.Error().Err(err).Str("plan", plan.ID).Msg("pdf render failed")
		writeProblem(w, http.StatusInternalServerError, "Export Failed", "")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write planPDF body")
	}
}

/********** form UI **********/

func (h *Handlers) tripForm(w http.ResponseWriter, r *http.Request) {
	renderForm(w, http.StatusOK, "")
}

func (h *Handlers) planFromForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderForm(w, http.StatusBadRequest, "could not read the form")
		return
	}
	req := tripRequestFromForm(r)

	plan, err := h.S.PlanTrip(r.Context(), req)
	switch {
	case err == nil:
		renderResults(w, plan)
	case errors.Is(err, domain.ErrMissingInput):
		renderForm(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrQuotaExceeded):
		renderForm(w, http.StatusTooManyRequests, "too many plans requested right now, try again in a minute")
	case errors.Is(err, domain.ErrSearch):
		renderForm(w, http.StatusBadGateway, "the search provider is unavailable, try again later")
	default:
		renderForm(w, http.StatusInternalServerError, "something went wrong, try again")
	}
}

func tripRequestFromForm(r *http.Request) domain.TripRequest {
	atoi := func(s string) int {
		n, _ := strconv.Atoi(strings.TrimSpace(s))
		return n
	}
	rating := 0
	if v := r.FormValue("hotel_rating"); v != "" && !strings.EqualFold(v, "any") {
		rating = atoi(v)
	}
	return domain.TripRequest{
		Origin:        strings.ToUpper(strings.TrimSpace(r.FormValue("origin"))),
		Destination:   strings.ToUpper(strings.TrimSpace(r.FormValue("destination"))),
		DepartureDate: strings.TrimSpace(r.FormValue("departure_date")),
		ReturnDate:    strings.TrimSpace(r.FormValue("return_date")),
		Days:          atoi(r.FormValue("days")),
		Theme:         domain.TravelTheme(r.FormValue("theme")),
		Activities:    strings.TrimSpace(r.FormValue("activities")),
		Budget:        domain.BudgetTier(r.FormValue("budget")),
		FlightClass:   r.FormValue("flight_class"),
		HotelRating:   rating,
		Currency:      strings.ToUpper(strings.TrimSpace(r.FormValue("currency"))),
	}
}
