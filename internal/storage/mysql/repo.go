package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"trip_planner/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valJSON(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SavePlan(ctx context.Context, p domain.TripPlan) error {
	reqJSON, err := valJSON(p.Request)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	searchJSON, err := valJSON(p.Search)
	if err != nil {
		return fmt.Errorf("marshal search: %w", err)
	}
	var itinJSON any
	if p.Itinerary != nil {
		if itinJSON, err = valJSON(p.Itinerary); err != nil {
			return fmt.Errorf("marshal itinerary: %w", err)
		}
	}
	var warnJSON any
	if len(p.Warnings) > 0 {
		if warnJSON, err = valJSON(p.Warnings); err != nil {
			return fmt.Errorf("marshal warnings: %w", err)
		}
	}

	_, err = r.db.ExecContext(ctx, upsertPlanSQL,
		p.ID,
		p.Request.Origin,
		p.Request.Destination,
		p.Request.DepartureDate,
		p.Request.ReturnDate,
		string(p.Status),
		reqJSON,
		searchJSON,
		valStr(p.Research),
		valStr(p.HotelNotes),
		itinJSON,
		warnJSON,
		p.CreatedAt.UTC(),
	)
	return err
}

func (r *Repo) GetPlan(ctx context.Context, id string) (domain.TripPlan, error) {
	row := r.db.QueryRowContext(ctx, getPlanSQL, id)

	var p domain.TripPlan
	var status string
	var reqJSON, searchJSON []byte
	var research, hotelNotes sql.NullString
	var itinJSON, warnJSON []byte

	if err := row.Scan(
		&p.ID,
		&status,
		&reqJSON,
		&searchJSON,
		&research,
		&hotelNotes,
		&itinJSON,
		&warnJSON,
		&p.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.TripPlan{}, domain.ErrNotFound
		}
		return domain.TripPlan{}, err
	}

	p.Status = domain.PlanStatus(status)
	if err := json.Unmarshal(reqJSON, &p.Request); err != nil {
		return domain.TripPlan{}, fmt.Errorf("unmarshal request: %w", err)
	}
	if len(searchJSON) > 0 {
		if err := json.Unmarshal(searchJSON, &p.Search); err != nil {
			return domain.TripPlan{}, fmt.Errorf("unmarshal search: %w", err)
		}
	}
	if research.Valid {
		s := research.String
		p.Research = &s
	}
	if hotelNotes.Valid {
		s := hotelNotes.String
		p.HotelNotes = &s
	}
	if len(itinJSON) > 0 {
		var it domain.Itinerary
		if err := json.Unmarshal(itinJSON, &it); err != nil {
			return domain.TripPlan{}, fmt.Errorf("unmarshal itinerary: %w", err)
		}
		p.Itinerary = &it
	}
	if len(warnJSON) > 0 {
		_ = json.Unmarshal(warnJSON, &p.Warnings)
	}
	return p, nil
}

func (r *Repo) ListPlans(ctx context.Context, limit int) ([]domain.PlanSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, listPlansSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PlanSummary
	for rows.Next() {
		var s domain.PlanSummary
		var status string
		if err := rows.Scan(&s.ID, &s.Origin, &s.Destination, &status, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Status = domain.PlanStatus(status)
		out = append(out, s)
	}
	return out, rows.Err()
}
