//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"trip_planner/internal/domain"
	mysqlrepo "trip_planner/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pfloat(f float64) *float64 { return &f }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func samplePlan(id string) domain.TripPlan {
	return domain.TripPlan{
		ID: id,
		Request: domain.TripRequest{
			Origin: "BOM", Destination: "DEL",
			DepartureDate: "2026-09-01", ReturnDate: "2026-09-06",
			Days: 5, Theme: domain.ThemeSolo, Budget: domain.BudgetEconomy,
			Activities: "museums", Currency: "INR",
		},
		Search: domain.SearchResult{
			Flights: []domain.FlightOption{
				{Airline: "IndiGo", Price: pfloat(4500), Currency: "INR"},
			},
			Hotels: []domain.PlaceListing{
				{Name: "The Imperial", Kind: domain.PlaceHotel, Rating: pfloat(4.7)},
			},
		},
		Research:   pstr("Attractions research."),
		HotelNotes: pstr("Stay near Connaught Place."),
		Itinerary: &domain.Itinerary{Days: []domain.DayPlan{
			{Day: 1, Summary: "Arrival", Activities: []domain.Activity{{Slot: "morning", Title: "Fly in"}}},
		}},
		Status:    domain.StatusComplete,
		Warnings:  []string{"no flights found for these dates"},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// ---------- the test ----------
func TestRepo_MySQL_SaveGetList(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=tripplanner",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "tripplanner")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	p := samplePlan("11111111-1111-1111-1111-111111111111")
	if err := repo.SavePlan(ctx, p); err != nil {
		t.Fatalf("SavePlan: %v", err)
	}

	// Saving again with a new status must update, not duplicate.
	p.Status = domain.StatusPartial
	p.Itinerary = nil
	if err := repo.SavePlan(ctx, p); err != nil {
		t.Fatalf("SavePlan (update): %v", err)
	}

	got, err := repo.GetPlan(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if got.Status != domain.StatusPartial {
		t.Fatalf("status = %s", got.Status)
	}
	if got.Request.Destination != "DEL" || got.Request.Days != 5 {
		t.Fatalf("request round-trip: %+v", got.Request)
	}
	if len(got.Search.Flights) != 1 || got.Search.Flights[0].Airline != "IndiGo" {
		t.Fatalf("search round-trip: %+v", got.Search)
	}
	if got.Research == nil || *got.Research != "Attractions research." {
		t.Fatalf("research round-trip: %v", got.Research)
	}
	if len(got.Warnings) != 1 {
		t.Fatalf("warnings round-trip: %v", got.Warnings)
	}

	second := samplePlan("22222222-2222-2222-2222-222222222222")
	second.CreatedAt = second.CreatedAt.Add(time.Minute)
	if err := repo.SavePlan(ctx, second); err != nil {
		t.Fatalf("SavePlan second: %v", err)
	}

	sums, err := repo.ListPlans(ctx, 10)
	if err != nil {
		t.Fatalf("ListPlans: %v", err)
	}
	if len(sums) != 2 || sums[0].ID != second.ID {
		t.Fatalf("unexpected listing: %+v", sums)
	}

	if _, err := repo.GetPlan(ctx, "missing-id"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
