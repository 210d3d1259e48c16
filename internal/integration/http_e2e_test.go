//go:build integration || !unit

package integration

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "trip_planner/internal/adapters/http_server"
	"trip_planner/internal/adapters/openai"
	"trip_planner/internal/adapters/serpapi"
	"trip_planner/internal/app"
	"trip_planner/internal/domain"
	mysqlrepo "trip_planner/internal/storage/mysql"
)

// ---------- helpers ----------

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

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=tripplanner",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/tripplanner?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

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
	return db
}

// canned provider backends; the real clients talk to these over HTTP.

func fakeSerpAPI(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		switch r.URL.Query().Get("engine") {
		case "google_flights":
			payload = map[string]any{
				"best_flights": []any{
					map[string]any{
						"price":          4500.0,
						"total_duration": 125.0,
						"flights": []any{map[string]any{
							"airline":           "IndiGo",
							"flight_number":     "6E 333",
							"departure_airport": map[string]any{"id": "BOM", "time": "2026-09-01 06:10"},
							"arrival_airport":   map[string]any{"id": "DEL", "time": "2026-09-01 08:15"},
						}},
					},
				},
			}
		default:
			payload = map[string]any{
				"local_results": map[string]any{
					"places": []any{map[string]any{"title": "Red Fort", "rating": 4.6}},
				},
			}
		}
		w.WriteHeader(200)
		_ = json.NewEncoder(w).Encode(payload)
	}))
}

func fakeOpenAI(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		content := "Notes."
		// the planner prompt demands a JSON itinerary
		if msgs, ok := req["messages"].([]any); ok && len(msgs) > 0 {
			if sys, ok := msgs[0].(map[string]any); ok {
				if s, _ := sys["content"].(string); strings.Contains(s, "JSON object") {
					content = `{"days":[{"day":1,"summary":"Arrival","activities":[{"slot":"morning","title":"Fly to DEL"}]}]}`
				}
			}
		}
		w.WriteHeader(200)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
		})
	}))
}

// ---------- the test ----------

func TestHTTP_E2E_PlanAndFetch(t *testing.T) {
	db := startMySQL(t)

	serpTS := fakeSerpAPI(t)
	defer serpTS.Close()
	openaiTS := fakeOpenAI(t)
	defer openaiTS.Close()

	search, err := serpapi.New(serpTS.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("serpapi client: %v", err)
	}
	llm, err := openai.New(openaiTS.URL, "test-key", "gpt-4o", 100)
	if err != nil {
		t.Fatalf("openai client: %v", err)
	}

	archive := mysqlrepo.New(db)
	svc := app.NewPlannerService(search, llm, archive, nil, app.PlannerConfig{Currency: "INR"})

	srv := server.New()
	srv.MountHandlers(&server.Handlers{S: svc})
	api := httptest.NewServer(srv.Mux())
	defer api.Close()

	// 1) create a plan
	body := `{"origin":"BOM","destination":"DEL","departure_date":"2026-09-01","return_date":"2026-09-06","days":5,"theme":"adventure","budget":"standard"}`
	resp, err := http.Post(api.URL+"/v1/plans", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/plans: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("POST status: %d", resp.StatusCode)
	}
	var created domain.TripPlan
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()

	if created.Status != domain.StatusComplete {
		t.Fatalf("status = %s: %+v", created.Status, created.Warnings)
	}
	if len(created.Search.Flights) != 1 || created.Search.Flights[0].Airline != "IndiGo" {
		t.Fatalf("flights: %+v", created.Search.Flights)
	}
	if created.Itinerary == nil || len(created.Itinerary.Days) != 1 {
		t.Fatalf("itinerary: %+v", created.Itinerary)
	}

	// 2) the archive serves it back
	resp2, err := http.Get(api.URL + "/v1/plans/" + created.ID)
	if err != nil {
		t.Fatalf("GET plan: %v", err)
	}
	etag := resp2.Header.Get("ETag")
	var fetched domain.TripPlan
	if err := json.NewDecoder(resp2.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode fetched: %v", err)
	}
	resp2.Body.Close()
	if fetched.ID != created.ID || fetched.Research == nil {
		t.Fatalf("fetched mismatch: %+v", fetched)
	}

	// 3) conditional fetch short-circuits
	req, _ := http.NewRequest("GET", api.URL+"/v1/plans/"+created.ID, nil)
	req.Header.Set("If-None-Match", etag)
	resp3, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("conditional GET: %v", err)
	}
	resp3.Body.Close()
	if resp3.StatusCode != http.StatusNotModified {
		t.Fatalf("conditional status: %d", resp3.StatusCode)
	}

	// 4) listing includes it
	resp4, err := http.Get(api.URL + "/v1/plans?limit=10")
	if err != nil {
		t.Fatalf("GET list: %v", err)
	}
	var listing struct {
		Items []domain.PlanSummary `json:"items"`
	}
	if err := json.NewDecoder(resp4.Body).Decode(&listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	resp4.Body.Close()
	if len(listing.Items) != 1 || listing.Items[0].ID != created.ID {
		t.Fatalf("listing: %+v", listing.Items)
	}
}
