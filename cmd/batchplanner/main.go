package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/adapters/openai"
	"trip_planner/internal/adapters/serpapi"
	"trip_planner/internal/app"
	"trip_planner/internal/batch"
	"trip_planner/internal/shared"
	mysqlrepo "trip_planner/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("file", cfg.TripsFile).
		Int("workers", cfg.Workers).
		Msg("batch planner starting")

	trips, err := batch.Load(cfg.TripsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("loading trips failed")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	search, err := serpapi.New(cfg.SerpBase, cfg.SerpKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize search client")
	}
	llm, err := openai.New(cfg.OpenAIBase, cfg.OpenAIKey, cfg.OpenAIModel, 2)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize completion client")
	}

	archive := mysqlrepo.New(db)
	// no quota window offline; the clients' own rate limiters pace the run
	svc := app.NewPlannerService(search, llm, archive, nil, app.PlannerConfig{
		Currency:   cfg.Currency,
		MaxFlights: cfg.MaxFlights,
		PlaceLimit: cfg.PlaceLimit,
	})

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for i, trip := range trips {
		i, trip := i, trip

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			plan, err := svc.PlanTrip(ctx, trip)
			if err != nil {
				log.Warn().Int("trip", i+1).Str("dest", trip.Destination).Err(err).Msg("plan failed")
				return
			}
			log.Info().
				Int("trip", i+1).
				Str("id", plan.ID).
				Str("dest", trip.Destination).
				Str("status", string(plan.Status)).
				Msg("plan ok")
		}()
	}

	wg.Wait()
	log.Info().Msg("batch completed")
}
