package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "trip_planner/internal/adapters/http_server"
	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/adapters/openai"
	redisad "trip_planner/internal/adapters/redis"
	"trip_planner/internal/adapters/serpapi"
	"trip_planner/internal/app"
	"trip_planner/internal/shared"
	mysqlrepo "trip_planner/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// providers
	search, err := serpapi.New(cfg.SerpBase, cfg.SerpKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize search client")
	}
	llm, err := openai.New(cfg.OpenAIBase, cfg.OpenAIKey, cfg.OpenAIModel, 2)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize completion client")
	}

	// deps
	archive := mysqlrepo.New(db)
	quota := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	svc := app.NewPlannerService(search, llm, archive, quota, app.PlannerConfig{
		Currency:    cfg.Currency,
		MaxFlights:  cfg.MaxFlights,
		PlaceLimit:  cfg.PlaceLimit,
		QuotaLimit:  cfg.QuotaLimit,
		QuotaWindow: cfg.QuotaWindow,
	})

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: svc})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
