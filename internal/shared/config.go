package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	SerpBase    string
	SerpKey     string
	OpenAIBase  string
	OpenAIKey   string
	OpenAIModel string
	Currency    string
	Workers     int
	MaxFlights  int
	PlaceLimit  int
	QuotaLimit  int
	QuotaWindow time.Duration
	TripsFile   string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/tripplanner?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		SerpBase:    env("SERPAPI_BASE_URL", "https://serpapi.com"),
		SerpKey:     env("SERPAPI_KEY", ""),
		OpenAIBase:  env("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIKey:   env("OPENAI_API_KEY", ""),
		OpenAIModel: env("OPENAI_MODEL", "gpt-4o"),
		Currency:    env("CURRENCY", "INR"),
		Workers:     atoi("BATCH_WORKERS", 4),
		MaxFlights:  atoi("MAX_FLIGHTS", 3),
		PlaceLimit:  atoi("PLACE_LIMIT", 5),
		QuotaLimit:  atoi("QUOTA_LIMIT", 30),
		QuotaWindow: time.Duration(atoi("QUOTA_WINDOW_SECONDS", 60)) * time.Second,
		TripsFile:   env("TRIPS_FILE", "trips.yaml"),
	}
	if c.SerpKey == "" {
		log.Warn().Msg("SERPAPI_KEY is empty")
	}
	if c.OpenAIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
