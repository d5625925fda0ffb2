// README: Config loader with env defaults for HTTP, trip source, cache, heatmap, and AI settings.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

var (
	ErrUnknownSource = errors.New("unknown input source")
	ErrMissingDSN    = errors.New("postgres input source requires RIDE_DB_DSN")
)

type HeatmapConfig struct {
	CenterLat  float64
	CenterLng  float64
	Zoom       int
	Radius     int
	OutputPath string
}

type CacheConfig struct {
	Size int
	TTL  time.Duration
}

type Config struct {
	HTTP struct {
		Addr string
	}
	Input struct {
		Source string
		Path   string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	Cache    CacheConfig
	Heatmap  HeatmapConfig
	Currency string
	Maps     struct {
		APIKey string
	}
	AI struct {
		GeminiKey string
	}
}

func Load() (Config, error) {
	cfg := FromEnv()
	return cfg, cfg.Validate()
}

// FromEnv reads the environment without validating it, for callers that
// override fields before checking them.
func FromEnv() Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("RIDE_HTTP_ADDR", ":8080")
	cfg.Input.Source = envOrDefault("RIDE_INPUT_SOURCE", SourceCSV)
	cfg.Input.Path = envOrDefault("RIDE_INPUT_PATH", "uber_data.csv")
	cfg.DB.DSN = envOrDefault("RIDE_DB_DSN", "")
	cfg.Redis.Addr = envOrDefault("RIDE_REDIS_ADDR", "")
	cfg.Cache.Size = envOrDefaultInt("RIDE_CACHE_SIZE", 64)
	cfg.Cache.TTL = time.Duration(envOrDefaultInt("RIDE_CACHE_TTL_SECONDS", 3600)) * time.Second
	cfg.Heatmap.CenterLat = envOrDefaultFloat("RIDE_HEATMAP_LAT", -23.5489)
	cfg.Heatmap.CenterLng = envOrDefaultFloat("RIDE_HEATMAP_LNG", -46.6388)
	cfg.Heatmap.Zoom = envOrDefaultInt("RIDE_HEATMAP_ZOOM", 12)
	cfg.Heatmap.Radius = envOrDefaultInt("RIDE_HEATMAP_RADIUS", 10)
	cfg.Heatmap.OutputPath = envOrDefault("RIDE_HEATMAP_OUTPUT", "heatmap.html")
	cfg.Currency = envOrDefault("RIDE_CURRENCY", "BRL")
	cfg.Maps.APIKey = envOrDefault("GOOGLE_MAPS_API_KEY", "")
	cfg.AI.GeminiKey = envOrDefault("GEMINI_API_KEY", "")
	return cfg
}

func (c Config) Validate() error {
	switch c.Input.Source {
	case SourceCSV:
		return nil
	case SourcePostgres:
		if c.DB.DSN == "" {
			return ErrMissingDSN
		}
		return nil
	default:
		return ErrUnknownSource
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}
