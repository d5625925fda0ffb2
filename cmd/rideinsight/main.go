// README: CLI runner; loads the export once and prints one or all query reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"rideinsight/internal/config"
	"rideinsight/internal/infra"
	"rideinsight/internal/modules/analytics"
	"rideinsight/internal/modules/heatmap"
	"rideinsight/internal/modules/trips"
	"rideinsight/internal/types"
)

func main() {
	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	tbl, err := loadTable(ctx, cfg)
	if err != nil {
		log.Fatalf("load trips: %v", err)
	}
	renderer, err := heatmap.NewRenderer(cfg.MapsAPIKey, cfg.HeatmapOutput)
	if err != nil {
		log.Fatalf("heatmap init: %v", err)
	}
	engine := analytics.NewEngine(renderer, analytics.Settings{
		Center:   types.Point{Lat: cfg.HeatmapLat, Lng: cfg.HeatmapLng},
		Zoom:     cfg.HeatmapZoom,
		Radius:   cfg.HeatmapRadius,
		Currency: cfg.Currency,
	})
	svc := analytics.NewService(engine, tbl, nil)

	if !cfg.All {
		report, err := svc.Submit(ctx, cfg.Query)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(report.Text())
		return
	}

	results := NewRunner(svc).RunAll(ctx)
	fmt.Println("\n== Summary ==")
	ok, noData, fail := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case StatusOK:
			ok++
		case StatusNoData:
			noData++
		case StatusFail:
			fail++
		}
	}
	fmt.Printf("OK=%d NO_DATA=%d FAIL=%d\n", ok, noData, fail)
	if fail > 0 {
		os.Exit(1)
	}
}

type Config struct {
	Source        string
	Input         string
	DSN           string
	Query         string
	All           bool
	Timeout       time.Duration
	Currency      string
	HeatmapLat    float64
	HeatmapLng    float64
	HeatmapZoom   int
	HeatmapRadius int
	HeatmapOutput string
	MapsAPIKey    string
}

// parseConfig starts from the service config so the CLI and the API agree on
// defaults, then lets flags override the input and the query. The source is
// validated after flags so -dsn can satisfy a postgres source set in the env.
func parseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	base := config.FromEnv()
	cfg := Config{
		Currency:      base.Currency,
		HeatmapLat:    base.Heatmap.CenterLat,
		HeatmapLng:    base.Heatmap.CenterLng,
		HeatmapZoom:   base.Heatmap.Zoom,
		HeatmapRadius: base.Heatmap.Radius,
		HeatmapOutput: base.Heatmap.OutputPath,
		MapsAPIKey:    base.Maps.APIKey,
	}
	fs.StringVar(&cfg.Source, "source", base.Input.Source, "Trip source: csv or postgres")
	fs.StringVar(&cfg.Input, "input", base.Input.Path, "Trip export CSV path")
	fs.StringVar(&cfg.DSN, "dsn", base.DB.DSN, "Postgres DSN for the postgres source")
	fs.StringVar(&cfg.Query, "query", envOrDefault("RIDE_QUERY", "a"), "Query id (a-h)")
	fs.BoolVar(&cfg.All, "all", false, "Run every query in menu order")
	fs.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("RIDE_CLI_TIMEOUT", 60*time.Second), "Total timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	base.Input.Source = cfg.Source
	base.DB.DSN = cfg.DSN
	if err := base.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %s", err, strconv.Quote(cfg.Source))
	}
	return cfg, nil
}

func loadTable(ctx context.Context, cfg Config) (*trips.Table, error) {
	switch cfg.Source {
	case config.SourceCSV:
		return trips.LoadFile(cfg.Input)
	case config.SourcePostgres:
		if cfg.DSN == "" {
			return nil, config.ErrMissingDSN
		}
		db, err := infra.NewDB(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return trips.NewStore(db).Load(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownSource, strconv.Quote(cfg.Source))
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
