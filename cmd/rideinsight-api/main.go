// README: Entry point; loads config and the trip export, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rideinsight/internal/ai"
	"rideinsight/internal/config"
	httptransport "rideinsight/internal/http"
	"rideinsight/internal/infra"
	"rideinsight/internal/modules/analytics"
	"rideinsight/internal/modules/heatmap"
	"rideinsight/internal/modules/trips"
	"rideinsight/internal/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tbl, err := loadTable(ctx, cfg)
	if err != nil {
		log.Fatalf("load trips: %v", err)
	}

	renderer, err := heatmap.NewRenderer(cfg.Maps.APIKey, cfg.Heatmap.OutputPath)
	if err != nil {
		log.Fatalf("heatmap init: %v", err)
	}
	engine := analytics.NewEngine(renderer, analytics.Settings{
		Center:   types.Point{Lat: cfg.Heatmap.CenterLat, Lng: cfg.Heatmap.CenterLng},
		Zoom:     cfg.Heatmap.Zoom,
		Radius:   cfg.Heatmap.Radius,
		Currency: cfg.Currency,
	})

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	if redisClient != nil {
		defer redisClient.Close()
	}
	cache := analytics.NewCache(cfg.Cache.Size, cfg.Cache.TTL, redisClient)
	querySvc := analytics.NewService(engine, tbl, cache)

	var provider ai.LLMProvider
	if cfg.AI.GeminiKey != "" {
		gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer gemini.Close()
		provider = gemini
	} else {
		log.Println("GEMINI_API_KEY not set; /api/ask disabled")
	}

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Queries: querySvc,
		AI:      provider,
	})
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func loadTable(ctx context.Context, cfg config.Config) (*trips.Table, error) {
	if cfg.Input.Source != config.SourcePostgres {
		return trips.LoadFile(cfg.Input.Path)
	}
	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	// The export is read once; nothing queries the database afterwards.
	defer dbPool.Close()
	return trips.NewStore(dbPool).Load(ctx)
}
