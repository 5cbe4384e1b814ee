// Command transitrouter is the HTTP entry point, grounded on the
// teacher's main.go almost verbatim structurally (pgxpool setup, chi
// router, cors, middleware stack, routes table), rewired to build
// netidx/costmodel/weights/query instead of routing.Raptor directly.
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"

	"github.com/antigravity/transit-mc-router/internal/applog"
	"github.com/antigravity/transit-mc-router/internal/catalog"
	"github.com/antigravity/transit-mc-router/internal/catalog/pgcatalog"
	"github.com/antigravity/transit-mc-router/internal/config"
	"github.com/antigravity/transit-mc-router/internal/costmodel"
	"github.com/antigravity/transit-mc-router/internal/handler"
	"github.com/antigravity/transit-mc-router/internal/query"
	"github.com/antigravity/transit-mc-router/internal/weights/anp"
)

func main() {
	cfg := config.Load()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		applog.LoadFailed(err)
		os.Exit(1)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		applog.LoadFailed(err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		applog.LoadFailed(err)
		os.Exit(1)
	}
	applog.Connected(cfg.DatabaseURL)

	cat := pgcatalog.New(pool, cfg.WalkSpeedKmh)
	svc, err := buildQueryService(context.Background(), cat, cfg)
	if err != nil {
		applog.LoadFailed(err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	h := handler.New(cat, svc)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok", "service":"transit_mc_router"}`))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, `{"status":"error", "db":"disconnected"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok", "db":"connected"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/stations", h.GetStations)
		r.Get("/stations/{id}", h.GetStation)
		r.Get("/lines", h.GetLines)
		r.Get("/lines/{id}", h.GetLineDetails)
		r.Get("/route", h.GetRoute)
	})

	applog.Starting(cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		applog.LoadFailed(err)
		os.Exit(1)
	}
}

// buildQueryService loads the full catalog once at startup and assembles
// the static search inputs (netidx, costmodel, weights) query.Service
// holds read-only across concurrent requests, per spec §5.
func buildQueryService(ctx context.Context, cat catalog.Catalog, cfg config.Config) (*query.Service, error) {
	stations, err := cat.Stations(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := cat.Lines(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := query.BuildIndex(stations, lines)
	if err != nil {
		return nil, err
	}

	sections, err := cat.Sections(ctx, "", catalog.Weekday)
	if err != nil {
		return nil, err
	}
	scores, err := cat.ConvenienceScores(ctx)
	if err != nil {
		return nil, err
	}
	cost := costmodel.New(sections, scores)

	edges, err := cat.TransferEdges(ctx)
	if err != nil {
		return nil, err
	}

	weightsTable := anp.New(anp.DefaultMatrices())

	return query.NewService(idx, cost, edges, weightsTable, cfg.Epsilon, cfg.MaxBucketSize), nil
}
