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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/recipecost/internal/config"
	"github.com/Simplici0/recipecost/internal/costing"
	"github.com/Simplici0/recipecost/internal/db"
	"github.com/Simplici0/recipecost/internal/logger"
	"github.com/Simplici0/recipecost/internal/migrations"
	"github.com/Simplici0/recipecost/internal/scaling"
	"github.com/Simplici0/recipecost/internal/seed"
	"github.com/Simplici0/recipecost/internal/store"
	"github.com/Simplici0/recipecost/internal/units"
)

type server struct {
	store *store.Store
	units units.Source
	log   *logger.Logger

	targetFoodCostPercent float64
	prepExponent          float64
	cookExponent          float64
}

func main() {
	cfg := config.Load()

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Printf("warning: %v, using normal", err)
		level = logger.LevelNormal
	}
	lg := logger.New(level, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
	}

	if cfg.Seed {
		stats, err := seed.Run(database)
		if err != nil {
			log.Fatalf("failed to seed database: %v", err)
		}
		lg.Info("seed: %d inserts", stats.Inserts)
	}

	source, err := unitSource(ctx, cfg, lg)
	if err != nil {
		log.Fatalf("failed to load unit catalog: %v", err)
	}

	srv := &server{
		store:                 store.New(database),
		units:                 source,
		log:                   lg,
		targetFoodCostPercent: cfg.TargetFoodCostPercent,
		prepExponent:          cfg.PrepTimeExponent,
		cookExponent:          cfg.CookTimeExponent,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	lg.Info("listening on %s", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped: %v", err)
	}
}

// unitSource picks the embedded catalog, a fixed file, or a watched file.
func unitSource(ctx context.Context, cfg config.Config, lg *logger.Logger) (units.Source, error) {
	if cfg.UnitsPath == "" {
		return units.Static(units.Default()), nil
	}
	if !cfg.WatchUnits {
		cat, err := units.LoadFile(cfg.UnitsPath)
		if err != nil {
			return nil, err
		}
		return units.Static(cat), nil
	}

	w, err := units.NewWatcher(cfg.UnitsPath, lg)
	if err != nil {
		return nil, err
	}
	go func() {
		w.Run(ctx)
		_ = w.Close()
	}()
	lg.Info("watching unit catalog %s", cfg.UnitsPath)
	return w, nil
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/units", s.handleUnitsList)

		r.Get("/ingredients", s.handleIngredientsList)
		r.Post("/ingredients", s.handleIngredientCreate)
		r.Get("/ingredients/{id}", s.handleIngredientGet)
		r.Put("/ingredients/{id}", s.handleIngredientUpdate)
		r.Get("/ingredients/{id}/cost", s.handleIngredientCost)

		r.Get("/recipes", s.handleRecipesList)
		r.Post("/recipes", s.handleRecipeCreate)
		r.Get("/recipes/{id}", s.handleRecipeGet)
		r.Put("/recipes/{id}", s.handleRecipeUpdate)
		r.Get("/recipes/{id}/financials", s.handleRecipeFinancials)
		r.Get("/recipes/{id}/scale", s.handleRecipeScale)
		r.Post("/recipes/{id}/plan", s.handleRecipePlan)

		r.Get("/equipment", s.handleEquipmentList)
		r.Post("/equipment", s.handleEquipmentCreate)
		r.Get("/equipment/{id}", s.handleEquipmentGet)
	})

	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// Engine values are built per request from one catalog snapshot: the
// watcher may swap the catalog between requests.

func (s *server) calculator(cat *units.Catalog) *costing.Calculator {
	return costing.New(cat, costing.WithDefaultTarget(s.targetFoodCostPercent))
}

func (s *server) scaler() *scaling.Scaler {
	return scaling.NewScaler(scaling.WithExponents(s.prepExponent, s.cookExponent))
}
