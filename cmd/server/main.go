package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nutriswap/backend/config"
	httpDelivery "github.com/nutriswap/backend/internal/delivery/http"
	"github.com/nutriswap/backend/internal/infrastructure/cache"
	"github.com/nutriswap/backend/internal/infrastructure/store"
	applog "github.com/nutriswap/backend/internal/log"
	"github.com/nutriswap/backend/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		applog.Error(context.Background(), "server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := applog.SetLevel(cfg.Log.Level); err != nil {
		return err
	}

	applog.Info(ctx, "starting nutriswap backend",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
		"cache", cfg.Cache.Type)

	scaling, err := usecase.ParseScalingPolicy(cfg.Engine.Scaling)
	if err != nil {
		return err
	}

	// Initialize infrastructure dependencies
	db, err := store.Open(cfg.Database)
	if err != nil {
		return err
	}
	catalog := store.NewNutrientStore(db)
	mealLog := store.NewMealLogStore(db)

	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()

	// Initialize usecase layer
	profiles := usecase.NewProfileService(catalog, memoryCache, usecase.ProfileServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	})
	services := httpDelivery.Services{
		Profiles:    profiles,
		Swaps:       usecase.NewSwapService(catalog, mealLog),
		Optimizer:   usecase.NewGoalOptimizer(catalog),
		Aggregation: usecase.NewAggregationService(profiles, mealLog, usecase.AggregationServiceConfig{Scaling: scaling}),
		FoodGuide:   usecase.NewFoodGuideService(profiles, mealLog),
		Meals:       usecase.NewMealService(catalog, mealLog),
		Search: usecase.NewSearchService(catalog, usecase.SearchServiceConfig{
			MinScore:            cfg.Search.MinScore,
			MaxCandidates:       cfg.Search.MaxCandidates,
			EnableFuzzyMatching: cfg.Search.EnableFuzzyMatching,
		}),
	}

	applog.Info(ctx, "engine configured",
		"scaling", string(scaling),
		"cache_ttl", cfg.Cache.TTL.String(),
		"rate_per_ip", cfg.RateLimit.PerIP,
		"search_min_score", cfg.Search.MinScore,
		"fuzzy", cfg.Search.EnableFuzzyMatching)

	handler := httpDelivery.NewHandler(services)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	applog.Info(ctx, "server listening", "addr", addr)

	if err := router.Run(addr); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}
