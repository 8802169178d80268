package http

import (
	"github.com/gin-gonic/gin"
	"github.com/nutriswap/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		v1.GET("/nutrients", handler.ListNutrients)
		v1.POST("/nutrients/totals", handler.MealTotals)

		foods := v1.Group("/foods")
		{
			foods.GET("/search", handler.SearchFoods)
			foods.GET("/:id", handler.GetFood)
		}

		swaps := v1.Group("/swaps")
		{
			swaps.POST("/suggest", handler.SuggestSwap)
			swaps.POST("/optimize", handler.OptimizeGoals)
			swaps.POST("/apply", handler.ApplySwaps)
		}

		meals := v1.Group("/meals")
		{
			meals.POST("", handler.LogMeal)
			meals.GET("", handler.GetMeal)
		}

		users := v1.Group("/users/:user")
		{
			users.GET("/intake/daily", handler.DailyIntake)
			users.GET("/intake/averages", handler.PeriodAverages)
			users.GET("/foodguide", handler.FoodGuide)
			users.GET("/swap-impact", handler.SwapImpact)
		}
	}

	return router
}
