package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nutriswap/backend/internal/domain"
	applog "github.com/nutriswap/backend/internal/log"
	"github.com/nutriswap/backend/internal/usecase"
)

// Services bundles the use cases served over HTTP. Nil services answer 503.
type Services struct {
	Profiles    *usecase.ProfileService
	Swaps       *usecase.SwapService
	Optimizer   *usecase.GoalOptimizer
	Aggregation *usecase.AggregationService
	FoodGuide   *usecase.FoodGuideService
	Meals       *usecase.MealService
	Search      *usecase.SearchService
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	services Services
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services) *Handler {
	return &Handler{services: services}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nutriswap-backend",
		"version": "1.0.0",
	})
}

// ListNutrients returns the nutrient vocabulary
func (h *Handler) ListNutrients(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"nutrients": domain.Vocabulary()})
}

// SearchFoods handles GET /foods/search?q=&limit=
func (h *Handler) SearchFoods(c *gin.Context) {
	if h.services.Search == nil {
		notConfigured(c, "food search")
		return
	}
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, invalid("limit must be a positive integer"))
			return
		}
		limit = n
	}

	query := c.Query("q")
	matches, err := h.services.Search.SearchFoods(c.Request.Context(), query, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "results": matches})
}

// GetFood returns a food with its per-100 g nutrient vector
func (h *Handler) GetFood(c *gin.Context) {
	if h.services.Profiles == nil {
		notConfigured(c, "food profiles")
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, invalid("food id must be an integer"))
		return
	}

	profile, err := h.services.Profiles.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"food":                 profile.Food,
		"category":             domain.Classify(profile.Food.GroupID),
		"amountsPer100g":       profile.Amounts,
		"percentOfRecommended": usecase.PercentOfRecommended(profile.Amounts),
	})
}

type suggestRequest struct {
	FoodID int             `json:"foodId" binding:"required"`
	Goal   domain.SwapGoal `json:"goal" binding:"required"`
}

// SuggestSwap handles POST /swaps/suggest
func (h *Handler) SuggestSwap(c *gin.Context) {
	if h.services.Swaps == nil {
		notConfigured(c, "swap suggestions")
		return
	}
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalid(err.Error()))
		return
	}

	food, err := h.services.Swaps.SuggestSwap(c.Request.Context(), req.FoodID, req.Goal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foodId": req.FoodID, "goal": req.Goal, "replacement": food})
}

type optimizeRequest struct {
	Goals []domain.SwapGoal `json:"goals"`
}

// OptimizeGoals handles POST /swaps/optimize
func (h *Handler) OptimizeGoals(c *gin.Context) {
	if h.services.Optimizer == nil {
		notConfigured(c, "goal optimizer")
		return
	}
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalid(err.Error()))
		return
	}

	foods, err := h.services.Optimizer.OptimizeGoals(c.Request.Context(), req.Goals)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": req.Goals, "count": len(foods), "foods": foods})
}

type applyRequest struct {
	UserID string          `json:"userId" binding:"required"`
	Goal   domain.SwapGoal `json:"goal" binding:"required"`
	Start  string          `json:"start" binding:"required"`
	End    string          `json:"end" binding:"required"`
}

// ApplySwaps handles POST /swaps/apply
func (h *Handler) ApplySwaps(c *gin.Context) {
	if h.services.Swaps == nil {
		notConfigured(c, "swap applier")
		return
	}
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalid(err.Error()))
		return
	}
	r, err := domain.ParseDateRange(req.Start, req.End)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.services.Swaps.ApplySwaps(c.Request.Context(), req.UserID, req.Goal, r.Start, r.End)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newApplyResponse(result))
}

type totalsRequest struct {
	Ingredients []domain.Ingredient `json:"ingredients"`
}

// MealTotals handles POST /nutrients/totals
func (h *Handler) MealTotals(c *gin.Context) {
	if h.services.Aggregation == nil {
		notConfigured(c, "aggregation")
		return
	}
	var req totalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalid(err.Error()))
		return
	}

	totals, err := h.services.Aggregation.TotalsForIngredients(c.Request.Context(), req.Ingredients)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scaling":              h.services.Aggregation.Scaling(),
		"totals":               totals,
		"percentOfRecommended": usecase.PercentOfRecommended(totals),
	})
}

type logMealRequest struct {
	UserID      string              `json:"userId" binding:"required"`
	MealType    string              `json:"mealType" binding:"required"`
	Date        string              `json:"date" binding:"required"`
	Ingredients []domain.Ingredient `json:"ingredients"`
}

// LogMeal handles POST /meals
func (h *Handler) LogMeal(c *gin.Context) {
	if h.services.Meals == nil {
		notConfigured(c, "meal log")
		return
	}
	var req logMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalid(err.Error()))
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	meal := &domain.Meal{
		UserID:      req.UserID,
		Type:        domain.MealType(req.MealType),
		Date:        date,
		Ingredients: req.Ingredients,
	}
	if err := h.services.Meals.LogMeal(c.Request.Context(), meal); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newMealResponse(meal))
}

// GetMeal handles GET /meals?user=&type=&date=
func (h *Handler) GetMeal(c *gin.Context) {
	if h.services.Meals == nil {
		notConfigured(c, "meal log")
		return
	}
	date, err := parseDate(c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}

	meal, err := h.services.Meals.GetMeal(c.Request.Context(), c.Query("user"), c.Query("type"), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMealResponse(meal))
}

// DailyIntake handles GET /users/:user/intake/daily?nutrient=&start=&end=
func (h *Handler) DailyIntake(c *gin.Context) {
	if h.services.Aggregation == nil {
		notConfigured(c, "aggregation")
		return
	}
	r, err := domain.ParseDateRange(c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}

	user := c.Param("user")
	nutrient := c.Query("nutrient")
	days, err := h.services.Aggregation.DailyTotals(c.Request.Context(), user, nutrient, r.Start, r.End)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":     user,
		"nutrient": nutrient,
		"start":    formatDate(r.Start),
		"end":      formatDate(r.End),
		"days":     newDailyResponse(days),
	})
}

// PeriodAverages handles GET /users/:user/intake/averages?start=&end=
func (h *Handler) PeriodAverages(c *gin.Context) {
	if h.services.Aggregation == nil {
		notConfigured(c, "aggregation")
		return
	}
	r, err := domain.ParseDateRange(c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}

	user := c.Param("user")
	averages, err := h.services.Aggregation.PeriodAverages(c.Request.Context(), user, r.Start, r.End)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":                 user,
		"start":                formatDate(r.Start),
		"end":                  formatDate(r.End),
		"averages":             averages,
		"percentOfRecommended": usecase.PercentOfRecommended(averages),
	})
}

// FoodGuide handles GET /users/:user/foodguide?start=&end=
func (h *Handler) FoodGuide(c *gin.Context) {
	if h.services.FoodGuide == nil {
		notConfigured(c, "food guide")
		return
	}
	r, err := domain.ParseDateRange(c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.services.FoodGuide.PlateProportions(c.Request.Context(), c.Param("user"), r.Start, r.End)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// SwapImpact handles GET /users/:user/swap-impact?nutrient=&start=&end=
func (h *Handler) SwapImpact(c *gin.Context) {
	if h.services.Aggregation == nil {
		notConfigured(c, "aggregation")
		return
	}
	r, err := domain.ParseDateRange(c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}

	user := c.Param("user")
	nutrient := c.Query("nutrient")
	days, err := h.services.Aggregation.SwapImpact(c.Request.Context(), user, nutrient, r.Start, r.End)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "nutrient": nutrient, "days": newImpactResponse(days)})
}

// errorResponse is the body of every failed request
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// respondError maps domain errors onto HTTP statuses. "No match" and
// "something went wrong" always get distinct codes.
func respondError(c *gin.Context, err error) {
	status, code := classify(err)
	ctx := c.Request.Context()
	if status >= http.StatusInternalServerError {
		applog.Error(ctx, "request failed", "path", c.FullPath(), "error", err)
	} else {
		applog.Debug(ctx, "request rejected", "path", c.FullPath(), "code", code, "error", err)
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error(), Code: code, RequestID: applog.RequestID(ctx)})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnknownNutrient):
		return http.StatusBadRequest, "unknown_nutrient"
	case errors.Is(err, domain.ErrInvalidRange):
		return http.StatusBadRequest, "invalid_range"
	case errors.Is(err, domain.ErrNoGoals):
		return http.StatusBadRequest, "no_goals"
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, domain.ErrNoMatch):
		return http.StatusNotFound, "no_match"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, domain.ErrDataAccess):
		return http.StatusServiceUnavailable, "data_access"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func notConfigured(c *gin.Context, what string) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, errorResponse{
		Error:     what + " not configured",
		Code:      "not_configured",
		RequestID: applog.RequestID(c.Request.Context()),
	})
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, strings.TrimSpace(msg))
}
