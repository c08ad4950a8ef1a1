package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nvallon/trainlog-api/internal/domain"
	"github.com/nvallon/trainlog-api/internal/service"
	"github.com/nvallon/trainlog-api/internal/util"
)

type WorkoutHandler struct {
	workouts *service.WorkoutService
}

// WorkoutCreateRequest carries the fields for a new log entry. There is no
// owner field: the owner is always the authenticated user.
type WorkoutCreateRequest struct {
	WorkoutDate     string   `json:"workout_date" example:"2024-01-01"`
	Category        string   `json:"category" example:"run"`
	DurationMinutes int      `json:"duration_minutes" example:"30"`
	DistanceKM      float64  `json:"distance_km" example:"5"`
	Tags            []string `json:"tags,omitempty" example:"outdoor,morning"`
	Notes           *string  `json:"notes,omitempty" example:"easy pace"`
}

type WorkoutResponse struct {
	Workout domain.Workout `json:"workout"`
}

type WorkoutListResponse struct {
	Workouts  []domain.Workout        `json:"workouts"`
	Aggregate domain.WorkoutAggregate `json:"aggregate"`
}

type WorkoutAggregateResponse struct {
	Aggregate domain.WorkoutAggregate `json:"aggregate"`
}

func RegisterWorkouts(e *echo.Echo, auth *service.AuthService, workouts *service.WorkoutService) {
	handler := &WorkoutHandler{workouts: workouts}

	group := e.Group("/api/v1/workouts", RequireAuth(auth))
	group.POST("", handler.createWorkout)
	group.GET("", handler.listWorkouts)
	group.GET("/aggregate", handler.aggregate)
}

// createWorkout handles POST /api/v1/workouts
func (h *WorkoutHandler) createWorkout(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req WorkoutCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	input := service.WorkoutCreateInput{
		WorkoutDate:     req.WorkoutDate,
		Category:        req.Category,
		DurationMinutes: req.DurationMinutes,
		DistanceKM:      req.DistanceKM,
		Tags:            req.Tags,
		Notes:           req.Notes,
	}

	workout, err := h.workouts.CreateWorkout(c.Request().Context(), user.ID, input)
	if err != nil {
		if verrs, ok := domain.AsValidation(err); ok {
			// Echo the submitted values back so the client can re-display
			// the form; sanitized first since they may carry markup.
			echoed := input
			echoed.Sanitize()
			payload := util.FieldErrors("validation failed", verrs)
			payload["input"] = echoed
			return c.JSON(http.StatusBadRequest, payload)
		}
		c.Logger().Errorf("create workout: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
	}

	return c.JSON(http.StatusCreated, WorkoutResponse{Workout: *workout})
}

// listWorkouts handles GET /api/v1/workouts
func (h *WorkoutHandler) listWorkouts(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	filter, err := parseWorkoutFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	ctx := c.Request().Context()
	workouts, err := h.workouts.ListWorkouts(ctx, user.ID, filter)
	if err != nil {
		c.Logger().Errorf("list workouts: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
	}
	agg, err := h.workouts.Aggregate(ctx, user.ID, filter)
	if err != nil {
		c.Logger().Errorf("aggregate workouts: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
	}

	return c.JSON(http.StatusOK, WorkoutListResponse{Workouts: workouts, Aggregate: *agg})
}

// aggregate handles GET /api/v1/workouts/aggregate, the chart payload.
func (h *WorkoutHandler) aggregate(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	filter, err := parseWorkoutFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	agg, err := h.workouts.Aggregate(c.Request().Context(), user.ID, filter)
	if err != nil {
		c.Logger().Errorf("aggregate workouts: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
	}

	return c.JSON(http.StatusOK, WorkoutAggregateResponse{Aggregate: *agg})
}

func parseWorkoutFilter(c echo.Context) (domain.WorkoutFilter, error) {
	filter := domain.WorkoutFilter{
		Search: strings.TrimSpace(c.QueryParam("search")),
		Tag:    strings.TrimSpace(c.QueryParam("tag")),
	}

	if raw := strings.TrimSpace(c.QueryParam("start")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return domain.WorkoutFilter{}, fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", raw)
		}
		filter.DateFrom = &parsed
	}
	if raw := strings.TrimSpace(c.QueryParam("end")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return domain.WorkoutFilter{}, fmt.Errorf("invalid end date %q, expected YYYY-MM-DD", raw)
		}
		filter.DateUntil = &parsed
	}
	if filter.DateFrom != nil && filter.DateUntil != nil && filter.DateUntil.Before(*filter.DateFrom) {
		return domain.WorkoutFilter{}, fmt.Errorf("end date precedes start date")
	}

	return filter, nil
}
