package api

import (
	"context"
	"net/http"
	"time"

	"github.com/burenotti/go_training_backend/internal/domain/account"
	"github.com/burenotti/go_training_backend/internal/domain/goal"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

func (s *Server) MountGoals() {
	loginRequired := LoginRequired(s.verifier, s.logger)

	goals := s.handler.Group("/goals", loginRequired)
	goals.POST("", s.CreateGoal)
	goals.GET("", s.ListGoals)
	goals.GET("/:goal_id", s.GetGoal)
	goals.POST("/:goal_id/entries", s.RecordGoalProgress)
	goals.DELETE("/:goal_id", s.DeleteGoal)
}

type GoalEntryResponse struct {
	RecordedAt time.Time `json:"recorded_at"`
	Value      float64   `json:"value"`
}

type GoalResponse struct {
	GoalID     int64               `json:"goal_id"`
	Metric     string              `json:"metric"`
	Target     float64             `json:"target"`
	Unit       string              `json:"unit"`
	Current    float64             `json:"current"`
	Progress   float64             `json:"progress"`
	StartDate  time.Time           `json:"start_date"`
	TargetDate *time.Time          `json:"target_date,omitempty"`
	History    []GoalEntryResponse `json:"history"`
}

func goalResponse(g *goal.Goal) GoalResponse {
	return GoalResponse{
		GoalID:     int64(g.GoalID),
		Metric:     string(g.Metric),
		Target:     g.Target,
		Unit:       g.Unit,
		Current:    g.Current(),
		Progress:   g.Progress(),
		StartDate:  g.StartDate,
		TargetDate: g.TargetDate,
		History: lo.Map(g.History, func(e goal.Entry, _ int) GoalEntryResponse {
			return GoalEntryResponse{RecordedAt: e.RecordedAt, Value: e.Value}
		}),
	}
}

type CreateGoalRequest struct {
	Metric       string     `json:"metric" validate:"required,oneof=weight workout_frequency measurements muscle_mass"`
	Target       float64    `json:"target" validate:"required,gt=0"`
	Unit         string     `json:"unit" validate:"required,max=20"`
	InitialValue float64    `json:"initial_value" validate:"gte=0"`
	TargetDate   *time.Time `json:"target_date,omitempty"`
}

func (s *Server) CreateGoal(c echo.Context) error {
	var req CreateGoalRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	me, err := s.registeredAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	metric, err := goal.ParseMetric(req.Metric)
	if err != nil {
		return s.fail(c, err)
	}

	g, err := s.goalService.CreateGoal(
		c.Request().Context(),
		s.units.Goal,
		goal.AccountID(me.AccountID),
		metric,
		req.Target,
		req.Unit,
		req.InitialValue,
		req.TargetDate,
	)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, goalResponse(g))
}

func (s *Server) ListGoals(c echo.Context) error {
	me, err := s.registeredAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	goals, err := s.goalService.ListGoals(c.Request().Context(), s.units.Goal, goal.AccountID(me.AccountID))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(goals, func(g *goal.Goal, _ int) GoalResponse {
		return goalResponse(g)
	}))
}

// ownGoal loads the goal and checks that it belongs to me.
func (s *Server) ownGoal(ctx context.Context, me *account.Account, id goal.ID) (*goal.Goal, error) {
	g, err := s.goalService.GetGoal(ctx, s.units.Goal, id)
	if err != nil {
		return nil, err
	}
	if g.OwnerID != goal.AccountID(me.AccountID) {
		return nil, errNotYours
	}
	return g, nil
}

type GoalIDRequest struct {
	GoalID int64 `param:"goal_id" validate:"required,gt=0"`
}

func (s *Server) GetGoal(c echo.Context) error {
	var req GoalIDRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	me, err := s.registeredAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	g, err := s.ownGoal(c.Request().Context(), me, goal.ID(req.GoalID))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, goalResponse(g))
}

type RecordProgressRequest struct {
	GoalID int64   `param:"goal_id" validate:"required,gt=0"`
	Value  float64 `json:"value" validate:"gte=0"`
}

func (s *Server) RecordGoalProgress(c echo.Context) error {
	var req RecordProgressRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	me, err := s.registeredAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	ctx := c.Request().Context()
	if _, err := s.ownGoal(ctx, me, goal.ID(req.GoalID)); err != nil {
		return s.fail(c, err)
	}

	g, err := s.goalService.RecordProgress(ctx, s.units.Goal, goal.ID(req.GoalID), req.Value)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, goalResponse(g))
}

func (s *Server) DeleteGoal(c echo.Context) error {
	var req GoalIDRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	me, err := s.registeredAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	ctx := c.Request().Context()
	if _, err := s.ownGoal(ctx, me, goal.ID(req.GoalID)); err != nil {
		return s.fail(c, err)
	}

	if err := s.goalService.DeleteGoal(ctx, s.units.Goal, goal.ID(req.GoalID)); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
