package api

import (
	"net/http"

	"github.com/burenotti/go_training_backend/internal/domain/workout"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

func (s *Server) MountExercises() {
	loginRequired := LoginRequired(s.verifier, s.logger)

	exercises := s.handler.Group("/exercises", loginRequired)
	exercises.GET("", s.ListExercises)
	exercises.POST("", s.CreateExercise)
	exercises.GET("/:exercise_id", s.GetExercise)
	exercises.PUT("/:exercise_id", s.UpdateExercise)
	exercises.DELETE("/:exercise_id", s.DeleteExercise)
}

type ExerciseResponse struct {
	ExerciseID  int64  `json:"exercise_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func exerciseResponse(e *workout.Exercise) ExerciseResponse {
	return ExerciseResponse{
		ExerciseID:  int64(e.ExerciseID),
		Name:        e.Name,
		Description: e.Description,
	}
}

func (s *Server) ListExercises(c echo.Context) error {
	exercises, err := s.workoutService.ListExercises(c.Request().Context(), s.units.Workout)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(exercises, func(e *workout.Exercise, _ int) ExerciseResponse {
		return exerciseResponse(e)
	}))
}

type ExerciseRequest struct {
	ExerciseID  int64  `param:"exercise_id"`
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
}

func (s *Server) CreateExercise(c echo.Context) error {
	var req ExerciseRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	if _, err := s.trainerAccount(c); err != nil {
		return s.fail(c, err)
	}

	e, err := s.workoutService.CreateExercise(c.Request().Context(), s.units.Workout, req.Name, req.Description)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, exerciseResponse(e))
}

type ExerciseIDRequest struct {
	ExerciseID int64 `param:"exercise_id" validate:"required,gt=0"`
}

func (s *Server) GetExercise(c echo.Context) error {
	var req ExerciseIDRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	e, err := s.workoutService.GetExercise(c.Request().Context(), s.units.Workout, workout.ExerciseID(req.ExerciseID))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, exerciseResponse(e))
}

func (s *Server) UpdateExercise(c echo.Context) error {
	var req ExerciseRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	if _, err := s.trainerAccount(c); err != nil {
		return s.fail(c, err)
	}

	e, err := s.workoutService.UpdateExercise(
		c.Request().Context(),
		s.units.Workout,
		workout.ExerciseID(req.ExerciseID),
		req.Name,
		req.Description,
	)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, exerciseResponse(e))
}

func (s *Server) DeleteExercise(c echo.Context) error {
	var req ExerciseIDRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	if _, err := s.trainerAccount(c); err != nil {
		return s.fail(c, err)
	}

	if err := s.workoutService.DeleteExercise(c.Request().Context(), s.units.Workout, workout.ExerciseID(req.ExerciseID)); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
