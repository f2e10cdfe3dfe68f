package api

import (
	"net/http"
	"time"

	"github.com/burenotti/go_training_backend/internal/domain/friendship"
	"github.com/burenotti/go_training_backend/internal/domain/workout"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

func (s *Server) MountWorkouts() {
	loginRequired := LoginRequired(s.verifier, s.logger)

	workouts := s.handler.Group("/workouts", loginRequired)
	workouts.POST("", s.CreateWorkout)
	workouts.GET("", s.ListMyWorkouts)
	workouts.GET("/assigned", s.ListAssignedWorkouts)
	workouts.GET("/:workout_id", s.GetWorkout)
	workouts.DELETE("/:workout_id", s.DeleteWorkout)
	workouts.POST("/:workout_id/assignments", s.AssignWorkout)
	workouts.POST("/:workout_id/share", s.ShareWorkout)

	s.handler.GET("/students/:student_id/workouts", s.ListStudentWorkouts, loginRequired)
}

type LineItemRequest struct {
	ExerciseID int64   `json:"exercise_id" validate:"required,gt=0"`
	Sets       int     `json:"sets" validate:"required,gt=0"`
	Reps       int     `json:"reps" validate:"required,gt=0"`
	Load       float64 `json:"load" validate:"gte=0"`
}

type CreateWorkoutRequest struct {
	Name        string            `json:"name" validate:"required,max=120"`
	Description string            `json:"description" validate:"max=2000"`
	Exercises   []LineItemRequest `json:"exercises" validate:"dive"`
}

type LineItemResponse struct {
	ExerciseID  int64   `json:"exercise_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Sets        int     `json:"sets"`
	Reps        int     `json:"reps"`
	Load        float64 `json:"load"`
}

type WorkoutResponse struct {
	WorkoutID   int64              `json:"workout_id"`
	OwnerID     int64              `json:"owner_id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Exercises   []LineItemResponse `json:"exercises"`
	CreatedAt   time.Time          `json:"created_at"`
}

func workoutResponse(d *workout.Detailed) WorkoutResponse {
	return WorkoutResponse{
		WorkoutID:   int64(d.WorkoutID),
		OwnerID:     int64(d.OwnerID),
		Name:        d.Name,
		Description: d.Description,
		Exercises: lo.Map(d.Items, func(i workout.DetailedItem, _ int) LineItemResponse {
			return LineItemResponse{
				ExerciseID:  int64(i.ExerciseID),
				Name:        i.Name,
				Description: i.Description,
				Sets:        i.Sets,
				Reps:        i.Reps,
				Load:        i.Load,
			}
		}),
		CreatedAt: d.CreatedAt,
	}
}

type ScheduledWorkoutResponse struct {
	AssignmentID int64           `json:"assignment_id"`
	Weekday      string          `json:"weekday"`
	Shared       bool            `json:"shared"`
	Workout      WorkoutResponse `json:"workout"`
}

func scheduledResponse(sc *workout.Scheduled, _ int) ScheduledWorkoutResponse {
	return ScheduledWorkoutResponse{
		AssignmentID: int64(sc.AssignmentID),
		Weekday:      string(sc.Weekday),
		Shared:       sc.Shared(),
		Workout:      workoutResponse(&sc.Workout),
	}
}

type AssignmentResponse struct {
	AssignmentID int64  `json:"assignment_id"`
	WorkoutID    int64  `json:"workout_id"`
	StudentID    int64  `json:"student_id"`
	Weekday      string `json:"weekday"`
}

func assignmentResponse(a *workout.Assignment) AssignmentResponse {
	return AssignmentResponse{
		AssignmentID: int64(a.AssignmentID),
		WorkoutID:    int64(a.WorkoutID),
		StudentID:    int64(a.StudentID),
		Weekday:      string(a.Weekday),
	}
}

func (s *Server) CreateWorkout(c echo.Context) error {
	var req CreateWorkoutRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	me, err := s.trainerAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	items := lo.Map(req.Exercises, func(li LineItemRequest, _ int) workout.LineItem {
		return workout.LineItem{
			ExerciseID: workout.ExerciseID(li.ExerciseID),
			Sets:       li.Sets,
			Reps:       li.Reps,
			Load:       li.Load,
		}
	})

	ctx := c.Request().Context()
	w, err := s.workoutService.CreateWorkout(ctx, s.units.Workout, workout.AccountID(me.AccountID), req.Name, req.Description, items)
	if err != nil {
		return s.fail(c, err)
	}

	d, err := s.workoutService.GetWorkout(ctx, s.units.Workout, w.WorkoutID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, workoutResponse(d))
}

type WorkoutIDRequest struct {
	WorkoutID int64 `param:"workout_id" validate:"required,gt=0"`
}

func (s *Server) GetWorkout(c echo.Context) error {
	var req WorkoutIDRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	d, err := s.workoutService.GetWorkout(c.Request().Context(), s.units.Workout, workout.ID(req.WorkoutID))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, workoutResponse(d))
}

func (s *Server) ListMyWorkouts(c echo.Context) error {
	me, err := s.trainerAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	workouts, err := s.workoutService.ListForTrainer(c.Request().Context(), s.units.Workout, workout.AccountID(me.AccountID))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(workouts, func(d *workout.Detailed, _ int) WorkoutResponse {
		return workoutResponse(d)
	}))
}

func (s *Server) ListAssignedWorkouts(c echo.Context) error {
	me, err := s.registeredAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	schedule, err := s.workoutService.ListForStudent(c.Request().Context(), s.units.Workout, workout.AccountID(me.AccountID))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(schedule, scheduledResponse))
}

type StudentIDRequest struct {
	StudentID int64 `param:"student_id" validate:"required,gt=0"`
}

func (s *Server) ListStudentWorkouts(c echo.Context) error {
	var req StudentIDRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	if _, err := s.trainerAccount(c); err != nil {
		return s.fail(c, err)
	}

	schedule, err := s.workoutService.ListForStudent(c.Request().Context(), s.units.Workout, workout.AccountID(req.StudentID))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(schedule, scheduledResponse))
}

type AssignWorkoutRequest struct {
	WorkoutID int64  `param:"workout_id" validate:"required,gt=0"`
	StudentID int64  `json:"student_id" validate:"required,gt=0"`
	Weekday   string `json:"weekday" validate:"required,oneof=Mon Tue Wed Thu Fri Sat Sun"`
}

func (s *Server) AssignWorkout(c echo.Context) error {
	var req AssignWorkoutRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	me, err := s.trainerAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	ctx := c.Request().Context()
	d, err := s.workoutService.GetWorkout(ctx, s.units.Workout, workout.ID(req.WorkoutID))
	if err != nil {
		return s.fail(c, err)
	}
	if d.OwnerID != workout.AccountID(me.AccountID) {
		return s.fail(c, workout.ErrNotOwner)
	}

	a, err := s.workoutService.Assign(
		ctx,
		s.units.Workout,
		workout.ID(req.WorkoutID),
		workout.AccountID(req.StudentID),
		workout.Weekday(req.Weekday),
	)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, assignmentResponse(a))
}

type ShareWorkoutRequest struct {
	WorkoutID   int64 `param:"workout_id" validate:"required,gt=0"`
	RecipientID int64 `json:"recipient_id" validate:"required,gt=0"`
}

type ShareWorkoutResponse struct {
	Workout    WorkoutResponse    `json:"workout"`
	Assignment AssignmentResponse `json:"assignment"`
}

// ShareWorkout copies a workout to another account. The caller must own the
// workout, or have it assigned and be an accepted friend of the recipient.
func (s *Server) ShareWorkout(c echo.Context) error {
	var req ShareWorkoutRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	me, err := s.registeredAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	ctx := c.Request().Context()
	src, err := s.workoutService.GetWorkout(ctx, s.units.Workout, workout.ID(req.WorkoutID))
	if err != nil {
		return s.fail(c, err)
	}
	if src.OwnerID != workout.AccountID(me.AccountID) {
		schedule, err := s.workoutService.ListForStudent(ctx, s.units.Workout, workout.AccountID(me.AccountID))
		if err != nil {
			return s.fail(c, err)
		}
		assigned := lo.ContainsBy(schedule, func(sc *workout.Scheduled) bool {
			return sc.Workout.WorkoutID == src.WorkoutID
		})
		if !assigned {
			return s.fail(c, errNotAssigned)
		}

		ok, err := s.friendService.AreFriends(
			ctx,
			s.units.Friendship,
			friendship.AccountID(me.AccountID),
			friendship.AccountID(req.RecipientID),
		)
		if err != nil {
			return s.fail(c, err)
		}
		if !ok {
			return s.fail(c, errNotFriends)
		}
	}

	copied, a, err := s.workoutService.Share(ctx, s.units.Workout, workout.ID(req.WorkoutID), workout.AccountID(req.RecipientID))
	if err != nil {
		return s.fail(c, err)
	}

	d, err := s.workoutService.GetWorkout(ctx, s.units.Workout, copied.WorkoutID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, ShareWorkoutResponse{
		Workout:    workoutResponse(d),
		Assignment: assignmentResponse(a),
	})
}

func (s *Server) DeleteWorkout(c echo.Context) error {
	var req WorkoutIDRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	me, err := s.trainerAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	err = s.workoutService.DeleteWorkoutAs(
		c.Request().Context(),
		s.units.Workout,
		workout.ID(req.WorkoutID),
		workout.AccountID(me.AccountID),
	)
	if err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
