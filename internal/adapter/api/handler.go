package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/burenotti/go_training_backend/internal/adapter/storage/backend"
	friendservice "github.com/burenotti/go_training_backend/internal/app/friendship"
	goalservice "github.com/burenotti/go_training_backend/internal/app/goal"
	identityapp "github.com/burenotti/go_training_backend/internal/app/identity"
	measurementservice "github.com/burenotti/go_training_backend/internal/app/measurement"
	workoutservice "github.com/burenotti/go_training_backend/internal/app/workout"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	slogecho "github.com/samber/slog-echo"
)

type Server struct {
	handler            *echo.Echo
	logger             *slog.Logger
	addr               string
	units              *backend.Units
	verifier           identityapp.Verifier
	identityService    *identityapp.Service
	friendService      *friendservice.Service
	workoutService     *workoutservice.Service
	goalService        *goalservice.Service
	measurementService *measurementservice.Service
	validator          *validator.Validate
}

func NewServer(opt ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.WriteTimeout = 10 * time.Second
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.IdleTimeout = 10 * time.Second
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.MaxHeaderBytes = 4096

	v := validator.New(validator.WithRequiredStructEnabled())

	s := &Server{
		handler:   e,
		validator: v,
		logger:    slog.Default(),
	}

	for _, opt := range opt {
		opt(s)
	}

	e.Use(slogecho.NewWithConfig(s.logger, slogecho.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelInfo,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	}))
	s.Mount()
	return s
}

func (s *Server) Mount() {
	s.MountAccounts()
	s.MountFriendships()
	s.MountExercises()
	s.MountWorkouts()
	s.MountGoals()
	s.MountMeasurements()
}

func (s *Server) Start() error {
	return s.handler.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.handler.Shutdown(ctx)
}

// ServeHTTP makes the server usable with net/http tooling.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) bind(ctx echo.Context, i interface{}) error {
	if err := ctx.Bind(i); err != nil {
		return fmt.Errorf("bad request")
	}
	if err := s.validator.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return fmt.Errorf("bad request")
		}
		return fmt.Errorf("%s: %s", errs[0].Field(), errs[0].Error())

	}
	return nil
}
