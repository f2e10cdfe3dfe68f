package api

import (
	"log/slog"
	"net"
	"strconv"

	"github.com/burenotti/go_training_backend/internal/adapter/storage/backend"
	friendservice "github.com/burenotti/go_training_backend/internal/app/friendship"
	goalservice "github.com/burenotti/go_training_backend/internal/app/goal"
	identityapp "github.com/burenotti/go_training_backend/internal/app/identity"
	measurementservice "github.com/burenotti/go_training_backend/internal/app/measurement"
	workoutservice "github.com/burenotti/go_training_backend/internal/app/workout"
)

type Option func(*Server)

func Addr(host string, port int) Option {
	return func(s *Server) {
		s.addr = net.JoinHostPort(host, strconv.Itoa(port))
	}
}

func Logger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

func Units(u *backend.Units) Option {
	return func(s *Server) {
		s.units = u
	}
}

func Verifier(v identityapp.Verifier) Option {
	return func(s *Server) {
		s.verifier = v
	}
}

func IdentityService(service *identityapp.Service) Option {
	return func(s *Server) {
		s.identityService = service
	}
}

func FriendService(service *friendservice.Service) Option {
	return func(s *Server) {
		s.friendService = service
	}
}

func WorkoutService(service *workoutservice.Service) Option {
	return func(s *Server) {
		s.workoutService = service
	}
}

func GoalService(service *goalservice.Service) Option {
	return func(s *Server) {
		s.goalService = service
	}
}

func MeasurementService(service *measurementservice.Service) Option {
	return func(s *Server) {
		s.measurementService = service
	}
}
