package backend

import (
	"log/slog"

	friendservice "github.com/burenotti/go_training_backend/internal/app/friendship"
	goalservice "github.com/burenotti/go_training_backend/internal/app/goal"
	identityapp "github.com/burenotti/go_training_backend/internal/app/identity"
	measurementservice "github.com/burenotti/go_training_backend/internal/app/measurement"
	"github.com/burenotti/go_training_backend/internal/app/unitofwork"
	workoutservice "github.com/burenotti/go_training_backend/internal/app/workout"
)

// Units holds one unit of work per service, all bound to the same backend.
type Units struct {
	Identity    *unitofwork.UnitOfWork[*identityapp.AtomicContext]
	Friendship  *unitofwork.UnitOfWork[*friendservice.AtomicContext]
	Workout     *unitofwork.UnitOfWork[*workoutservice.AtomicContext]
	Goal        *unitofwork.UnitOfWork[*goalservice.AtomicContext]
	Measurement *unitofwork.UnitOfWork[*measurementservice.AtomicContext]
}

func NewUnits(b Backend, bus unitofwork.MessageBus, logger *slog.Logger, opts ...unitofwork.Option) *Units {
	return &Units{
		Identity:    unitofwork.New(b, b.IdentityContext, bus, logger, opts...),
		Friendship:  unitofwork.New(b, b.FriendshipContext, bus, logger, opts...),
		Workout:     unitofwork.New(b, b.WorkoutContext, bus, logger, opts...),
		Goal:        unitofwork.New(b, b.GoalContext, bus, logger, opts...),
		Measurement: unitofwork.New(b, b.MeasurementContext, bus, logger, opts...),
	}
}
