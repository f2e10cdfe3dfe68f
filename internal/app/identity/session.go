package identityapp

import (
	"context"

	"github.com/burenotti/go_training_backend/internal/domain/account"
)

type sessionKey struct{}

// WithSession returns a copy of ctx carrying the provider session.
func WithSession(ctx context.Context, s *account.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// ActiveSession returns the session of the signed in principal, or nil when
// nobody is signed in.
func ActiveSession(ctx context.Context) *account.Session {
	s, _ := ctx.Value(sessionKey{}).(*account.Session)
	return s
}
