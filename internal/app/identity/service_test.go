package identityapp_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/burenotti/go_training_backend/internal/adapter/cache"
	"github.com/burenotti/go_training_backend/internal/adapter/storage/backend"
	identityapp "github.com/burenotti/go_training_backend/internal/app/identity"
	"github.com/burenotti/go_training_backend/internal/app/messagebus"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/account"
)

func setup(t *testing.T, opts ...identityapp.Option) (*identityapp.Service, *backend.Units) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := messagebus.New(logger)
	t.Cleanup(bus.Close)
	units := backend.NewUnits(backend.NewMemory(), bus, logger)
	return identityapp.New(logger, opts...), units
}

func session(ext string) *account.Session {
	return &account.Session{
		ExternalID: account.ExternalID(ext),
		Email:      ext + "@example.com",
		Name:       "User " + ext,
	}
}

func TestResolveWithoutSession(t *testing.T) {
	svc, units := setup(t)
	ctx := identityapp.WithSession(context.Background(), nil)

	_, err := svc.Resolve(ctx, units.Identity, identityapp.ActiveSession(ctx))
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("expected not authenticated, got %v", err)
	}
}

func TestResolveSynthesizesUnknownPrincipal(t *testing.T) {
	svc, units := setup(t)

	a, err := svc.Resolve(context.Background(), units.Identity, session("new"))
	if err != nil {
		t.Fatal(err)
	}
	if a.Persisted() || a.AccountID != 0 {
		t.Errorf("expected an unpersisted account, got id %d", a.AccountID)
	}
	if a.Role != account.RoleStudent || a.DisplayName != "User new" || a.Email != "new@example.com" {
		t.Errorf("unexpected synthesized account %+v", a)
	}

	again, err := svc.Resolve(context.Background(), units.Identity, session("new"))
	if err != nil {
		t.Fatal(err)
	}
	if again.Persisted() {
		t.Error("resolve must never persist")
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	svc, units := setup(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, units.Identity, session("ext"), account.RoleTrainer)
	if err != nil {
		t.Fatal(err)
	}
	if !first.Persisted() {
		t.Fatal("registered account must be persisted")
	}

	second, err := svc.Register(ctx, units.Identity, session("ext"), account.RoleStudent)
	if err != nil {
		t.Fatal(err)
	}
	if second.AccountID != first.AccountID || second.Role != account.RoleTrainer {
		t.Errorf("second registration changed the account: %+v", second)
	}

	resolved, err := svc.Resolve(ctx, units.Identity, session("ext"))
	if err != nil {
		t.Fatal(err)
	}
	if resolved.AccountID != first.AccountID {
		t.Errorf("resolve returned account %d, want %d", resolved.AccountID, first.AccountID)
	}
}

func TestRegisterConcurrently(t *testing.T) {
	svc, units := setup(t)
	ctx := context.Background()

	const n = 8
	ids := make([]account.ID, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := svc.Register(ctx, units.Identity, session("race"), account.RoleStudent)
			if err != nil {
				t.Error(err)
				return
			}
			ids[i] = a.AccountID
		}()
	}
	wg.Wait()

	for _, id := range ids {
		if id != ids[0] {
			t.Fatalf("expected one account for one identity, got %v", ids)
		}
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, units := setup(t)
	ctx := context.Background()

	a, err := svc.Register(ctx, units.Identity, session("ext"), account.RoleStudent)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.UpdateProfile(ctx, units.Identity, a.AccountID, "", ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, units.Identity, 999, "Name", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	if _, err := svc.UpdateProfile(ctx, units.Identity, a.AccountID, "Carla", "https://cdn/c.png"); err != nil {
		t.Fatal(err)
	}
	got, err := svc.GetAccount(ctx, units.Identity, a.AccountID)
	if err != nil {
		t.Fatal(err)
	}
	if got.DisplayName != "Carla" || got.AvatarURL != "https://cdn/c.png" {
		t.Errorf("profile not stored: %+v", got)
	}
}

func TestResolveUsesCache(t *testing.T) {
	r := miniredis.RunT(t)
	rc, err := cache.NewRedisCache(context.Background(), "redis://"+r.Addr(), time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	svc, units := setup(t, identityapp.WithCache(rc))
	ctx := context.Background()

	a, err := svc.Register(ctx, units.Identity, session("ext"), account.RoleTrainer)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Resolve(ctx, units.Identity, session("ext")); err != nil {
		t.Fatal(err)
	}
	if !r.Exists("account:ext") {
		t.Fatal("resolved account was not cached")
	}

	if _, err := svc.UpdateProfile(ctx, units.Identity, a.AccountID, "Renamed", ""); err != nil {
		t.Fatal(err)
	}
	if r.Exists("account:ext") {
		t.Error("profile update must invalidate the cached account")
	}

	resolved, err := svc.Resolve(ctx, units.Identity, session("ext"))
	if err != nil {
		t.Fatal(err)
	}
	if resolved.DisplayName != "Renamed" {
		t.Errorf("expected fresh account after invalidation, got %q", resolved.DisplayName)
	}
}

func TestResolveSkipsBrokenCache(t *testing.T) {
	r := miniredis.RunT(t)
	rc, err := cache.NewRedisCache(context.Background(), "redis://"+r.Addr(), time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	svc, units := setup(t, identityapp.WithCache(rc))
	ctx := context.Background()
	if _, err := svc.Register(ctx, units.Identity, session("ext"), account.RoleTrainer); err != nil {
		t.Fatal(err)
	}

	r.Close()

	a, err := svc.Resolve(ctx, units.Identity, session("ext"))
	if err != nil {
		t.Fatalf("cache failures must not fail resolve, got %v", err)
	}
	if !a.Persisted() {
		t.Error("expected stored account")
	}
}
