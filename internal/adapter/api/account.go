package api

import (
	"net/http"
	"time"

	identityapp "github.com/burenotti/go_training_backend/internal/app/identity"
	"github.com/burenotti/go_training_backend/internal/domain/account"
	"github.com/labstack/echo/v4"
)

func (s *Server) MountAccounts() {
	loginRequired := LoginRequired(s.verifier, s.logger)

	s.handler.GET("/me", s.GetMe, loginRequired)
	s.handler.POST("/me", s.RegisterMe, loginRequired)
	s.handler.PATCH("/me", s.UpdateMe, loginRequired)
}

// currentAccount resolves the signed in principal. The account may be a
// synthesized one that is not stored yet.
func (s *Server) currentAccount(c echo.Context) (*account.Account, error) {
	ctx := c.Request().Context()
	return s.identityService.Resolve(ctx, s.units.Identity, identityapp.ActiveSession(ctx))
}

// registeredAccount is currentAccount for operations that need a stored
// account.
func (s *Server) registeredAccount(c echo.Context) (*account.Account, error) {
	a, err := s.currentAccount(c)
	if err != nil {
		return nil, err
	}
	if !a.Persisted() {
		return nil, errNotRegistered
	}
	return a, nil
}

func (s *Server) trainerAccount(c echo.Context) (*account.Account, error) {
	a, err := s.registeredAccount(c)
	if err != nil {
		return nil, err
	}
	if a.Role != account.RoleTrainer {
		return nil, errTrainerOnly
	}
	return a, nil
}

type AccountResponse struct {
	AccountID   int64      `json:"account_id"`
	Registered  bool       `json:"registered"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

func accountResponse(a *account.Account) AccountResponse {
	resp := AccountResponse{
		AccountID:   int64(a.AccountID),
		Registered:  a.Persisted(),
		DisplayName: a.DisplayName,
		Email:       a.Email,
		Role:        string(a.Role),
		AvatarURL:   a.AvatarURL,
	}
	if a.Persisted() {
		createdAt := a.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

func (s *Server) GetMe(c echo.Context) error {
	a, err := s.currentAccount(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, accountResponse(a))
}

type RegisterRequest struct {
	Role string `json:"role" validate:"required,oneof=student trainer"`
}

func (s *Server) RegisterMe(c echo.Context) error {
	var req RegisterRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	role, err := account.ParseRole(req.Role)
	if err != nil {
		return s.fail(c, err)
	}

	ctx := c.Request().Context()
	a, err := s.identityService.Register(ctx, s.units.Identity, identityapp.ActiveSession(ctx), role)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, accountResponse(a))
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=120"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,url"`
}

func (s *Server) UpdateMe(c echo.Context) error {
	var req UpdateProfileRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	me, err := s.registeredAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	a, err := s.identityService.UpdateProfile(
		c.Request().Context(),
		s.units.Identity,
		me.AccountID,
		req.DisplayName,
		req.AvatarURL,
	)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, accountResponse(a))
}
