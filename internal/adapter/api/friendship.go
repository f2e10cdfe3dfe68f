package api

import (
	"net/http"
	"time"

	"github.com/burenotti/go_training_backend/internal/domain/friendship"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

func (s *Server) MountFriendships() {
	loginRequired := LoginRequired(s.verifier, s.logger)

	friends := s.handler.Group("/friends", loginRequired)
	friends.GET("", s.ListFriends)
	friends.DELETE("/:account_id", s.RemoveFriend)
	friends.GET("/requests", s.ListFriendRequests)
	friends.POST("/requests", s.SendFriendRequest)
	friends.POST("/requests/:friendship_id/accept", s.AcceptFriendRequest)

	s.handler.GET("/accounts/search", s.SearchAccounts, loginRequired)
}

type ProfileResponse struct {
	AccountID   int64  `json:"account_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

func profileResponse(p friendship.Profile) ProfileResponse {
	return ProfileResponse{
		AccountID:   int64(p.AccountID),
		DisplayName: p.DisplayName,
		Email:       p.Email,
		Role:        p.Role,
		AvatarURL:   p.AvatarURL,
	}
}

type FriendResponse struct {
	ProfileResponse
	FriendshipID int64     `json:"friendship_id"`
	Since        time.Time `json:"since"`
}

type FriendRequestResponse struct {
	FriendshipID int64           `json:"friendship_id"`
	From         ProfileResponse `json:"from"`
	SentAt       time.Time       `json:"sent_at"`
}

type FriendshipResponse struct {
	FriendshipID int64  `json:"friendship_id"`
	RequesterID  int64  `json:"requester_id"`
	AddresseeID  int64  `json:"addressee_id"`
	Status       string `json:"status"`
}

func friendshipResponse(f *friendship.Friendship) FriendshipResponse {
	return FriendshipResponse{
		FriendshipID: int64(f.FriendshipID),
		RequesterID:  int64(f.RequesterID),
		AddresseeID:  int64(f.AddresseeID),
		Status:       string(f.Status),
	}
}

func (s *Server) ListFriends(c echo.Context) error {
	me, err := s.registeredAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	friends, err := s.friendService.ListFriends(c.Request().Context(), s.units.Friendship, friendship.AccountID(me.AccountID))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, lo.Map(friends, func(f *friendship.Friend, _ int) FriendResponse {
		return FriendResponse{
			ProfileResponse: profileResponse(f.Profile),
			FriendshipID:    int64(f.FriendshipID),
			Since:           f.Since,
		}
	}))
}

func (s *Server) ListFriendRequests(c echo.Context) error {
	me, err := s.registeredAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	requests, err := s.friendService.ListPending(c.Request().Context(), s.units.Friendship, friendship.AccountID(me.AccountID))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, lo.Map(requests, func(r *friendship.Request, _ int) FriendRequestResponse {
		return FriendRequestResponse{
			FriendshipID: int64(r.FriendshipID),
			From:         profileResponse(r.From),
			SentAt:       r.SentAt,
		}
	}))
}

type SendFriendRequestRequest struct {
	AccountID int64 `json:"account_id" validate:"required,gt=0"`
}

func (s *Server) SendFriendRequest(c echo.Context) error {
	var req SendFriendRequestRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	me, err := s.registeredAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	f, err := s.friendService.SendRequest(
		c.Request().Context(),
		s.units.Friendship,
		friendship.AccountID(me.AccountID),
		friendship.AccountID(req.AccountID),
	)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, friendshipResponse(f))
}

type AcceptFriendRequestRequest struct {
	FriendshipID int64 `param:"friendship_id" validate:"required,gt=0"`
}

func (s *Server) AcceptFriendRequest(c echo.Context) error {
	var req AcceptFriendRequestRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	me, err := s.registeredAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	f, err := s.friendService.AcceptAs(
		c.Request().Context(),
		s.units.Friendship,
		friendship.ID(req.FriendshipID),
		friendship.AccountID(me.AccountID),
	)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, friendshipResponse(f))
}

type RemoveFriendRequest struct {
	AccountID int64 `param:"account_id" validate:"required,gt=0"`
}

func (s *Server) RemoveFriend(c echo.Context) error {
	var req RemoveFriendRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	me, err := s.registeredAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	err = s.friendService.Remove(
		c.Request().Context(),
		s.units.Friendship,
		friendship.AccountID(me.AccountID),
		friendship.AccountID(req.AccountID),
	)
	if err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type SearchAccountsRequest struct {
	Query string `query:"q" validate:"max=100"`
	Limit int    `query:"limit" validate:"gte=0,lte=50"`
}

func (s *Server) SearchAccounts(c echo.Context) error {
	var req SearchAccountsRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	// Unregistered callers can search too; their zero id excludes nobody.
	me, err := s.currentAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	profiles, err := s.friendService.Search(
		c.Request().Context(),
		s.units.Friendship,
		req.Query,
		friendship.AccountID(me.AccountID),
		req.Limit,
	)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, lo.Map(profiles, func(p *friendship.Profile, _ int) ProfileResponse {
		return profileResponse(*p)
	}))
}
