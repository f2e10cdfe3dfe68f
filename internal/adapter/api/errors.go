package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/labstack/echo/v4"
)

var (
	errNotRegistered = fmt.Errorf("%w: account is not registered", domain.ErrForbidden)
	errTrainerOnly   = fmt.Errorf("%w: only trainers can do this", domain.ErrForbidden)
	errNotYours      = fmt.Errorf("%w: resource belongs to another account", domain.ErrForbidden)
	errNotFriends    = fmt.Errorf("%w: recipient is not your friend", domain.ErrForbidden)
	errNotAssigned   = fmt.Errorf("%w: workout is not assigned to you", domain.ErrForbidden)
)

type JsonErrorModel struct {
	Message string `json:"message"`
}

func JsonError(c echo.Context, status int, content any) error {
	data := &JsonErrorModel{Message: fmt.Sprintf("%v", content)}
	return c.JSON(status, data)
}

// ErrorStatus maps domain errors to HTTP status codes.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateRelationship):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPartialWrite):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	status := ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
		return JsonError(c, status, http.StatusText(status))
	}
	// Joined errors print one error per line, the first is the cause.
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return JsonError(c, status, msg)
}
