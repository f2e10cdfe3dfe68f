package api

import (
	"log/slog"
	"net/http"
	"strings"

	identityapp "github.com/burenotti/go_training_backend/internal/app/identity"
	"github.com/labstack/echo/v4"
	"github.com/mileusna/useragent"
)

// LoginRequired verifies the bearer token and puts the provider session on
// the request context.
func LoginRequired(verifier identityapp.Verifier, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			parts := strings.Split(header, " ")
			if len(parts) != 2 {
				return JsonError(c, http.StatusUnauthorized, "Invalid Authorization header")
			}
			if parts[0] != "Bearer" {
				return JsonError(c, http.StatusUnauthorized, "Invalid Authorization header")
			}

			req := c.Request()
			session, err := verifier.Verify(req.Context(), parts[1])
			if err != nil {
				status := ErrorStatus(err)
				if status >= http.StatusInternalServerError {
					logger.Error("token verification failed", "error", err)
					return JsonError(c, status, http.StatusText(status))
				}
				return JsonError(c, status, "invalid access token")
			}

			agent := useragent.Parse(req.UserAgent())
			logger.Debug("authenticated request",
				"subject", session.ExternalID,
				"browser", agent.Name,
				"os", agent.OS,
				"device", agent.Device,
				"mobile", agent.Mobile,
			)

			c.SetRequest(req.WithContext(identityapp.WithSession(req.Context(), session)))
			if err := next(c); err != nil {
				c.Error(err)
			}
			return nil
		}
	}
}
