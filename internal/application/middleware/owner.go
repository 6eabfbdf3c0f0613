package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"todo-api/internal/domain/gateway/session"
	"todo-api/internal/domain/model"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
)

const ownerKey = "ownerID"

// RequireOwner resolves the bearer token of every request to its owner id.
// Requests without a live session stop here with 401.
func RequireOwner(sessions session.SessionGateway) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized(c)
			}

			ownerID, err := sessions.ResolveOwner(c.Request().Context(), token)
			if err != nil {
				log.Error(msg.GetMessage("auth.lookup-fail", err), zap.Error(err))
				return c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: msg.GetMessage("todo.error.storage")})
			}
			if ownerID == "" {
				return unauthorized(c)
			}

			c.Set(ownerKey, ownerID)
			return next(c)
		}
	}
}

// OwnerID returns the owner resolved by RequireOwner.
func OwnerID(c echo.Context) string {
	ownerID, _ := c.Get(ownerKey).(string)
	return ownerID
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: msg.GetMessage("auth.required")})
}
