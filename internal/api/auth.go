package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	appctx "github.com/TonganTuring/learning-tongan-app/internal/context"
)

var unauthorizedResponse = ErrorResponse{"Unauthorized"} //nolint:gochecknoglobals // constant response

const sessionCookieName = "__session"

// AuthMiddleware resolves the user identity from the bearer header or the
// identity provider's session cookie and stores it in the request context.
func AuthMiddleware(jwtProc *JWTProcessor, log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := sessionToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, unauthorizedResponse)
			}

			userID, err := jwtProc.ParseSessionToken(token)
			if err != nil {
				log.WarnContext(c.Request().Context(), "parse session token", "error", err)
				return c.JSON(http.StatusUnauthorized, unauthorizedResponse)
			}

			c.SetRequest(c.Request().WithContext(appctx.WithUserID(c.Request().Context(), userID)))

			return next(c)
		}
	}
}

func sessionToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, found := strings.CutPrefix(header, "Bearer "); found && token != "" {
		return token, true
	}

	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
