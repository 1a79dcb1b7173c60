package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/JRI98/chatrescuer/internal/identity"
	"github.com/labstack/echo/v4"
)

const userIDKey = "userID"

// Authenticate verifies the request signature and stores the signer's user
// identifier in the context.
func Authenticate(skew time.Duration, now func() time.Time) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			body, err := io.ReadAll(c.Request().Body)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			}
			c.Request().Body.Close()

			c.Request().Body = io.NopCloser(bytes.NewReader(body))

			publicKey, err := identity.VerifyRequest(
				c.Request().Header.Get(echo.HeaderAuthorization),
				c.Request().Header.Get(identity.TimestampHeader),
				c.Request().Method,
				c.Request().URL.RequestURI(),
				body,
				now(),
				skew,
			)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized)).SetInternal(err)
			}

			c.Set(userIDKey, identity.UserID(publicKey))

			return next(c)
		}
	}
}

func getUserID(c echo.Context) string {
	userID, ok := c.Get(userIDKey).(string)
	if !ok {
		panic(errors.New("could not get user id from context"))
	}

	return userID
}

// requireOwner rejects requests acting on behalf of another user.
func requireOwner(c echo.Context, userID string) error {
	if userID != getUserID(c) {
		return newEchoHTTPError(http.StatusForbidden, "Not allowed to act for another user", nil)
	}
	return nil
}
