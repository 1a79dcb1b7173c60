package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/JRI98/chatrescuer/server/handlers"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpError *echo.HTTPError
	if !errors.As(err, &httpError) {
		httpError = echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).SetInternal(err)
	}

	var sendError error
	if c.Request().Method == http.MethodHead {
		sendError = c.NoContent(httpError.Code)
	} else {
		sendError = c.String(httpError.Code, fmt.Sprint(httpError.Message))
	}

	if sendError != nil {
		slog.Error("HTTPErrorHandler send error", slog.Any("sendError", sendError), slog.Any("httpError", httpError))
	}
}

func newServer(handler *handlers.Handler, logger *slog.Logger, signatureSkew time.Duration) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(slogecho.NewWithConfig(logger, slogecho.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithUserAgent:    true,
		WithRequestID:    true,
		WithRequestBody:  true,
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			return fmt.Errorf("[PANIC RECOVER] %v\n%s", err, stack)
		},
		DisableErrorHandler: true,
	}))

	e.Use(middleware.RequestID())

	e.Use(middleware.Secure())

	e.Use(middleware.CORS())

	api := e.Group("/api", handlers.Authenticate(signatureSkew, time.Now))

	api.POST("/register", handler.Register)

	api.GET("/profiles", handler.ListProfiles)
	api.GET("/profiles/:userID", handler.GetProfile)
	api.PUT("/profiles/me", handler.UpdateProfile)

	api.GET("/users/:userID/contacts", handler.ListContacts)
	api.GET("/users/:userID/contacts/:contactID", handler.GetContact)
	api.POST("/contacts", handler.CreateContact)

	api.GET("/users/:userID/conversations", handler.ListConversations)
	api.POST("/conversations", handler.CreateConversation)
	api.POST("/conversation_participants", handler.AddParticipants)

	api.GET("/events", handler.ReceiveEvents)

	return e
}
