package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/TonganTuring/learning-tongan-app/internal/bible"
	"github.com/TonganTuring/learning-tongan-app/internal/config"
	"github.com/TonganTuring/learning-tongan-app/internal/dal"
	"github.com/TonganTuring/learning-tongan-app/internal/dictionary"
	"github.com/TonganTuring/learning-tongan-app/internal/study"
)

type Dependencies struct {
	Repo       dal.Repository
	Library    *bible.Library
	Dictionary *dictionary.Service
	Sessions   *study.Store
	Logger     *slog.Logger
}

func NewRouter(ctx context.Context, conf *config.API, deps Dependencies) http.Handler {
	e := echo.New()

	e.Use(middleware.RequestID())
	e.Use(loggingMiddleware(ctx, deps.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(conf.HTTP.RateLimit))))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     conf.HTTP.CORS.AllowOrigins,
		AllowCredentials: true,
	}))
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: conf.HTTP.ProcessTimeout,
	}))
	e.Use(middleware.Secure())

	e.HTTPErrorHandler = HTTPErrorHandler(deps.Logger)
	e.Validator = NewValidator()

	bibleHandler := NewBibleHandler(deps.Library, deps.Logger)
	e.GET("/bible/:book/:chapter", bibleHandler.GetChapter)
	e.GET("/bible/books", bibleHandler.ListBooks)

	dictHandler := NewDictionaryHandler(deps.Dictionary, deps.Logger)
	e.GET("/dictionary", dictHandler.Lookup)

	webhooks := NewWebhooksHandler(deps.Repo, conf.Clerk.WebhookSecret, deps.Logger)
	e.POST("/webhooks/clerk", webhooks.HandleClerkEvent)

	jwtProcessor := NewJWTProcessor(conf.HTTP.JWT)
	secured := e.Group("", AuthMiddleware(jwtProcessor, deps.Logger))

	flashcards := NewFlashcardsHandler(deps.Repo, deps.Sessions, deps.Logger)
	secured.GET("/flashcards", flashcards.List)
	secured.POST("/flashcards", flashcards.Create)
	secured.PUT("/flashcards/:id", flashcards.Update)
	secured.DELETE("/flashcards", flashcards.Delete)
	secured.GET("/flashcards/stats", flashcards.Stats)

	progress := NewProgressHandler(deps.Repo, deps.Library, deps.Logger)
	secured.GET("/progress", progress.Get)
	secured.PUT("/progress", progress.Update)

	studyHandler := NewStudyHandler(deps.Repo, deps.Sessions, deps.Logger)
	secured.GET("/study/session", studyHandler.GetSession)
	secured.PUT("/study/session/settings", studyHandler.UpdateSettings)
	secured.POST("/study/session/next", studyHandler.Next)
	secured.POST("/study/session/previous", studyHandler.Previous)
	secured.POST("/study/session/reveal", studyHandler.Reveal)
	secured.POST("/study/session/rate", studyHandler.Rate)
	secured.POST("/study/session/key", studyHandler.Key)

	return e
}

func loggingMiddleware(ctx context.Context, log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		HandleError: true, // forwards error to the global error handler, so it can decide appropriate status code
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				log.LogAttrs(ctx, slog.LevelInfo, "REQUEST",
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
				)
			} else {
				log.LogAttrs(ctx, slog.LevelError, "REQUEST_ERROR",
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("err", v.Error.Error()),
				)
			}
			return nil
		},
	})
}
