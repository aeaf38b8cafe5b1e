package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/TonganTuring/learning-tongan-app/internal/api"
	"github.com/TonganTuring/learning-tongan-app/internal/bible"
	"github.com/TonganTuring/learning-tongan-app/internal/config"
	"github.com/TonganTuring/learning-tongan-app/internal/dal/postgres"
	"github.com/TonganTuring/learning-tongan-app/internal/dictionary"
	"github.com/TonganTuring/learning-tongan-app/internal/study"
	"github.com/TonganTuring/learning-tongan-app/migrations"
)

var (
	// Version is set via -ldflags at build time
	Version = "dev" //nolint:gochecknoglobals // must be global to be replaced at build time
	// BuildTime is set via -ldflags at build time
	BuildTime = "unknown" //nolint:gochecknoglobals // must be global to be replaced at build time
)

const (
	exitCodeOK int = iota
	exitCodeConfigParse
	exitCodeDBConnect
	exitCodeMigrate
	exitCodeLoadData
	exitCodeServerStart
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	go func() {
		<-sigs
		cancel()
	}()
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	_ = godotenv.Load() // optional .env for local runs

	conf, err := config.NewAPI(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get config", "error", err) //nolint:sloglint // ignore
		return exitCodeConfigParse
	}
	log := mustLogger(conf.Dev)

	pool, err := pgxpool.New(ctx, conf.DB.URL)
	if err != nil {
		log.ErrorContext(ctx, "failed to create database connection pool", "error", err)
		return exitCodeDBConnect
	}
	defer pool.Close()

	if err = migrate(pool); err != nil {
		log.ErrorContext(ctx, "failed to migrate database", "error", err)
		return exitCodeMigrate
	}

	deps, err := dependencies(ctx, conf, pool, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to initialize dependencies", "error", err)
		return exitCodeLoadData
	}

	router := api.NewRouter(ctx, conf, deps)
	log.InfoContext(ctx, "starting api server",
		"version", Version,
		"build_time", BuildTime,
		"address", conf.Server.Addr,
	)

	server := &http.Server{
		ReadHeaderTimeout: conf.Server.ReadHeaderTimeout,
		Addr:              conf.Server.Addr,
		Handler:           router,
	}

	go func() {
		<-ctx.Done()
		cCtx, cCancel := context.WithTimeout(context.Background(), 15*time.Second) //nolint:mnd // ignore mnd
		defer cCancel()

		if sErr := server.Shutdown(cCtx); sErr != nil {
			log.ErrorContext(cCtx, "failed to shutdown api server", "error", sErr)
		}
	}()

	if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "failed to start api server", "error", err)
		return exitCodeServerStart
	}

	log.InfoContext(ctx, "api server is stopped")

	return exitCodeOK
}

func dependencies(ctx context.Context, conf *config.API, pool *pgxpool.Pool, log *slog.Logger) (api.Dependencies, error) {
	library, err := bible.Load(ctx, conf.Data.ReferenceBiblePath, conf.Data.TargetBiblePath)
	if err != nil {
		return api.Dependencies{}, err
	}

	index, err := dictionary.BuildIndexFromFile(conf.Data.DictionaryPath)
	if err != nil {
		return api.Dependencies{}, err
	}
	log.InfoContext(ctx, "dictionary index built", "keys", index.Size())

	translator := dictionary.NewAzureTranslator(
		conf.Azure.TranslatorEndpoint,
		conf.Azure.TranslatorKey,
		conf.Azure.TranslatorRegion,
	)

	return api.Dependencies{
		Repo:       postgres.NewRepository(pool, log),
		Library:    library,
		Dictionary: dictionary.NewService(index, translator, log),
		Sessions:   study.NewStore(ctx, conf.Study.SessionTTL),
		Logger:     log,
	}, nil
}

func migrate(pool *pgxpool.Pool) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return goose.Up(db, ".")
}

func mustLogger(dev bool) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if dev {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}
