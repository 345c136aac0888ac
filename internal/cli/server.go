package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizdesk/internal/app"
	"quizdesk/internal/config"
	"quizdesk/internal/infra/memory"
	pgstore "quizdesk/internal/infra/postgres"
	redisinfra "quizdesk/internal/infra/redis"
	"quizdesk/internal/logging"
	transport "quizdesk/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stdout, cfg.Log.Level)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var (
		quizStore    app.QuizStore
		statStore    app.StatStore
		catalogStore app.CatalogStore
		userStore    app.UserStore
	)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store := pgstore.NewStore(pool)
		quizStore, statStore, catalogStore, userStore = store, store, store, store
	} else {
		store := memory.NewStore()
		if err := seedSampleData(ctx, store, store, "demo", "demo"); err != nil {
			return err
		}
		logger.Warn("postgres not configured, using in-memory store with demo data", "username", "demo", "password", "demo")
		quizStore, statStore, catalogStore, userStore = store, store, store, store
	}

	// Submissions read through a snapshot cache; the admin/detail path stays
	// on the uncached store so catalog writes are visible immediately.
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	cachedQuizzes := quizStore
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cachedQuizzes = redisinfra.NewQuizCache(redisClient, quizStore, quizTTL)
	} else {
		cachedQuizzes = memory.NewQuizCache(quizStore, quizTTL)
	}

	feed := app.NewStatsFeed()
	submissions := app.NewSubmissionService(cachedQuizzes, statStore, feed)
	catalog := app.NewCatalogService(quizStore, catalogStore)
	auth := app.NewAuthenticator(userStore)
	handler := transport.NewHandler(submissions, catalog, auth, feed, logger)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting quizdesk server", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
