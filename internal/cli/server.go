package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"image-quiz/internal/app"
	"image-quiz/internal/config"
	"image-quiz/internal/infra/file"
	"image-quiz/internal/infra/memory"
	redissession "image-quiz/internal/infra/redis"
	"image-quiz/internal/logger"
	transport "image-quiz/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand that serves the quiz as a web page.
func NewServeCmd(configPath, settingsPath *string, numQuestions *int) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the quiz in the browser, one session per visitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *settingsPath, port, *numQuestions)
		},
	}
	cmd.Flags().StringVar(&port, "port", os.Getenv("PORT"), "port to listen on")
	return cmd
}

func runServer(ctx context.Context, configPath, settingsPath, portFlag string, numQuestions int) error {
	cfg, err := config.Load(settingsPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 0)
	quizzes := memory.NewQuizRepository(file.NewQuizLoader(), quizTTL,
		memory.WithStaleHandler(func(quizID string, err error) {
			log.Warn("quiz reload failed, serving previous version", zap.String("config", quizID), zap.Error(err))
		}),
	)
	if _, err := loadQuiz(ctx, quizzes, configPath, numQuestions, log); err != nil {
		return err
	}

	var store app.SessionRepository = memory.NewSessionStore()
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, session markers will be skipped", zap.Error(err))
		}
		store = redissession.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute))
	}

	service := app.NewQuizService(store, quizzes, app.WithLogger(log))
	wsHandler := transport.NewWSHandler(service, configPath, numQuestions, log)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewMux(wsHandler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting quiz server", zap.String("addr", server.Addr), zap.String("config", configPath))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
