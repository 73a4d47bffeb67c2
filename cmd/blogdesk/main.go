package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"blogdesk/internal/app"
	"blogdesk/internal/config"
	"blogdesk/internal/lib/logger/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// @title Blogdesk API
// @version 1.0
// @description Редактор постов блога: блочный редактор, выбор изображений, медиатека и рендер.
// @BasePath /
func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting blogdesk", slog.String("env", cfg.Env),
		slog.String("media_backend", cfg.Media.Backend),
		slog.String("blog_backend", cfg.Blog.Backend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	application, err := app.New(ctx, log, cfg)
	if err != nil {
		log.Error("failed to init application", sl.Err(err))
		os.Exit(1)
	}

	go func() {
		application.HTTPServer.BuildRouters()
		application.HTTPServer.MustRun()
	}()

	<-ctx.Done()

	application.Stop(context.Background())

	log.Info("Gracefully stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	return log
}
