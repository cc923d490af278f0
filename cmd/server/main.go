package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbeisheim/chess-backend/internal/config"
	"github.com/benbeisheim/chess-backend/internal/server"
	"github.com/benbeisheim/chess-backend/internal/service"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(2)
	}
	log := cfg.Logger(os.Stderr)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	gameManager := service.NewGameManager(cfg.ClockTime, log)
	gameService := service.NewGameService(gameManager)
	app := server.New(cfg, gameService, log)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("listening", "addr", cfg.Addr)
		return app.Listen(cfg.Addr)
	})

	g.Go(func() error {
		return gameManager.Run(ctx, cfg.MatchInterval)
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		return app.Shutdown()
	})

	return g.Wait()
}
