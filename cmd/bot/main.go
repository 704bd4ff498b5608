package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/doom2286/Foxcom/internal/bot"
	"github.com/doom2286/Foxcom/internal/rest"
	"github.com/doom2286/Foxcom/internal/setup"
	"github.com/doom2286/Foxcom/internal/setup/telemetry"
	"github.com/doom2286/Foxcom/internal/worker/maintenance"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// BotLogDir specifies where bot log files are stored.
	BotLogDir = "logs/bot_logs"

	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Bot exited: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	app, err := setup.InitializeApp(ctx, telemetry.ServiceBot, BotLogDir, true)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	// Clear anything that expired while the bot was offline
	if result, err := app.DB.Service().Maintenance().Prune(ctx); err != nil {
		app.Logger.Warn("Startup prune failed", zap.Error(err))
	} else {
		app.Logger.Info("Startup prune complete",
			zap.Int64("messages", result.Messages),
			zap.Int64("votes", result.Votes))
	}

	discordBot, err := bot.New(&app.Config.Bot, app.DB, nil, app.Logger)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := discordBot.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		discordBot.Close()
		return nil
	})

	g.Go(func() error {
		worker := maintenance.New(app.DB.Service().Maintenance(), app.Config.Common.Maintenance.Interval(), app.Logger)
		worker.Start(ctx)
		return nil
	})

	if api := app.Config.Common.API; api.Enabled {
		server := &http.Server{
			Addr:              api.Address(),
			Handler:           rest.NewServer(app.DB, app.Metrics, app.Logger),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			app.Logger.Info("Admin API listening", zap.String("addr", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	app.Logger.Info("Bot has been started. Waiting for interrupt signal to gracefully shutdown...")

	return g.Wait()
}
