package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xhad/formbot/pkg/telegram"
	"github.com/xhad/formbot/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the messaging webhook and chat transports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		dispatcher := newDispatcher()
		srv := server.NewWithConfig(dispatcher, server.ServerConfig{
			Port:              port,
			WebhookPath:       cfg.Server.WebhookPath,
			HealthPath:        cfg.Server.HealthPath,
			ChatPath:          cfg.Server.ChatPath,
			AllowedOrigins:    cfg.Server.AllowedOrigins,
			RequestTimeout:    cfg.Server.RequestTimeout,
			ValidateSignature: cfg.Twilio.ValidateSignature,
			AuthToken:         cfg.Twilio.AuthToken,
			PublicURL:         cfg.Twilio.PublicURL,
		})

		g, ctx := errgroup.WithContext(ctx)

		g.Go(srv.Start)
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if cfg.Telegram.Token != "" {
			bot, err := telegram.NewWithConfig(dispatcher, telegram.BotConfig{
				Token:         cfg.Telegram.Token,
				PollTimeout:   cfg.Telegram.PollTimeout,
				HandleTimeout: cfg.Server.RequestTimeout,
			})
			if err != nil {
				stop()
				_ = g.Wait()
				return eris.Wrap(err, "start telegram bot")
			}
			g.Go(func() error { return bot.Start(ctx) })
		} else {
			zap.L().Info("telegram disabled, no token configured")
		}

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
