package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/vibe-ui-kit/pkg/server"
)

var (
	serveAddr     string
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = serveAddr
		}
		if cmd.Flags().Changed("allow-all-origins") {
			cfg.Server.AllowAll = serveAllowAll
		}
		if cfg.Gemini.APIKey == "" {
			// 起動は続け、生成時に Error 状態として表示する
			slog.Warn("Gemini API key is not configured; generation requests will fail")
		}

		gen, err := newGenerator(cfg)
		if err != nil {
			return fmt.Errorf("creating generator: %w", err)
		}
		loader, err := newImageLoader(cfg)
		if err != nil {
			return fmt.Errorf("creating image loader: %w", err)
		}

		srv, err := server.New(server.Options{
			Addr:           cfg.Server.Addr,
			AllowAll:       cfg.Server.AllowAll,
			MaxUploadBytes: cfg.Image.MaxUploadBytes,
			SessionTTL:     cfg.Session.TTL,
			RatePerMinute:  cfg.RateLimit.PerMinute,
			RateBurst:      cfg.RateLimit.Burst,
		}, gen, loader)
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			slog.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("shutdown failed", "error", err)
			}
		}()

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}
