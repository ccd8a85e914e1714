package main

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

	"github.com/mlorentedev/sidehustler/internal/app"
	"github.com/mlorentedev/sidehustler/internal/config"
	"github.com/mlorentedev/sidehustler/internal/notify"
	"github.com/mlorentedev/sidehustler/internal/server"
)

// version is set at build time via -ldflags "-X main.version=x.y.z"
var version = "dev"

var (
	configPath string
	useMock    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "sidehustler",
	Short:         "Rewrite text with OpenAI, Ollama or LM Studio",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "use the mock provider instead of real LLM backends")

	rootCmd.AddCommand(
		serveCmd(),
		greetCmd(),
		transformCmd(),
		modelsCmd(),
		promptsCmd(),
		keyCmd(),
		versionCmd(),
	)
}

// setup loads the configuration and installs the slog default logger.
func setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// newApp builds the backend for one-shot CLI commands. Notifications go to the log.
func newApp() (*app.App, error) {
	cfg, logger, err := setup()
	if err != nil {
		return nil, err
	}
	return app.New(cfg, notify.LogSink{Logger: logger}, useMock)
}

func serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP API for the desktop front-end",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Port = port
			}

			hub := notify.NewHub(0)
			a, err := app.New(cfg, notify.Multi{hub, notify.LogSink{Logger: logger}}, useMock)
			if err != nil {
				return err
			}

			if useMock {
				slog.Info("mode: mock provider enabled")
			}
			if cfg.Token != "" {
				slog.Info("auth: API key required (X-API-Key header)")
			} else {
				slog.Info("auth: disabled (no token configured)")
			}
			slog.Info("cors: allowed origins", "origins", cfg.CORSOrigins)

			handler := server.NewRouter(a, hub, server.Options{
				Token:          cfg.Token,
				CORSOrigins:    cfg.CORSOrigins,
				Version:        version,
				RequestTimeout: cfg.RequestTimeout,
				RateLimit:      cfg.RateLimit,
			})

			srv := &http.Server{
				Addr:              cfg.Addr(),
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				slog.Info("sidehustler api listening", "addr", cfg.Addr(), "version", version)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err := <-errc:
				if err != nil {
					return fmt.Errorf("server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			slog.Info("shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			slog.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "override listen port")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print application version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sidehustler %s\n", version)
		},
	}
}
