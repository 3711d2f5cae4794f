package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"payment-engine/config"
	httpLayer "payment-engine/http"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "payment-engine",
		Short:         "Credit card payment allocation engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	loadConfig := func() (config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		setupLogging(cfg.Log)
		return cfg, nil
	}

	root.AddCommand(
		serveCmd(loadConfig),
		recommendCmd(loadConfig),
		payoffCmd(loadConfig),
	)

	root.SetErr(os.Stderr)
	root.SetOut(os.Stdout)
	return root
}

func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

func serveCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func serve(cfg config.Config) error {
	eng, err := buildEngine(cfg, true)
	if err != nil {
		return err
	}
	defer eng.Close()

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	defer rateLimiter.Stop()

	handler := httpLayer.NewRouter(
		httpLayer.Handlers{
			Recommendation: httpLayer.NewRecommendationHandler(eng.recommendations),
			Payoff:         httpLayer.NewPayoffHandler(eng.payoff),
			HealthScore:    httpLayer.NewHealthScoreHandler(nil),
		},
		httpLayer.RouterOptions{
			Limiter: rateLimiter,
			Metrics: eng.metrics,
			APIKey:  cfg.Server.APIKey,
		},
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Server.Addr).
			Str("balanced_strategy", eng.ranker.Strategy()).
			Str("shortfall_policy", cfg.Engine.ShortfallPolicy).
			Msg("payment engine listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("error starting server")
		return err
	case <-quit:
		log.Info().Msg("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
		return err
	}

	log.Info().Msg("server exited")
	return nil
}
