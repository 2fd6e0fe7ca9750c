package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/mediator-go/internal/adapters/metrics"
	"github.com/andrescamacho/mediator-go/internal/application/behaviors"
	"github.com/andrescamacho/mediator-go/internal/application/mediator"
	"github.com/andrescamacho/mediator-go/internal/application/registrar"
	"github.com/andrescamacho/mediator-go/internal/application/services"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "mediator-demo",
		Short: "Demonstrates mediator dispatch with a behavior pipeline",
		Long: `Composes a service container, registers the demo handlers and a
behavior pipeline (logging, validation, rate limiting, metrics), then
dispatches a few requests through the typed and dynamic paths.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: search standard locations)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg := config.LoadConfigOrDefault(configPath)

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}

	var collector *metrics.CommandMetricsCollector
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		collector = metrics.NewCommandMetricsCollector()
		if err := collector.Register(); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	container := services.NewContainer()
	registration := registrar.NewConfiguration(
		registrar.WithLifetime(lifetimeFrom(cfg.Registration.Lifetime)),
		registrar.WithTimeout(cfg.Registration.Timeout),
		registrar.WithLimits(registrar.Limits{
			MaxGenericParams:        cfg.Registration.MaxGenericParams,
			MaxTypesClosingParam:    cfg.Registration.MaxTypesClosingParam,
			MaxGenericRegistrations: cfg.Registration.MaxGenericRegistrations,
		}),
		registrar.WithCatalogs(demoCatalog(logger)),
		registrar.WithBehavior(func(services.Container) (any, error) {
			return behaviors.NewLoggingBehavior(logger), nil
		}),
		registrar.WithBehavior(func(services.Container) (any, error) {
			return behaviors.NewValidationBehavior(), nil
		}),
		registrar.WithBehavior(func(services.Container) (any, error) {
			return behaviors.NewRateLimitBehavior(rate.Limit(100), 10), nil
		}),
		registrar.WithBehavior(func(services.Container) (any, error) {
			return behaviors.NewMetricsBehavior(collector), nil
		}),
	)

	dispatcher, err := registrar.AddMediator(container, registration)
	if err != nil {
		return fmt.Errorf("mediator registration failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Typed dispatch
	pong, err := mediator.Send[string](ctx, dispatcher, &PingCommand{Message: "hi"})
	if err != nil {
		return err
	}
	logger.Info().Str("result", pong).Msg("typed dispatch")

	// Void dispatch
	if err := mediator.SendVoid(ctx, dispatcher, &NotifyCommand{Channel: "ops", Text: "demo complete"}); err != nil {
		return err
	}

	// Dynamic dispatch hits the same cached wrapper as the typed path
	result, err := dispatcher.Send(ctx, &PingCommand{Message: "again"})
	if err != nil {
		return err
	}
	logger.Info().Interface("result", result).Msg("dynamic dispatch")

	return nil
}

func newLogger(cfg config.LoggingConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		return zerolog.New(output).Level(level).With().Timestamp().Logger(), nil
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger(), nil
}

func lifetimeFrom(name string) services.Lifetime {
	if name == "singleton" {
		return services.Singleton
	}
	return services.Transient
}
