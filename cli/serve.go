package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/justice-digital/dps-smoketest/engine/community"
	"github.com/justice-digital/dps-smoketest/engine/events"
	"github.com/justice-digital/dps-smoketest/engine/infra/client"
	"github.com/justice-digital/dps-smoketest/engine/infra/monitoring"
	"github.com/justice-digital/dps-smoketest/engine/infra/server"
	"github.com/justice-digital/dps-smoketest/engine/prison"
	"github.com/justice-digital/dps-smoketest/engine/search"
	"github.com/justice-digital/dps-smoketest/engine/smoketest"
	"github.com/justice-digital/dps-smoketest/pkg/config"
	"github.com/justice-digital/dps-smoketest/pkg/logger"
	"github.com/justice-digital/dps-smoketest/pkg/version"
)

func ServeCmd() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the smoke test service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "env file loaded before reading configuration")
	return cmd
}

func runServe(ctx context.Context, envFile string) error {
	// A missing env file is fine; deployed environments configure through
	// real environment variables.
	_ = godotenv.Load(envFile)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.SetupLogger(cfg.Runtime.LogLevel, cfg.Runtime.LogJSON, false)
	log.Info("starting dps-smoketest",
		"version", version.GetVersion(),
		"environment", cfg.Runtime.Environment,
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.ContextWithLogger(ctx, log)

	deps, err := buildDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	return server.NewServer(cfg, log, deps).Run(ctx)
}

func buildDependencies(ctx context.Context, cfg *config.Config) (server.Dependencies, error) {
	factory := client.NewFactory(ctx, cfg.Clients)

	var queue *events.Service
	if cfg.Queue.QueueURL != "" {
		sqsClient, err := events.NewClient(ctx, cfg.Queue.Region, cfg.Queue.Endpoint)
		if err != nil {
			return server.Dependencies{}, fmt.Errorf("failed to build queue client: %w", err)
		}
		queue = events.NewService(sqsClient, cfg.Queue.QueueURL)
	}

	service := smoketest.NewService(
		prison.NewService(factory.New(cfg.Clients.PrisonAPIURL)),
		community.NewService(factory.New(cfg.Clients.CommunityAPIURL)),
		search.NewPrisonerService(factory.New(cfg.Clients.PrisonerSearchURL)),
		search.NewProbationService(factory.New(cfg.Clients.ProbationSearchURL)),
		queue,
		cfg.Test.PollInterval,
		cfg.Test.MaxDuration,
	)
	return server.Dependencies{
		Smoketest: service,
		Queue:     queue,
		Metrics:   monitoring.NewMetrics(),
	}, nil
}
