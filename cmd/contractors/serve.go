package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gartstein/contractors/internal/contractors/catalog"
	"github.com/gartstein/contractors/internal/contractors/config"
	"github.com/gartstein/contractors/internal/contractors/controller"
	"github.com/gartstein/contractors/internal/contractors/events"
	"github.com/gartstein/contractors/internal/contractors/handlers"
	"github.com/gartstein/contractors/internal/contractors/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var defaultConfigPath = filepath.Join("internal", "contractors", "config", "config.yaml")

// eventProducer is what serve needs from events.Producer and events.NopProducer.
type eventProducer interface {
	Produce(events.Event)
	Close()
}

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC and HTTP servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err := initLogger(cfg)
			if err != nil {
				return err
			}
			defer func(logger *zap.Logger) {
				_ = logger.Sync()
			}(logger)

			return serve(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath, "path to the YAML config file (empty for defaults and env only)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	seed, err := loadSeed(cfg)
	if err != nil {
		return err
	}
	st := store.New(seed.Catalog(),
		store.WithSeed(seed.InitialContractors(), seed.InitialActivities()),
		store.WithLogger(logger),
	)

	producer := initProducer(cfg, logger)
	defer producer.Close()

	contractorSvc := controller.NewContractorService(st, producer, logger)
	contractorHandler := handlers.NewContractorHandler(contractorSvc, logger)

	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger)
	server.RegisterGRPCHandler(contractorHandler)
	if err := server.RegisterHTTPGateway(contractorHandler); err != nil {
		return fmt.Errorf("register HTTP gateway: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	return waitForShutdown(ctx, server, errCh, logger)
}

// initLogger builds a production (or development) zap logger at the configured level.
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(cfg.Level())
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func loadSeed(cfg *config.Config) (*catalog.Seed, error) {
	if cfg.SeedPath == "" {
		return catalog.DefaultSeed()
	}
	return catalog.LoadSeedFile(cfg.SeedPath)
}

func initProducer(cfg *config.Config, logger *zap.Logger) eventProducer {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("No Kafka brokers configured, events are discarded")
		return events.NopProducer{}
	}
	if err := events.EnsureTopic(cfg.KafkaBrokers[0], cfg.Topic, 3, logger); err != nil {
		logger.Warn("Kafka topic check failed", zap.Error(err))
	}
	return events.NewProducer(cfg.KafkaBrokers, cfg.Topic, logger)
}

// waitForShutdown blocks until an interrupt or SIGTERM is received or the
// servers fail, then shuts them down.
func waitForShutdown(ctx context.Context, server *handlers.Server, errCh <-chan error, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		server.Stop()
		logger.Info("Servers stopped properly")
		return nil
	case err := <-errCh:
		server.Stop()
		if err != nil {
			return fmt.Errorf("servers failed: %w", err)
		}
		return nil
	}
}
