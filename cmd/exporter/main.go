package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goran-ethernal/ChainExporter/internal/common"
	"github.com/goran-ethernal/ChainExporter/internal/config"
	"github.com/goran-ethernal/ChainExporter/internal/connection"
	"github.com/goran-ethernal/ChainExporter/internal/exporter"
	"github.com/goran-ethernal/ChainExporter/internal/indexer"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	"github.com/goran-ethernal/ChainExporter/internal/metrics"
	"github.com/goran-ethernal/ChainExporter/internal/push"
	sqlstore "github.com/goran-ethernal/ChainExporter/internal/store"
	pkgconfig "github.com/goran-ethernal/ChainExporter/pkg/config"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	version = "1.0.0"
	banner  = `
╔═══════════════════════════════════════════╗
║         ChainExporter v%s               ║
║   Metronome Chain Event Exporter          ║
╚═══════════════════════════════════════════╝
`

	shutdownTimeout = 10 * time.Second
)

var (
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "exporter",
	Short: "ChainExporter - Metronome chain event exporter",
	Long: `ChainExporter follows the Metronome token, converter and auction contracts,
stores every event and derived account balance in a document store, and pushes
events, balances and the live auction status to WebSocket subscribers.`,
	Version: version,
	RunE:    runExporter,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available exporters",
	Long:  `List the exporters that can be enabled in the configuration file.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Available exporters:")
		for _, spec := range exporter.Specs() {
			events := "all"
			if len(spec.Events) > 0 {
				events = fmt.Sprintf("%v", spec.Events)
			}
			fmt.Printf("  - %s (contract: %s, events: %s, balances: %t)\n",
				spec.Name, spec.Contract, events, spec.ExportBalances)
		}
	},
}

var checkpointsCmd = &cobra.Command{
	Use:   "checkpoints",
	Short: "Print stored exporter checkpoints",
	Long:  `Print the last exported block of every exporter as stored in the document store.`,
	RunE:  printCheckpoints,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration JSON schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		reflector := &jsonschema.Reflector{}
		schema := reflector.Reflect(&pkgconfig.Config{})

		out, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode schema: %w", err)
		}

		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	rootCmd.AddCommand(listCmd, checkpointsCmd, schemaCmd)
}

func printCheckpoints(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := sqlstore.Open(ctx, cfg.Store, logger.NewComponentLoggerFromConfig(common.ComponentStore, cfg.Logging))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	checkpoints, err := exporter.ListCheckpoints(ctx, s)
	if err != nil {
		return fmt.Errorf("failed to list checkpoints: %w", err)
	}

	if len(checkpoints) == 0 {
		fmt.Println("No checkpoints stored")
		return nil
	}

	for _, cp := range checkpoints {
		fmt.Printf("  %-24s %d\n", cp.Key, cp.Value)
	}

	return nil
}

func runExporter(cmd *cobra.Command, args []string) error {
	fmt.Printf(banner, version)

	// Load configuration
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	founderTokens, err := common.ParseBigInt(cfg.Status.FounderTokens)
	if err != nil {
		return fmt.Errorf("invalid founder tokens: %w", err)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	componentLogger := func(component string) *logger.Logger {
		return logger.NewComponentLoggerFromConfig(component, cfg.Logging)
	}
	log := componentLogger(common.ComponentSessionRunner)

	// Initialize metrics server if enabled
	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics, log)
		if err := metricsServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer stopCancel()
			if err := metricsServer.Stop(stopCtx); err != nil {
				log.Warnf("Failed to stop metrics server: %v", err)
			}
		}()
		log.Infof("Metrics server started on %s%s", cfg.Metrics.ListenAddress, cfg.Metrics.Path)
	}

	// Open document store
	log.Infof("Opening %s document store...", cfg.Store.Driver)
	docStore, err := sqlstore.Open(ctx, cfg.Store, componentLogger(common.ComponentStore))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := docStore.Close(); err != nil {
			log.Warnf("Failed to close store: %v", err)
		}
	}()

	if err := docStore.Start(ctx); err != nil {
		return fmt.Errorf("failed to start store: %w", err)
	}

	// Start push hub
	hub := push.NewHub(cfg.Push, componentLogger(common.ComponentPushHub))
	if err := hub.Start(ctx); err != nil {
		return fmt.Errorf("failed to start push server: %w", err)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stopCancel()
		if err := hub.Stop(stopCtx); err != nil {
			log.Warnf("Failed to stop push server: %v", err)
		}
	}()

	// Initialize connection manager
	manager, err := connection.New(
		cfg.Chain,
		cfg.Contracts,
		connection.NewDialer(cfg.Chain),
		componentLogger(common.ComponentConnection),
	)
	if err != nil {
		return fmt.Errorf("failed to create connection manager: %w", err)
	}

	// Initialize session runner
	runner, err := indexer.NewRunner(indexer.Options{
		Exporter:      cfg.Exporter,
		StatusEnabled: !cfg.Status.Disabled,
		StatsEnabled:  cfg.Stats != nil && cfg.Stats.Enabled,
		FounderTokens: founderTokens,
		Logger:        componentLogger,
	}, docStore, hub, log)
	if err != nil {
		return fmt.Errorf("failed to create session runner: %w", err)
	}

	log.Infof("Starting ChainExporter with exporters %v on %s", cfg.Exporter.Enabled, cfg.Chain.Endpoint())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return manager.Run(gctx)
	})
	g.Go(func() error {
		return runner.Run(gctx, manager.Sessions())
	})
	g.Go(func() error {
		for state := range manager.States() {
			log.Infof("Connection state: %s", state)
		}
		return nil
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("exporter failed: %w", err)
	}

	log.Info("ChainExporter stopped successfully")
	return nil
}
