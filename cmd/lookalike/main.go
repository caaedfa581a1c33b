package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hubenschmidt/go-lookalike/config"
	"github.com/hubenschmidt/go-lookalike/monitor"
	"github.com/hubenschmidt/go-lookalike/pipeline"
	"github.com/hubenschmidt/go-lookalike/sink"
	"github.com/hubenschmidt/go-lookalike/source"
	"github.com/hubenschmidt/go-lookalike/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "lookalike",
		Short:         "Batch customer lookalike recommendations",
		Long:          "Computes the most similar customers for a set of targets from customer, transaction, and product tables.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")

	root.AddCommand(newRunCmd(&configPath))
	root.AddCommand(newRunsCmd(&configPath))

	return root
}

func newRunCmd(configPath *string) *cobra.Command {
	var (
		sourceDSN     string
		output        string
		referenceDate string
		topK          int
		targets       []string
		join          string
		storeDSN      string
		logLevel      string
		logFormat     string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the lookalike pipeline once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadRaw(*configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("source") {
				cfg.Source = sourceDSN
			}
			if flags.Changed("out") {
				cfg.Output = output
			}
			if flags.Changed("reference-date") {
				cfg.ReferenceDate = referenceDate
			}
			if flags.Changed("top-k") {
				cfg.TopK = topK
			}
			if flags.Changed("targets") {
				cfg.Targets = targets
			}
			if flags.Changed("join") {
				cfg.Join = join
			}
			if flags.Changed("store") {
				cfg.StoreDSN = storeDSN
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if flags.Changed("log-format") {
				cfg.Log.Format = logFormat
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runPipeline(cfg)
		},
	}

	cmd.Flags().StringVar(&sourceDSN, "source", "", "CSV directory or postgres:// DSN")
	cmd.Flags().StringVar(&output, "out", "", "output CSV path")
	cmd.Flags().StringVar(&referenceDate, "reference-date", "", "tenure reference date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&topK, "top-k", 0, "number of lookalikes per target")
	cmd.Flags().StringSliceVar(&targets, "targets", nil, "target customer IDs")
	cmd.Flags().StringVar(&join, "join", "", "join policy: inner or outer")
	cmd.Flags().StringVar(&storeDSN, "store", "", "run-history store: SQLite path or postgres:// DSN")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.Flags().StringVar(&logFormat, "log-format", "", "log format: console or json")

	return cmd
}

func runPipeline(cfg *config.Config) error {
	logger := newLogger(cfg.Log)

	src, err := source.New(cfg.Source)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	var runs store.RunStore
	if cfg.StoreDSN != "" {
		runs, err = store.NewRunStore(cfg.StoreDSN)
		if err != nil {
			return fmt.Errorf("open run store: %w", err)
		}
		defer runs.Close()
	}

	p := pipeline.New(cfg, pipeline.Options{
		Source:    src,
		Sink:      sink.NewCSVSink(cfg.Output, cfg.TopK),
		Collector: monitor.NewInMemoryCollector("lookalike"),
		Runs:      runs,
		Logger:    logger,
	})

	res, err := p.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s: %d targets recommended, %d skipped, %v elapsed\n",
		cfg.Output, len(res.Results)-res.Skipped, res.Skipped, res.Duration.Round(time.Millisecond))
	return nil
}

func newRunsCmd(configPath *string) *cobra.Command {
	var storeDSN string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn := storeDSN
			if dsn == "" && *configPath != "" {
				cfg, err := config.LoadRaw(*configPath)
				if err != nil {
					return err
				}
				dsn = cfg.StoreDSN
			}
			if dsn == "" {
				return fmt.Errorf("no run store configured: pass --store or set store_dsn")
			}

			runs, err := store.NewRunStore(dsn)
			if err != nil {
				return fmt.Errorf("open run store: %w", err)
			}
			defer runs.Close()

			ctx := cmd.Context()
			list, err := runs.List(ctx)
			if err != nil {
				return err
			}
			for _, r := range list {
				fmt.Printf("%s  %s  targets=%d recommended=%d skipped=%d  %dms\n",
					r.RunID, r.Status, r.TargetCount, r.RecommendedCount, r.SkippedCount, r.TotalElapsedMs)
			}

			summary, err := runs.Summary(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("total runs: %d, avg latency: %.0fms\n", summary.TotalRuns, summary.AvgLatencyMs)
			return nil
		},
	}

	cmd.Flags().StringVar(&storeDSN, "store", "", "run-history store: SQLite path or postgres:// DSN")

	return cmd
}

// newLogger builds the zerolog logger from config.
func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
