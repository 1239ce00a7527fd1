package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/alexanderjulianmartinez/delta-bq/internal/assessment"
	"github.com/alexanderjulianmartinez/delta-bq/internal/batch"
	"github.com/alexanderjulianmartinez/delta-bq/internal/buffer"
	"github.com/alexanderjulianmartinez/delta-bq/internal/cdc/debezium"
	"github.com/alexanderjulianmartinez/delta-bq/internal/check"
	"github.com/alexanderjulianmartinez/delta-bq/internal/config"
	"github.com/alexanderjulianmartinez/delta-bq/internal/source/mysql"
	"github.com/alexanderjulianmartinez/delta-bq/internal/stage"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "deltabq error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 2 {
		printUsage()
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[1] {
	case "check":
		return runCheck(ctx, args[2:])
	case "stage":
		return runStage(ctx, args[2:])
	case "help", "--help", "-h":
		printUsage()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", args[1])
	}
}

func loadConfig(name string, args []string) (*config.Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config.yaml")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configPath == "" {
		return nil, fmt.Errorf("missing required flag: --config")
	}

	return config.LoadConfig(*configPath)
}

func runCheck(ctx context.Context, args []string) error {
	cfg, err := loadConfig("check", args)
	if err != nil {
		return err
	}

	inspector, err := mysql.NewInspector(ctx, cfg.Source.DSN, cfg.Source.Schema)
	if err != nil {
		return err
	}
	defer inspector.Close()

	inspection, err := inspector.Inspect(ctx, cfg.TableNames())
	if err != nil {
		return err
	}

	report, err := check.Validate(inspection, cfg.TableNames(), assessment.BigQueryAssessor{})
	if err != nil {
		return err
	}

	fmt.Printf("Source: %s (%s)\n", cfg.Source.Type, cfg.Source.Schema)
	fmt.Printf("Target dataset: %s\n", cfg.Warehouse.Dataset)
	for _, res := range report.Results() {
		fmt.Printf("\n[%s] %s\n", res.Status, res.Table)
		for _, col := range report.Assessments[res.Table].Columns() {
			fmt.Printf("  %-30s %s\n", col.Name, col.Type)
		}
		for _, iss := range report.Issues {
			if iss.Table != res.Table {
				continue
			}
			if iss.Column != "" {
				fmt.Printf("  %s %s: %s\n", iss.Severity, iss.Column, iss.Message)
			} else {
				fmt.Printf("  %s %s\n", iss.Severity, iss.Message)
			}
		}
	}

	if report.Blocking() {
		return fmt.Errorf("%d table(s) cannot be replicated", countBlocked(report))
	}
	return nil
}

func countBlocked(report *check.Report) int {
	n := 0
	for _, res := range report.Results() {
		if res.Status == check.SeverityBlock {
			n++
		}
	}
	return n
}

func runStage(ctx context.Context, args []string) error {
	cfg, err := loadConfig("stage", args)
	if err != nil {
		return err
	}
	if err := cfg.ValidateStaging(); err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	store, err := stage.NewMinioStore(ctx, cfg.Staging)
	if err != nil {
		return err
	}

	reader, err := debezium.New(cfg.CDC.Brokers, cfg.Topics(), cfg.CDC.GroupID, logger.Named("debezium"))
	if err != nil {
		return err
	}
	defer reader.Close()

	buf := buffer.New(store, buffer.Options{
		Dataset:       cfg.Warehouse.Dataset,
		Prefix:        cfg.Staging.Prefix,
		MaxEvents:     cfg.Buffer.MaxEvents,
		FlushInterval: cfg.Buffer.FlushInterval,
		Logger:        logger.Named("buffer"),
	})

	out := make(chan *batch.TableBlob)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for blob := range out {
			logger.Info("batch ready for load",
				zap.String("dataset", blob.Dataset()),
				zap.String("table", blob.Table()),
				zap.Int64("batch_id", blob.BatchID()),
				zap.Stringer("blob", blob.Blob()),
			)
		}
	}()

	logger.Info("staging change events",
		zap.Strings("topics", cfg.Topics()),
		zap.String("bucket", cfg.Staging.Bucket),
	)
	err = buf.Run(ctx, reader, out)
	<-done
	return err
}

func printUsage() {
	fmt.Print(`deltabq - MySQL CDC to BigQuery staging tool

Usage:
  deltabq check --config <path>
  deltabq stage --config <path>

Commands:
  check     Assess source tables against BigQuery column types
  stage     Buffer Debezium change events and stage them as batches
  help      Show this help message
`)
}
