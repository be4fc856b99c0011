package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prodboard/internal/app"
	"prodboard/internal/config"
	"prodboard/internal/infrastructure"
	"prodboard/internal/view"
	"prodboard/pkg/contracts"
	"prodboard/pkg/contracts/domain"
)

type options struct {
	outDir string
	metric domain.Metric
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var (
		opts   options
		metric string
	)
	fs := flag.NewFlagSet("prodboard-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.outDir, "out", "", "output directory for report runs (defaults to the configured reports dir)")
	fs.StringVar(&metric, "metric", string(domain.MetricRaw), "quantity metric: raw or weighted")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch m := domain.Metric(metric); m {
	case domain.MetricRaw, domain.MetricWeighted:
		opts.metric = m
	default:
		return opts, fmt.Errorf("invalid metric %q: want %s or %s", metric, domain.MetricRaw, domain.MetricWeighted)
	}
	return opts, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run generates one report and returns the process exit code: 2 for usage
// errors, 1 for failures.
func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		return 1
	}
	if opts.outDir != "" {
		cfg.Paths.ReportsDir = opts.outDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		return 1
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Generating report", slog.String("version", contracts.GetVersionString()))

	application, err := app.New(cfg, logger, app.NewSourceLoader(cfg, logger))
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := application.OTelProviders.Shutdown(context.Background()); err != nil {
			logger.Error("Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := application.WriteReport(ctx, time.Now(), view.Request{Metric: opts.metric})
	if err != nil {
		logger.Error("Failed to write report", slog.String("error", err.Error()))
		return 1
	}

	for _, w := range report.Diagnostic.Warnings {
		logger.Warn("Source warning", slog.String("warning", w))
	}
	logger.Info("Report generated successfully",
		slog.String("dir", report.Dir),
		slog.Int("rows", report.Diagnostic.Rows),
		slog.Int("dropped", report.Diagnostic.Dropped),
		slog.Int("files", len(report.Files)))

	fmt.Fprintln(stdout, report.Dir)
	return 0
}
