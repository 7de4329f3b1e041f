package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"bikeshare/internal/config"
	"bikeshare/internal/dataprocessing"
	"bikeshare/internal/exporter"
	"bikeshare/internal/files"
	"bikeshare/internal/infrastructure"
	"bikeshare/internal/operations"
	"bikeshare/pkg/contracts/domain"
)

// app holds the components one process run needs
type app struct {
	registry    *config.Registry
	loader      *dataprocessing.Loader
	filter      *dataprocessing.FilterEngine
	analyzer    *dataprocessing.Analyzer
	runner      *operations.Runner
	csv         *exporter.CSVWriter
	discovery   *files.Discovery
	providers   *infrastructure.OTelProviders
	metricsFile string
	logger      *slog.Logger
	out         io.Writer
}

func newApp(cfg *config.Config, logger *slog.Logger, out io.Writer) (*app, error) {
	registry, err := config.NewRegistryFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("load city registry: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry: %w", err)
	}

	runner, err := operations.NewRunner(providers, logger)
	if err != nil {
		_ = providers.Shutdown(context.Background())
		return nil, fmt.Errorf("initialize runner: %w", err)
	}

	return &app{
		registry:    registry,
		loader:      dataprocessing.NewLoader(registry, logger),
		filter:      dataprocessing.NewFilterEngine(registry, logger),
		analyzer:    dataprocessing.NewAnalyzer(logger),
		runner:      runner,
		csv:         exporter.NewCSVWriter(logger),
		discovery:   files.NewDiscovery(cfg.Data.Dir),
		providers:   providers,
		metricsFile: cfg.Telemetry.MetricsFile,
		logger:      logger,
		out:         out,
	}, nil
}

// close writes the metrics textfile and flushes telemetry
func (a *app) close(ctx context.Context) {
	if err := a.providers.WriteMetricsFile(a.metricsFile); err != nil {
		a.logger.ErrorContext(ctx, "Failed to write metrics file", slog.String("error", err.Error()))
	}
	if err := a.providers.Shutdown(ctx); err != nil {
		a.logger.ErrorContext(ctx, "Failed to shut down telemetry", slog.String("error", err.Error()))
	}
}

// list prints each registered city with the state of its source file
func (a *app) list() error {
	sources, err := a.discovery.CheckCities(a.registry)
	if err != nil {
		return fmt.Errorf("check city sources: %w", err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CITY\tFILE\tSIZE\tMODIFIED")
	for _, s := range sources {
		if !s.Exists {
			fmt.Fprintf(tw, "%s\t%s\tmissing\t-\n", s.City, s.Path)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.City, s.Path, s.Size, s.ModTime.Format(time.DateTime))
	}
	return tw.Flush()
}

// query runs one non-interactive query and prints its report
func (a *app) query(ctx context.Context, spec domain.FilterSpec, raw bool, export string) error {
	report, err := a.runner.Analyze(ctx, a.loader, a.filter, a.analyzer, spec)
	if err != nil {
		return err
	}
	printReport(a.out, report)

	if export != "" {
		if err := a.csv.WriteTable(export, report.Table, exporter.WriteOptions{BOMPrefix: true}); err != nil {
			return fmt.Errorf("export rows: %w", err)
		}
		fmt.Fprintf(a.out, "\nWrote %d rows to %s\n", report.Table.Len(), export)
	}

	if raw {
		return printAllPages(a.out, report.Table)
	}
	return nil
}

// interactive prompts for filters, prints the report, offers raw rows and
// repeats until the user declines to restart or input ends.
func (a *app) interactive(ctx context.Context, in io.Reader) error {
	p := newPrompter(in, a.out)
	fmt.Fprintln(a.out, "Hello! Let's explore some US bikeshare data!")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		spec, err := p.askFilters(a.registry)
		if err != nil {
			return endOfInput(err)
		}

		report, err := a.runner.Analyze(ctx, a.loader, a.filter, a.analyzer, spec)
		if err != nil {
			return err
		}
		printReport(a.out, report)

		if err := pageRows(p, a.out, report.Table); err != nil {
			return endOfInput(err)
		}

		again, err := p.confirm("Would you like to restart? Enter yes or no.")
		if err != nil || !again {
			return endOfInput(err)
		}
	}
}

// pageRows offers the matching rows five at a time
func pageRows(p *prompter, out io.Writer, table *domain.Table) error {
	show, err := p.confirm("Would you like to print the first 5 rows of data? Enter yes or no.")
	if err != nil || !show {
		return err
	}

	pager := exporter.NewPager(table, exporter.DefaultPageSize)
	if pager.Done() {
		fmt.Fprintln(out, "\nNo rows match the selected filters.")
		return nil
	}
	for {
		if err := printPage(out, pager); err != nil {
			return err
		}
		if pager.Done() {
			fmt.Fprintln(out, "\nNo more rows.")
			return nil
		}
		more, err := p.confirm("Would you like to continue with the next 5 rows? Enter yes or no.")
		if err != nil || !more {
			return err
		}
	}
}

func printAllPages(out io.Writer, table *domain.Table) error {
	pager := exporter.NewPager(table, exporter.DefaultPageSize)
	for !pager.Done() {
		if err := printPage(out, pager); err != nil {
			return err
		}
	}
	return nil
}

func printPage(out io.Writer, pager *exporter.Pager) error {
	fmt.Fprintln(out, rule)
	if _, err := pager.Next(out); err != nil {
		return fmt.Errorf("print rows: %w", err)
	}
	fmt.Fprintln(out, rule)
	return nil
}

// endOfInput treats a closed stdin as a normal way to leave the session
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
