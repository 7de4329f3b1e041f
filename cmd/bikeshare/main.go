package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bikeshare/internal/config"
	apperrors "bikeshare/internal/errors"
	"bikeshare/internal/infrastructure"
	"bikeshare/pkg/contracts"
	"bikeshare/pkg/contracts/domain"
)

type options struct {
	city        string
	month       string
	day         string
	raw         bool
	interactive bool
	version     bool
	list        bool
	export      string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("bikeshare", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.city, "city", "", "city to analyze (prompted for when empty)")
	fs.StringVar(&opts.month, "month", domain.FilterAll, `month name, or "all"`)
	fs.StringVar(&opts.day, "day", domain.FilterAll, `day of week, or "all"`)
	fs.BoolVar(&opts.raw, "raw", false, "print the matching rows, 5 at a time")
	fs.BoolVar(&opts.interactive, "interactive", false, "prompt for filters and offer to restart")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")
	fs.StringVar(&opts.export, "export", "", "write the matching rows to this CSV file")
	fs.BoolVar(&opts.list, "list", false, "list the registered cities and their source files, then exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.city == "" && !opts.list {
		opts.interactive = true
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "bikeshare: %v\n", err)
		return 2
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.InfoContext(ctx, "Starting bikeshare",
		slog.String("version", contracts.Version),
		slog.String("config", cfg.String()),
		slog.Bool("interactive", opts.interactive))

	a, err := newApp(cfg, logger, stdout)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "bikeshare: %v\n", err)
		return 1
	}
	defer a.close(context.WithoutCancel(ctx))

	switch {
	case opts.list:
		err = a.list()
	case opts.interactive:
		err = a.interactive(ctx, stdin)
	default:
		spec := domain.FilterSpec{City: opts.city, Month: opts.month, Day: opts.day}
		err = a.query(ctx, spec, opts.raw, opts.export)
	}
	if err != nil {
		logger.ErrorContext(ctx, "Query failed",
			slog.String("error", err.Error()),
			slog.String("error_type", string(apperrors.TypeOf(err))))
		fmt.Fprintf(stderr, "bikeshare: %v\n", err)
		return 1
	}
	return 0
}
