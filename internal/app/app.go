package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"

	"github.com/agbru/sievebench/internal/calibration"
	"github.com/agbru/sievebench/internal/cli"
	"github.com/agbru/sievebench/internal/config"
	apperrors "github.com/agbru/sievebench/internal/errors"
	"github.com/agbru/sievebench/internal/harness"
	"github.com/agbru/sievebench/internal/logging"
	"github.com/agbru/sievebench/internal/metrics"
	"github.com/agbru/sievebench/internal/sieve"
	"github.com/agbru/sievebench/internal/tui"
	"github.com/agbru/sievebench/internal/ui"
	"github.com/rs/zerolog"
)

// calibrationRepeats is the number of timed runs per calibration candidate.
const calibrationRepeats = 3

// Application represents the sievebench application instance.
type Application struct {
	Config    config.AppConfig
	Factory   sieve.Factory
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom marker Factory for the application.
func WithFactory(f sieve.Factory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	custom := app.Factory != nil
	if !custom {
		app.Factory = sieve.NewDefaultFactory(0)
	}

	programName := "sievebench"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List(), cli.Formats)
	if err != nil {
		return nil, err
	}
	if !custom {
		app.Factory = sieve.NewDefaultFactory(cfg.Workers)
	}

	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	zerolog.SetGlobalLevel(logLevel(a.Config))
	ui.InitTheme(a.Config.NoColor)

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}
	return a.runSieves(ctx, out)
}

// logLevel maps --verbose and --quiet to a zerolog level. Informational
// lines are left to the run header and the table unless --verbose is set.
func logLevel(cfg config.AppConfig) zerolog.Level {
	switch {
	case cfg.Verbose:
		return zerolog.DebugLevel
	case cfg.Quiet:
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runCalibration times every strategy on the largest requested bound, or
// on calibration.DefaultProbeBound when none was given.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	colors := cli.CLIColorProvider{}
	bound := calibration.DefaultProbeBound
	if bounds := harness.Normalize(a.Config.UpperBounds); len(bounds) > 0 {
		bound = bounds[len(bounds)-1]
	}

	candidates, err := calibration.Candidates(a.Factory, calibration.GenerateWorkerCounts())
	if err != nil {
		return apperrors.HandleRunError(err, a.ErrWriter, colors)
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "Calibrating %d strategies on upper bound %d...\n", len(candidates), bound)
	}
	ms, err := calibration.Calibrate(ctx, bound, candidates, calibrationRepeats)
	if err != nil {
		return apperrors.HandleRunError(err, a.ErrWriter, colors)
	}
	if err := calibration.PrintResults(out, bound, ms, cli.TablePresenter{Format: a.Config.Format}); err != nil {
		return apperrors.HandleRunError(err, a.ErrWriter, colors)
	}
	return apperrors.ExitSuccess
}

// runSieves builds the harness, runs it with a progress reporter and renders
// the resulting table.
func (a *Application) runSieves(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	colors := cli.CLIColorProvider{}
	marker, err := a.Factory.Get(a.Config.Strategy)
	if err != nil {
		return apperrors.HandleRunError(apperrors.NewConfigError("%v", err), a.ErrWriter, colors)
	}

	progressChan := make(chan harness.ProgressUpdate, 2*len(a.Config.UpperBounds))
	var logger logging.Logger = logging.NewConsoleLogger(a.ErrWriter, "harness", !ui.ColorsEnabled())
	if a.Config.TUI {
		// Log lines would tear the alternate screen.
		logger = logging.NopLogger{}
	}
	opts := []harness.Option{
		harness.WithMarker(marker),
		harness.WithLogger(logger),
		harness.WithProgress(progressChan),
		harness.WithResourceSampling(a.Config.Verbose),
	}
	var runMetrics *metrics.RunMetrics
	if a.Config.Metrics {
		runMetrics = metrics.NewRunMetrics()
		opts = append(opts, harness.WithObserver(runMetrics))
	}
	h, err := harness.New(a.Config.UpperBounds, opts...)
	if err != nil {
		return apperrors.HandleRunError(err, a.ErrWriter, colors)
	}

	if a.Config.TUI {
		if err := tui.Run(ctx, h, progressChan, Version); err != nil {
			return apperrors.HandleRunError(err, a.ErrWriter, colors)
		}
		return a.present(h, out, runMetrics)
	}

	// Skip the header and spinner in quiet mode
	var reporter harness.ProgressReporter = cli.SpinnerReporter{}
	progressOut := out
	if a.Config.Quiet {
		reporter = harness.NullProgressReporter{}
		progressOut = io.Discard
	} else {
		cli.PrintRunHeader(out, h.Bounds(), h.Strategy())
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, progressChan, h.Len(), progressOut)

	go func() {
		// The error is surfaced through Wait.
		_ = h.Run()
		close(progressChan)
	}()

	if err := h.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return apperrors.HandleRunError(apperrors.WrapError(err, "interrupted"), a.ErrWriter, colors)
		}
		wg.Wait()
		return apperrors.HandleRunError(err, a.ErrWriter, colors)
	}
	wg.Wait()

	return a.present(h, out, runMetrics)
}

// present renders the finished run's table in the configured format, then
// the Prometheus metrics when they were collected.
func (a *Application) present(h *harness.Harness, out io.Writer, runMetrics *metrics.RunMetrics) int {
	colors := cli.CLIColorProvider{}
	presenter := cli.TablePresenter{Format: a.Config.Format}
	if err := presenter.PresentTable(h.Table(), out); err != nil {
		return apperrors.HandleRunError(err, a.ErrWriter, colors)
	}
	if runMetrics != nil {
		if err := runMetrics.WritePrometheus(a.ErrWriter); err != nil {
			return apperrors.HandleRunError(err, a.ErrWriter, colors)
		}
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
