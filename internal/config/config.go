// Package config parses command-line flags and environment overrides into
// an AppConfig.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"
	"slices"
	"strconv"
	"strings"

	apperrors "github.com/agbru/sievebench/internal/errors"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "SIEVEBENCH_"

// Defaults.
const (
	DefaultStrategy = "sequential"
	DefaultFormat   = "table"
)

// AppConfig holds the fully resolved application configuration.
type AppConfig struct {
	// UpperBounds are the parsed bounds, zeros and duplicates removed, in
	// the order given. Negative values are left for the harness to drop.
	UpperBounds []int
	Strategy    string
	Workers     int
	Format      string
	Quiet       bool
	Verbose     bool
	NoColor     bool
	TUI         bool
	Metrics     bool
	Calibrate   bool
	Completion  string
}

// ParseConfig parses args (without the program name) into an AppConfig.
// Usage and errors are written to errWriter. A --help request is returned as
// flag.ErrHelp.
//
// Parameters:
//   - programName: Used in the usage banner.
//   - args: Command-line arguments.
//   - errWriter: Destination for usage text and parse errors.
//   - strategies: Valid values for --strategy.
//   - formats: Valid values for --format.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: A ConfigError, flag.ErrHelp, or nil.
func ParseConfig(programName string, args []string, errWriter io.Writer, strategies, formats []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [options]\n\n", programName)
		fmt.Fprintf(errWriter, "Runs one Sieve of Eratosthenes per upper bound and reports each run time.\n\n")
		fs.PrintDefaults()
		fmt.Fprintf(errWriter, "\nEnvironment variables %s<FLAG> override defaults; flags take priority.\n", EnvPrefix)
	}

	var cfg AppConfig
	var ubounds string
	fs.StringVar(&ubounds, "ubounds", "", "Comma-separated upper bounds (required), e.g. 1000,1000000.")
	fs.StringVar(&ubounds, "u", "", "Shorthand for --ubounds.")
	fs.StringVar(&cfg.Strategy, "strategy", DefaultStrategy, fmt.Sprintf("Composite-marking strategy (%s).", strings.Join(strategies, ", ")))
	fs.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "Maximum goroutines used by the parallel strategy.")
	fs.StringVar(&cfg.Format, "format", DefaultFormat, fmt.Sprintf("Output format (%s).", strings.Join(formats, ", ")))
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Only print the results table.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Follow the run in an interactive dashboard, then print the table.")
	fs.BoolVar(&cfg.Metrics, "metrics", false, "Write Prometheus text-format metrics to stderr after the run.")
	fs.BoolVar(&cfg.Calibrate, "calibrate", false, "Time every strategy on the largest bound (or a default probe) and recommend one.")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script for the given shell (bash, zsh, fish).")
	// Handled before parsing by the entry point; declared so they show in usage.
	var version bool
	fs.BoolVar(&version, "version", false, "Print version information and exit.")
	fs.BoolVar(&version, "V", false, "Shorthand for --version.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("invalid arguments: %v", err)
	}

	env := applyEnvOverrides(&cfg, fs)
	if !isFlagSetAny(fs, "ubounds", "u") && env.ubounds != "" {
		ubounds = env.ubounds
	}

	// Completion does not need bounds.
	if cfg.Completion != "" {
		return cfg, nil
	}

	if !isFlagSetAny(fs, "ubounds", "u") && ubounds == "" {
		if !cfg.Calibrate {
			fs.Usage()
			return AppConfig{}, apperrors.NewConfigError("missing argument: --ubounds")
		}
	} else {
		bounds, err := ParseBounds(ubounds)
		if err != nil {
			return AppConfig{}, err
		}
		cfg.UpperBounds = bounds
	}

	if err := cfg.Validate(strategies, formats); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// ParseBounds parses a comma-separated list of integers. Zero values and
// duplicates are dropped; the first occurrence order is kept. An entry that
// is not an integer, or a list left empty, is an invalid argument.
func ParseBounds(s string) ([]int, error) {
	var bounds []int
	seen := map[int]bool{}
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, apperrors.NewConfigError("invalid argument: upper bound %q is not an integer", field)
		}
		if v == 0 || seen[v] {
			continue
		}
		seen[v] = true
		bounds = append(bounds, v)
	}
	if len(bounds) == 0 {
		return nil, apperrors.NewConfigError("invalid argument: --ubounds %q contains no usable upper bound", s)
	}
	return bounds, nil
}

// Validate checks the fields that ParseConfig cannot check by type alone.
func (c AppConfig) Validate(strategies, formats []string) error {
	if !slices.Contains(strategies, c.Strategy) {
		return apperrors.ValidationError{Field: "strategy", Message: fmt.Sprintf("unknown strategy %q (accepted: %s)", c.Strategy, strings.Join(strategies, ", "))}
	}
	if !slices.Contains(formats, c.Format) {
		return apperrors.ValidationError{Field: "format", Message: fmt.Sprintf("unknown format %q (accepted: %s)", c.Format, strings.Join(formats, ", "))}
	}
	if c.Workers <= 0 {
		return apperrors.ValidationError{Field: "workers", Message: fmt.Sprintf("must be positive, got %d", c.Workers)}
	}
	return nil
}
