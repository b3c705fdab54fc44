// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
)

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envValues carries overrides that do not live in AppConfig directly.
type envValues struct {
	ubounds string
}

// envOverride declares a single environment variable override: the env key
// (without the SIEVEBENCH_ prefix), the flag names it shadows and a function
// applying the value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, *envValues, string)
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	{"UBOUNDS", []string{"ubounds", "u"}, func(_ *AppConfig, e *envValues, v string) {
		e.ubounds = v
	}},
	{"STRATEGY", []string{"strategy"}, func(c *AppConfig, _ *envValues, v string) {
		c.Strategy = v
	}},
	{"WORKERS", []string{"workers"}, func(c *AppConfig, _ *envValues, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Workers = parsed
		}
	}},
	{"FORMAT", []string{"format"}, func(c *AppConfig, _ *envValues, v string) {
		c.Format = v
	}},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, _ *envValues, v string) {
		c.Quiet = parseBoolEnv(v, c.Quiet)
	}},
	{"VERBOSE", []string{"verbose", "v"}, func(c *AppConfig, _ *envValues, v string) {
		c.Verbose = parseBoolEnv(v, c.Verbose)
	}},
	{"TUI", []string{"tui"}, func(c *AppConfig, _ *envValues, v string) {
		c.TUI = parseBoolEnv(v, c.TUI)
	}},
	{"METRICS", []string{"metrics"}, func(c *AppConfig, _ *envValues, v string) {
		c.Metrics = parseBoolEnv(v, c.Metrics)
	}},
	{"CALIBRATE", []string{"calibrate"}, func(c *AppConfig, _ *envValues, v string) {
		c.Calibrate = parseBoolEnv(v, c.Calibrate)
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, _ *envValues, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// Priority: CLI flags > environment variables > defaults.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) envValues {
	var env envValues
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, &env, val)
		}
	}
	return env
}
