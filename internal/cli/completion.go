package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so adding a flag only requires
// appending to it.
type FlagCompletion struct {
	Long       string   // long flag name without "--"
	Short      string   // short flag without "-"
	Help       string   // description text
	Values     []string // static completion values (nil = boolean or free-form)
	ValueName  string   // label for the value in zsh
	IsStrategy bool     // values come from the strategy list
}

// takesValue reports whether the flag expects an argument.
func (f FlagCompletion) takesValue() bool {
	return f.ValueName != ""
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "ubounds", Short: "u", Help: "Comma-separated upper bounds", ValueName: "bounds"},
	{Long: "strategy", Help: "Composite-marking strategy", IsStrategy: true, ValueName: "strategy"},
	{Long: "workers", Help: "Goroutine limit for the parallel strategy", Values: []string{"1", "2", "4", "8", "16"}, ValueName: "count"},
	{Long: "format", Help: "Output format", Values: Formats, ValueName: "format"},
	{Long: "quiet", Short: "q", Help: "Only print the results table"},
	{Long: "verbose", Short: "v", Help: "Enable debug logging"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "tui", Help: "Follow the run in an interactive dashboard"},
	{Long: "calibrate", Help: "Time every strategy and recommend the fastest"},
	{Long: "metrics", Help: "Write Prometheus metrics to stderr after the run"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion writes a completion script for shell to out.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: "bash", "zsh" or "fish".
//   - strategies: The available strategy names.
//
// Returns:
//   - error: An error if the shell is not supported or the write fails.
func GenerateCompletion(out io.Writer, shell string, strategies []string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(strategies)
	case "zsh":
		script = zshCompletion(strategies)
	case "fish":
		script = fishCompletion(strategies)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func valuesFor(f FlagCompletion, strategies []string) []string {
	if f.IsStrategy {
		return strategies
	}
	return f.Values
}

func bashCompletion(strategies []string) string {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		var patterns []string
		if f.Long != "" {
			patterns = append(patterns, "--"+f.Long)
		}
		if f.Short != "" {
			patterns = append(patterns, "-"+f.Short)
		}
		opts = append(opts, patterns...)

		if vals := valuesFor(f, strategies); len(vals) > 0 {
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				strings.Join(patterns, "|"), strings.Join(vals, " "))
		}
	}

	return fmt.Sprintf(`# Bash completion script for sievebench
# Add this to your ~/.bashrc or ~/.bash_completion

_sievebench_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _sievebench_completions sievebench
`, strings.Join(opts, " "), cases.String())
}

func zshCompletion(strategies []string) string {
	var args []string
	for _, f := range flagRegistry {
		optSpec := "[" + f.Help + "]"
		if f.takesValue() {
			optSpec += ":" + f.ValueName + ":"
			if vals := valuesFor(f, strategies); len(vals) > 0 {
				optSpec += "(" + strings.Join(vals, " ") + ")"
			}
		}
		switch {
		case f.Long != "" && f.Short != "":
			args = append(args, fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s'", f.Short, f.Long, f.Short, f.Long, optSpec))
		case f.Long != "":
			args = append(args, fmt.Sprintf("'--%s%s'", f.Long, optSpec))
		default:
			args = append(args, fmt.Sprintf("'-%s%s'", f.Short, optSpec))
		}
	}

	return fmt.Sprintf(`#compdef sievebench
# Zsh completion script for sievebench
# Place this file in a directory of your $fpath as _sievebench

_arguments -s \
    %s
`, strings.Join(args, " \\\n    "))
}

func fishCompletion(strategies []string) string {
	var b strings.Builder
	b.WriteString("# Fish completion script for sievebench\n")
	b.WriteString("# Save as ~/.config/fish/completions/sievebench.fish\n\n")
	for _, f := range flagRegistry {
		line := "complete -c sievebench"
		if f.Short != "" {
			line += " -s " + f.Short
		}
		if f.Long != "" {
			line += " -l " + f.Long
		}
		if f.takesValue() {
			line += " -r"
			if vals := valuesFor(f, strategies); len(vals) > 0 {
				line += fmt.Sprintf(" -f -a '%s'", strings.Join(vals, " "))
			}
		}
		line += fmt.Sprintf(" -d '%s'", f.Help)
		b.WriteString(line + "\n")
	}
	return b.String()
}
