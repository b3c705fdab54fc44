package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()
	strategies := []string{"parallel", "sequential", "spawn"}

	tests := []struct {
		shell    string
		contains []string
	}{
		{"bash", []string{"complete -F _sievebench_completions sievebench", "--ubounds", "--strategy)", `compgen -W "parallel sequential spawn"`, `compgen -W "table markdown plain"`}},
		{"zsh", []string{"#compdef sievebench", "'(-u --ubounds)'{-u,--ubounds}'[Comma-separated upper bounds]:bounds:'", "'--strategy[Composite-marking strategy]:strategy:(parallel sequential spawn)'"}},
		{"fish", []string{"complete -c sievebench -s u -l ubounds -r -d 'Comma-separated upper bounds'", "-l strategy -r -f -a 'parallel sequential spawn'"}},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell, strategies); err != nil {
				t.Fatalf("GenerateCompletion(%q) error: %v", tt.shell, err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("%s script should contain %q\n%s", tt.shell, want, buf.String())
				}
			}
		})
	}

	t.Run("Unsupported shell", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := GenerateCompletion(&buf, "tcsh", strategies); err == nil {
			t.Error("expected an error for tcsh")
		}
	})
}
