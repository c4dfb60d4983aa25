package cli

import (
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		name       string
		toComplete string
		want       []string
	}{
		{"empty", "", formatOrder},
		{"partial first", "p", formatOrder},
		{"after comma", "svg,", []string{"svg,png", "svg,pdf", "svg,dot", "svg,mermaid", "svg,json"}},
		{"two used", "svg, PNG,m", []string{"svg, PNG,pdf", "svg, PNG,dot", "svg, PNG,mermaid", "svg, PNG,json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, directive := completeFormats(nil, nil, tt.toComplete)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("completeFormats(%q) = %v, want %v", tt.toComplete, got, tt.want)
			}
			if directive&cobra.ShellCompDirectiveNoSpace == 0 {
				t.Error("format completion should not append a space")
			}
		})
	}
}

func TestRegisterCompletions(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	for _, name := range []string{"render", "layout", "view"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatalf("Find(%s): %v", name, err)
		}
		if _, ok := cmd.GetFlagCompletionFunc("direction"); !ok {
			t.Errorf("%s --direction should complete", name)
		}
		if cmd.ValidArgsFunction == nil {
			t.Errorf("%s should complete document arguments", name)
		}
	}

	render, _, _ := root.Find([]string{"render"})
	if _, ok := render.GetFlagCompletionFunc("format"); !ok {
		t.Error("render --format should complete")
	}

	exts, directive := render.ValidArgsFunction(render, nil, "")
	if !reflect.DeepEqual(exts, documentExts) || directive != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("document completion = %v, %v", exts, directive)
	}
}

func TestCompletionCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion bash: %v", err)
	}
	if !strings.Contains(buf.String(), "flowtower") {
		t.Error("bash completion script should name the command")
	}

	root.SetArgs([]string{"completion", "tcsh"})
	root.SetErr(io.Discard)
	if err := root.Execute(); err == nil {
		t.Error("unknown shell should be rejected")
	}
}
