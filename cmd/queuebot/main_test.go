package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand_Version(t *testing.T) {
	cmd := newRootCommand()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), version) {
		t.Errorf("expected version %q in output, got %q", version, out.String())
	}
}

func TestRootCommand_EnvFileFlagIsRepeatable(t *testing.T) {
	cmd := newRootCommand()

	if err := cmd.ParseFlags([]string{"--env-file", "a.env", "--env-file", "b.env"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := cmd.Flags().GetStringArray("env-file")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "a.env" || got[1] != "b.env" {
		t.Errorf("expected [a.env b.env], got %v", got)
	}
}
