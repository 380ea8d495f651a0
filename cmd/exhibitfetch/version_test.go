package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestGetVersion tests version string resolution.
func TestGetVersion(t *testing.T) {
	t.Parallel()

	if got := getVersion(); got == "" {
		t.Error("expected non-empty version")
	}
}

// TestGetCommit tests commit string resolution.
func TestGetCommit(t *testing.T) {
	t.Parallel()

	if got := getCommit(); got == "" {
		t.Error("expected non-empty commit")
	}
}

// TestGetDate tests build date resolution.
func TestGetDate(t *testing.T) {
	t.Parallel()

	if got := getDate(); got == "" {
		t.Error("expected non-empty date")
	}
}

// TestNewVersionCmd tests the version command output.
func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "exhibitfetch version") {
		t.Errorf("expected output to contain 'exhibitfetch version', got %q", output)
	}
	if !strings.Contains(output, "commit:") {
		t.Errorf("expected output to contain 'commit:', got %q", output)
	}
	if !strings.Contains(output, "built:") {
		t.Errorf("expected output to contain 'built:', got %q", output)
	}
}
