package main

import (
	"testing"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history [filing-url]" {
			t.Errorf("expected use 'history [filing-url]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has limit flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("limit")
		if flag == nil {
			t.Fatal("expected limit flag")
		}
		if flag.Shorthand != "n" {
			t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
		}
		if flag.DefValue != "20" {
			t.Errorf("expected default '20', got %q", flag.DefValue)
		}
	})
}

// TestShortenFiling tests URL scheme trimming for table display.
func TestShortenFiling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "strips https scheme",
			url:  "https://fccid.io/BCG-E8726A",
			want: "fccid.io/BCG-E8726A",
		},
		{
			name: "strips http scheme",
			url:  "http://fccid.io/BCG-E8726A",
			want: "fccid.io/BCG-E8726A",
		},
		{
			name: "leaves bare host untouched",
			url:  "fccid.io/BCG-E8726A",
			want: "fccid.io/BCG-E8726A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := shortenFiling(tt.url); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
