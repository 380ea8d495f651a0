package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestRedactHandler tests credential masking in log output.
func TestRedactHandler(t *testing.T) {
	t.Parallel()

	t.Run("masks sensitive keys", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))

		logger.Info("request prepared",
			"url", "https://fccid.io/BCG-E8726A",
			"cookie", "session=secret-value",
			"Authorization", "Bearer abc123",
		)

		out := buf.String()
		if strings.Contains(out, "secret-value") {
			t.Error("cookie value leaked into log output")
		}
		if strings.Contains(out, "abc123") {
			t.Error("authorization value leaked into log output")
		}
		if !strings.Contains(out, MaskValue) {
			t.Error("expected mask value in output")
		}
		if !strings.Contains(out, "https://fccid.io/BCG-E8726A") {
			t.Error("non-sensitive attribute was altered")
		}
	})

	t.Run("masks keys added via With", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))

		logger.With("token", "supersecret").Info("run started")

		if strings.Contains(buf.String(), "supersecret") {
			t.Error("token value leaked into log output")
		}
	})

	t.Run("masks keys inside groups", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))

		logger.Info("headers set",
			slog.Group("headers",
				slog.String("cookie", "id=42"),
				slog.String("accept", "text/html"),
			),
		)

		out := buf.String()
		if strings.Contains(out, "id=42") {
			t.Error("grouped cookie value leaked into log output")
		}
		if !strings.Contains(out, "text/html") {
			t.Error("non-sensitive grouped attribute was altered")
		}
	})
}

// TestNewLogger tests log level selection.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("default level hides debug and info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Debug("debug line")
		logger.Info("info line")
		logger.Warn("warn line")

		out := buf.String()
		if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
			t.Error("expected debug and info to be suppressed")
		}
		if !strings.Contains(out, "warn line") {
			t.Error("expected warning to be logged")
		}
	})

	t.Run("verbose level shows debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Debug("debug line")

		if !strings.Contains(buf.String(), "debug line") {
			t.Error("expected debug to be logged in verbose mode")
		}
	})
}
