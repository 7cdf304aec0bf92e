package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// useDefault replaces the package-level logger for the duration of a test.
func useDefault(t *testing.T, l Logger) {
	t.Helper()

	defaultMu.Lock()
	original := defaultLog
	defaultLog = l
	defaultMu.Unlock()

	t.Cleanup(func() {
		defaultMu.Lock()
		defaultLog = original
		defaultMu.Unlock()
	})
}

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON)))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", func(msg string, attrs ...slog.Attr) { TraceContext(t.Context(), msg, attrs...) }, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
		{"DebugContext", func(msg string, attrs ...slog.Attr) { DebugContext(t.Context(), msg, attrs...) }, "DEBUG"},
		{"InfoContext", func(msg string, attrs ...slog.Attr) { InfoContext(t.Context(), msg, attrs...) }, "INFO"},
		{"WarnContext", func(msg string, attrs ...slog.Attr) { WarnContext(t.Context(), msg, attrs...) }, "WARN"},
		{"ErrorContext", func(msg string, attrs ...slog.Attr) { ErrorContext(t.Context(), msg, attrs...) }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("package message", slog.String("key", "value"))

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to parse output %q: %v", buf.String(), err)
			}

			if entry["level"] != tt.level || entry["msg"] != "package message" || entry["key"] != "value" {
				t.Errorf("unexpected entry: %v", entry)
			}
		})
	}
}

func TestPackage_Config_UpdatesDefault(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, Make(&buf))

	l := Config(WithLevel(LevelDebug), WithFormat(FormatJSON))
	if Default().Level() != LevelDebug || l.Level() != LevelDebug {
		t.Fatalf("Config did not update the default level")
	}

	Debug("configured")

	if !strings.Contains(buf.String(), `"msg":"configured"`) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestPackage_Caller_ReportsCallSite(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, Make(&buf, WithCaller(true), WithFormat(FormatJSON)))

	Info("where")

	if !strings.Contains(buf.String(), "pkg_test.go") {
		t.Errorf("source does not name the calling file: %s", buf.String())
	}
}

func TestPackage_With(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, Make(&buf, WithFormat(FormatJSON)))

	With(slog.String("component", "repl")).Info("ready")

	if !strings.Contains(buf.String(), `"component":"repl"`) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
