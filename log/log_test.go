package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level info, got %v", logger.Level())
	}
	if logger.caller {
		t.Error("expected caller disabled by default")
	}
	if logger.Format() != FormatText {
		t.Errorf("expected default format text, got %v", logger.Format())
	}
	if !logger.pretty {
		t.Error("expected pretty enabled by default")
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelDebug))

	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged after setting level to Debug")
	}

	buf.Reset()
	logger = Make(&buf, WithLevel(LevelError))
	logger.Info("info message")
	if buf.Len() > 0 {
		t.Error("info message logged when level is Error")
	}

	logger.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at Error level")
	}
}

func TestLogger_Make_WithCaller_IncludesSource(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithCaller(true), WithPretty(false))
	logger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, "source=") {
		t.Fatalf("caller info not included when enabled: %s", output)
	}
	if !strings.Contains(output, "log_test.go") {
		t.Errorf("expected source to name the calling file, got: %s", output)
	}

	buf.Reset()
	logger = Make(&buf, WithCaller(false), WithPretty(false))
	logger.Info("test message")

	if strings.Contains(buf.String(), "source=") {
		t.Error("caller info included when disabled")
	}
}

func TestLogger_Make_WithFormat_SetsOutputFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}
		if result["msg"] != "test message" {
			t.Errorf("expected msg=test message, got %v", result["msg"])
		}
		if result["key"] != "value" {
			t.Errorf("expected key=value, got %v", result["key"])
		}
		if result["level"] != "INFO" {
			t.Errorf("expected level=INFO, got %v", result["level"])
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatText), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		output := buf.String()
		if !strings.Contains(output, `msg="test message"`) {
			t.Errorf("message not found in text output: %s", output)
		}
		if !strings.Contains(output, "key=value") {
			t.Errorf("key=value not found in text output: %s", output)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(Format(99)))
		logger.Error("dropped")

		if buf.Len() != 0 {
			t.Errorf("expected no output for unknown format, got: %s", buf.String())
		}
	})
}

func TestLogger_LogMethods_RespectLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		minLevel Level
		logged   bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at debug", Logger.Debug, LevelDebug, true},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"info at warn", Logger.Info, LevelWarn, false},
		{"warn at warn", Logger.Warn, LevelWarn, true},
		{"warn at error", Logger.Warn, LevelError, false},
		{"error at error", Logger.Error, LevelError, true},
		{"error at trace", Logger.Error, LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithLevel(tt.minLevel))
			tt.logFunc(logger, "test message")

			if logged := buf.Len() > 0; logged != tt.logged {
				t.Errorf("expected logged=%v, got output %q", tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_AllLevels_WriteLevelName(t *testing.T) {
	tests := []struct {
		logFunc func(Logger, string, ...slog.Attr)
		level   string
	}{
		{Logger.Trace, "TRACE"},
		{Logger.Debug, "DEBUG"},
		{Logger.Info, "INFO"},
		{Logger.Warn, "WARN"},
		{Logger.Error, "ERROR"},
	}

	for _, pretty := range []bool{false, true} {
		for _, tt := range tests {
			name := tt.level
			if pretty {
				name += "/pretty"
			}

			t.Run(name, func(t *testing.T) {
				var buf bytes.Buffer
				logger := Make(&buf, WithLevel(LevelTrace), WithPretty(pretty))

				tt.logFunc(logger, "test message")

				output := buf.String()
				if !strings.Contains(output, "level="+tt.level) {
					t.Errorf("expected level %q, got: %s", tt.level, output)
				}
				if strings.Contains(output, "DEBUG-4") {
					t.Errorf("trace written as slog offset: %s", output)
				}
			})
		}
	}
}

func TestLogger_ConcurrentCalls_ThreadSafe(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(false))

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("concurrent message", slog.Int("id", id))
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Errorf("expected 100 log lines, got %d", len(lines))
	}
}

func TestLogger_ConcurrentWrap_ThreadSafe(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(false))

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			logger.Wrap(WithLevel(LevelDebug)).Debug("wrapped")
		}()
		go func() {
			defer wg.Done()
			logger.Info("plain")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Errorf("expected 100 log lines, got %d", len(lines))
	}
}

func TestLogger_Wrap_OverridesWithoutMutatingParent(t *testing.T) {
	var buf bytes.Buffer
	parent := Make(&buf, WithLevel(LevelWarn), WithPretty(false))
	child := parent.Wrap(WithLevel(LevelDebug), WithFormat(FormatJSON))

	if parent.Level() != LevelWarn || parent.Format() != FormatText {
		t.Errorf("parent changed: level=%v format=%v", parent.Level(), parent.Format())
	}
	if child.Level() != LevelDebug || child.Format() != FormatJSON {
		t.Errorf("child not configured: level=%v format=%v", child.Level(), child.Format())
	}

	child.Debug("from child")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected JSON output from child, got: %s", buf.String())
	}
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false))

	logger.With(slog.String("script", "ini")).Info("script done")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to unmarshal log entry: %v", err)
	}

	if val, ok := entry["script"]; !ok || val != "ini" {
		t.Errorf("expected script=ini in log entry, got %v", val)
	}
}

func TestLogger_ZeroValue_Safety(t *testing.T) {
	var l Logger

	l.Trace("test")
	l.Debug("test")
	l.Info("test")
	l.Warn("test")
	l.Error("test")

	if l.Level() != DefaultLevel {
		t.Errorf("expected default level, got %v", l.Level())
	}

	l2 := l.With(slog.String("key", "value"))
	if l2.Logger != nil {
		t.Error("expected nil logger from zero value With")
	}

	var buf bytes.Buffer
	l3 := l.Wrap(WithOutput(&buf), WithPretty(false))
	l3.Info("wrapped zero")
	if !strings.Contains(buf.String(), "wrapped zero") {
		t.Error("expected zero value Wrap to produce a working logger")
	}
}

func TestLogger_TimeLayoutNone_OmitsTime(t *testing.T) {
	var buf bytes.Buffer
	l := Make(&buf, WithTimeLayout("none"), WithPretty(false), WithFormat(FormatJSON))
	l.Info("test")

	if strings.Contains(buf.String(), `"time"`) {
		t.Errorf("expected no time field, got: %s", buf.String())
	}
}

func TestLogger_ContextMethods_LogSuccessfully(t *testing.T) {
	ctx := t.Context()

	tests := []struct {
		name    string
		logFunc func(Logger, string)
	}{
		{"trace", func(l Logger, msg string) { l.TraceContext(ctx, msg) }},
		{"debug", func(l Logger, msg string) { l.DebugContext(ctx, msg) }},
		{"info", func(l Logger, msg string) { l.InfoContext(ctx, msg) }},
		{"warn", func(l Logger, msg string) { l.WarnContext(ctx, msg) }},
		{"error", func(l Logger, msg string) { l.ErrorContext(ctx, msg) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithLevel(LevelTrace))

			tt.logFunc(logger, "test message")

			if !strings.Contains(buf.String(), "test message") {
				t.Errorf("expected %s message to be logged", tt.name)
			}
		})
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(false))

	for i := 0; b.Loop(); i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}

func BenchmarkLogger_Info_Pretty(b *testing.B) {
	var buf bytes.Buffer
	logger := Make(&buf).With(slog.String("script", "bench"))

	for i := 0; b.Loop(); i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}
