package metrics

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, b []byte) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &entry))
	return entry
}

// --- Level Tests ---

func TestLevelString(t *testing.T) {
	for level, want := range map[Level]string{
		LevelDebug:  "DEBUG",
		LevelInfo:   "INFO",
		LevelWarn:   "WARN",
		LevelError:  "ERROR",
		LevelSilent: "SILENT",
		Level(42):   "UNKNOWN",
	} {
		assert.Equal(t, want, level.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"WARN", LevelWarn},
		{"warning", LevelWarn},
		{"ERROR", LevelError},
		{"SILENT", LevelSilent},
		{"off", LevelSilent},
		{"none", LevelSilent},
		{"invalid", LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), tt.input)
	}
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("JSON")
	assert.True(t, ok)
	assert.Equal(t, FormatJSON, f)

	f, ok = ParseFormat("text")
	assert.True(t, ok)
	assert.Equal(t, FormatText, f)

	f, ok = ParseFormat("")
	assert.True(t, ok)
	assert.Equal(t, FormatText, f)

	_, ok = ParseFormat("xml")
	assert.False(t, ok)
}

// --- Logger Tests ---

func TestLoggerDefaultsToStderr(t *testing.T) {
	l := NewLogger()
	assert.Equal(t, os.Stderr, l.out)
	assert.Equal(t, LevelInfo, l.Level())
}

func TestLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithLevel(LevelDebug), WithName("pke"))

	l.Info("test message", Fields{"key": "value"})

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "[pke] test message")
	assert.Contains(t, out, "key=value")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestLoggerColor(t *testing.T) {
	var plain, colored, never bytes.Buffer
	NewLogger(WithOutput(&plain)).Warn("m")
	NewLogger(WithOutput(&colored), WithColor(ColorAlways)).Warn("m")
	NewLogger(WithOutput(&never), WithColor(ColorNever)).Warn("m")

	assert.NotContains(t, plain.String(), "\033[")
	assert.NotContains(t, never.String(), "\033[")
	assert.Contains(t, colored.String(), colorYellow+"WARN "+colorReset)
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithFormat(FormatJSON))

	l.Info("test message", Fields{"key": "value"})

	entry := decodeEntry(t, buf.Bytes())
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Contains(t, entry, "time")
	assert.NotContains(t, entry, "logger")
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithLevel(LevelWarn))

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestLoggerEnabled(t *testing.T) {
	l := NewLogger(WithLevel(LevelWarn))
	assert.False(t, l.Enabled(LevelInfo))
	assert.True(t, l.Enabled(LevelWarn))
	assert.True(t, l.Enabled(LevelError))
	assert.False(t, l.Enabled(LevelSilent))

	l.SetLevel(LevelSilent)
	assert.False(t, l.Enabled(LevelError))
}

func TestLoggerSilentLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithLevel(LevelSilent))

	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	assert.Zero(t, buf.Len())
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(
		WithOutput(&buf),
		WithFormat(FormatJSON),
		WithFields(Fields{"base": "field"}),
	)

	parent.With(Fields{"child": "field"}).Info("test")

	entry := decodeEntry(t, buf.Bytes())
	assert.Equal(t, "field", entry["base"])
	assert.Equal(t, "field", entry["child"])

	buf.Reset()
	parent.Info("again")
	assert.NotContains(t, decodeEntry(t, buf.Bytes()), "child")
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithFormat(FormatJSON), WithName("parent"))

	l.Named("child").Info("test")
	assert.Equal(t, "parent.child", decodeEntry(t, buf.Bytes())["logger"])

	buf.Reset()
	NewLogger(WithOutput(&buf), WithFormat(FormatJSON)).Named("solo").Info("test")
	assert.Equal(t, "solo", decodeEntry(t, buf.Bytes())["logger"])
}

func TestLoggerDerivedShareLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(WithOutput(&buf), WithLevel(LevelError))
	child := parent.Named("child").With(Fields{"k": "v"})

	child.Info("hidden")
	assert.Zero(t, buf.Len())

	parent.SetLevel(LevelInfo)
	child.Info("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Equal(t, LevelInfo, child.Level())
}

func TestLoggerFieldMerging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithFormat(FormatJSON), WithFields(Fields{"a": "1"}))

	l.Info("test", Fields{"b": "2"}, Fields{"c": "3", "a": "override"})

	entry := decodeEntry(t, buf.Bytes())
	assert.Equal(t, "override", entry["a"])
	assert.Equal(t, "2", entry["b"])
	assert.Equal(t, "3", entry["c"])
}

func TestLoggerTextFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Info("test", Fields{"zebra": "1", "apple": "2", "mango": "3"})

	assert.Contains(t, buf.String(), "apple=2 mango=3 zebra=1")
}

func TestLoggerConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithFormat(FormatJSON))

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Named("worker").Info("line", Fields{"i": i})
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 20)
	for _, line := range lines {
		decodeEntry(t, []byte(line))
	}
}

// --- Preset Logger Tests ---

func TestNullLogger(t *testing.T) {
	l := NullLogger()
	assert.NotPanics(t, func() {
		l.Debug("test")
		l.Info("test")
		l.Warn("test")
		l.Error("test")
	})
}

func TestPresetLoggers(t *testing.T) {
	var buf bytes.Buffer
	TestLogger(&buf).Debug("dbg")
	assert.Contains(t, buf.String(), "dbg")

	buf.Reset()
	p := ProductionLogger(&buf)
	p.Debug("dropped")
	p.Info("kept")
	assert.Equal(t, "kept", decodeEntry(t, buf.Bytes())["msg"])
}

func TestGlobalLogger(t *testing.T) {
	orig := GetLogger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(TestLogger(&buf))

	Debug("global debug")
	Info("global info")
	Warn("global warn")
	Error("global error")

	out := buf.String()
	for _, msg := range []string{"global debug", "global info", "global warn", "global error"} {
		assert.Contains(t, out, msg)
	}
}
