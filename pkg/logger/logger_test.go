package logger

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	prev := GetLevel()
	t.Cleanup(func() {
		SetOutput(nilWriter{})
		SetLevel(prev)
	})
	return &buf
}

type nilWriter struct{}

func (nilWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestLevelFiltering(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(INFO)

	DebugC("walk", "hidden")
	InfoC("walk", "shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "component=walk")
}

func TestFieldsAreSorted(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(DEBUG)

	DebugCF("sse", "frame", map[string]any{"zeta": 1, "alpha": 2})

	out := buf.String()
	assert.Less(t, bytes.Index([]byte(out), []byte("alpha=2")), bytes.Index([]byte(out), []byte("zeta=1")))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   DEBUG,
		" WARN ":  WARN,
		"warning": WARN,
		"error":   ERROR,
		"":        INFO,
		"verbose": INFO,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
	assert.Equal(t, "WARN", WARN.String())
}

func TestSafeHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secret")
	h.Set("X-Api-Key", "k")
	h.Set("Accept", "text/event-stream")

	safe := SafeHeaders(h)
	assert.Equal(t, "<redacted>", safe["Authorization"])
	assert.Equal(t, "<redacted>", safe["X-Api-Key"])
	assert.Equal(t, "text/event-stream", safe["Accept"])
}
