package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"info":    zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestComponentTagsEntries(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "info", Service: "clinic-portal", Output: &buf})
	l := Component("booking")
	l.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if entry["service"] != "clinic-portal" || entry["component"] != "booking" || entry["message"] != "hello" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestInitOnlyOnce(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	Init(Options{Output: &second})
	l := Get()
	l.Info().Msg("x")

	if first.Len() == 0 || second.Len() != 0 {
		t.Fatalf("second Init must not replace the logger")
	}
}

func TestGetBeforeInitPanics(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatalf("Get before Init must panic")
		}
	}()
	Get()
}
