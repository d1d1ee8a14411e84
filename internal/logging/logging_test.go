package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"":      logrus.InfoLevel,
		"debug": logrus.DebugLevel,
		"WARN":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q)=%v want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewWithOutput_ReportsCaller(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithOutput("debug", &buf)
	if err != nil {
		t.Fatalf("NewWithOutput: %v", err)
	}
	l.Debug("hello")
	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Fatalf("missing message: %q", out)
	}
	if !strings.Contains(out, "logging_test.go") {
		t.Fatalf("missing caller metadata: %q", out)
	}
}

func TestNewWithOutput_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithOutput("info", &buf)
	if err != nil {
		t.Fatalf("NewWithOutput: %v", err)
	}
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %q", buf.String())
	}
}
