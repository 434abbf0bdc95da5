package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"DEBUG", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"trace", logrus.TraceLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if err != nil {
			t.Errorf("ParseLevel(%q) error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestInitQuietKeepsErrorsOnly(t *testing.T) {
	var buf bytes.Buffer
	log := Init(&buf, logrus.DebugLevel, true)
	t.Cleanup(func() { logrus.SetLevel(logrus.InfoLevel) })

	log.Warn("insecure transport")
	log.Error("fabric failed")

	out := buf.String()
	if strings.Contains(out, "insecure transport") {
		t.Errorf("warning should be suppressed, got %q", out)
	}
	if !strings.Contains(out, "fabric failed") {
		t.Errorf("error should be logged, got %q", out)
	}
}

func TestInitLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Init(&buf, logrus.WarnLevel, false)
	t.Cleanup(func() { logrus.SetLevel(logrus.InfoLevel) })

	log.Info("hidden")
	log.WithField("fabric", "apic1").Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info should be filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "fabric=apic1") {
		t.Errorf("expected structured field, got %q", out)
	}
}
