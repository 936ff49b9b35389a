package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)
	defer Init("info")

	Init("warn")
	Debugf("hidden %d", 1)
	Infof("hidden %d", 2)
	Warnf("visible %d", 3)
	Errorf("visible %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("low-level messages leaked: %q", out)
	}
	if !strings.Contains(out, "visible 3") || !strings.Contains(out, "visible 4") {
		t.Fatalf("expected warn/error output, got %q", out)
	}
	if LevelString() != "warn" {
		t.Fatalf("unexpected level %q", LevelString())
	}
}

func TestInitDefaultsToInfo(t *testing.T) {
	Init("bogus")
	if LevelString() != "info" {
		t.Fatalf("unexpected level %q", LevelString())
	}
}
