package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level   log.Level
		debug   bool
		wantOut bool
	}{
		{log.InfoLevel, false, true},
		{log.InfoLevel, true, false},
		{log.DebugLevel, true, true},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		l := newLogger(&buf, tt.level)
		if tt.debug {
			l.Debug("layout computed")
		} else {
			l.Info("layout computed")
		}
		if got := buf.Len() > 0; got != tt.wantOut {
			t.Errorf("level %v debug=%v: wrote=%v, want %v", tt.level, tt.debug, got, tt.wantOut)
		}
	}
}

func TestStopwatch(t *testing.T) {
	var buf bytes.Buffer
	done := stopwatch(newLogger(&buf, log.InfoLevel))
	done("Rendered 2 files", "format", "svg")

	out := buf.String()
	for _, want := range []string{"Rendered 2 files", "format=svg", "took="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should give the default logger")
	}
	l := newLogger(&bytes.Buffer{}, log.WarnLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("attached logger not returned")
	}
}

func TestLoadConfigLevel(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "honeycomb.toml", "[log]\nlevel = \"warn\"\n")

	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"cache", "path"})
	root.SetOut(&bytes.Buffer{})
	captureStdout(t)
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := c.Logger.GetLevel(); got != log.WarnLevel {
		t.Errorf("level = %v, want warn", got)
	}
}
