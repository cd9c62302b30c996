package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

// captureStdout redirects command output into a buffer for the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

// runCLI executes args against a fresh root command with config lookups
// isolated from the developer's environment.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("HONEYCOMB_CACHE_BACKEND", "none")
	t.Chdir(t.TempDir())

	out := captureStdout(t)
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(io.Discard)
	err := root.Execute()
	return out.String(), err
}

const testCatalog = `[
  {"id":"me","ring":0,"angle":0,"titre":"Me","description":"Developer","tags":["Go"]},
  {"id":"a","ring":1,"angle":0,"titre":"Alpha","tags":["Game"],"url":"https://example.com/a"},
  {"id":"b","ring":1,"angle":120,"titre":"Beta","tags":["Web"]},
  {"id":"c","ring":2,"angle":60,"titre":"Gamma","tags":["Game","VR"]}
]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeCatalog writes testCatalog into dir and returns its path.
func writeCatalog(t *testing.T, dir string) string {
	t.Helper()
	return writeFile(t, dir, "projects.json", testCatalog)
}
