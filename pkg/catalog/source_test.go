package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/styloxis/honeycomb/pkg/errors"
	"github.com/styloxis/honeycomb/pkg/httputil"
)

const sampleJSON = `[
  {"id":"me","ring":0,"angle":0,"titre":"Me","image":"me.png","description":"hi","tags":["profile"],"url":"#me"},
  {"id":"p1","ring":1,"angle":0,"title":"Alias","image":"p1.png","description":"d","tags":["Game"],"url":"/game"}
]`

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"list", sampleJSON},
		{"wrapped", `{"projects":` + sampleJSON + `}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, err := Decode(strings.NewReader(tt.input), FormatJSON)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(ps) != 2 {
				t.Fatalf("got %d projects", len(ps))
			}
			if ps[0].Title != "Me" {
				t.Errorf("titre not decoded: %q", ps[0].Title)
			}
			if ps[1].Title != "Alias" {
				t.Errorf("title alias not decoded: %q", ps[1].Title)
			}
		})
	}
}

func TestDecodeYAML(t *testing.T) {
	input := `
projects:
  - id: me
    ring: 0
    angle: 0
    titre: Me
  - id: p1
    ring: 1
    angle: 60
    title: Second
    tags: [Game, Old]
`
	ps, err := Decode(strings.NewReader(input), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("got %d projects", len(ps))
	}
	if ps[1].Title != "Second" || ps[1].Angle != 60 || len(ps[1].Tags) != 2 {
		t.Errorf("unexpected record: %+v", ps[1])
	}
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"projects": 3}`), FormatJSON)
	if !errors.Is(err, errors.ErrCodeInvalidCatalog) {
		t.Errorf("expected INVALID_CATALOG, got %v", err)
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "projects.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadStrict(context.Background(), File{Path: path})
	if err != nil {
		t.Fatalf("LoadStrict: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d", c.Len())
	}

	_, err = File{Path: filepath.Join(dir, "missing.json")}.Load(context.Background())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestLoadDegradesToEmpty(t *testing.T) {
	c := Load(context.Background(), File{Path: filepath.Join(t.TempDir(), "nope.json")}, nil)
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestRemoteSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	c, err := LoadStrict(context.Background(), Remote{URL: srv.URL})
	if err != nil {
		t.Fatalf("LoadStrict: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d", c.Len())
	}
}

func TestRemoteServesStaleOnFailure(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	fallback, err := httputil.NewLastGood(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	src := Remote{URL: srv.URL, Fallback: fallback}

	if _, err := src.Load(context.Background()); err != nil {
		t.Fatalf("first load: %v", err)
	}
	fail.Store(true)
	ps, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("stale load: %v", err)
	}
	if len(ps) != 2 {
		t.Errorf("got %d projects from fallback", len(ps))
	}
}

func TestSourceFor(t *testing.T) {
	if _, ok := SourceFor("", nil).(Inline); !ok {
		t.Error("empty location should be Inline")
	}
	if _, ok := SourceFor("https://example.com/p.json", nil).(Remote); !ok {
		t.Error("https location should be Remote")
	}
	if _, ok := SourceFor("data/projects.yaml", nil).(File); !ok {
		t.Error("path should be File")
	}
}
