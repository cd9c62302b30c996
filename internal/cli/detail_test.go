package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/detail"
)

const testDetail = `{
  "titre": "Alpha",
  "pageData": {
    "paragraphs": ["<p>One</p><script>alert(1)</script>", "<p>Two</p>"],
    "images": ["a1.png", {"url": "a2.png", "placeholderText": "Soon"}],
    "customLink": {"url": "https://example.com/play", "text": "Play"}
  }
}`

func TestDetailCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", testDetail)
	htmlPath := filepath.Join(t.TempDir(), "a.html")

	out, err := runCLI(t, "detail", "a", "--dir", dir, "-o", htmlPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Alpha", "2 shown", "Play", "(new tab)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	html, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(html), "<script>alert") {
		t.Error("paragraph script survived sanitizing")
	}
	if !strings.Contains(string(html), "Alpha - Styloxis") {
		t.Error("document title missing")
	}
}

func TestDetailCommandJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", testDetail)

	out, err := runCLI(t, "detail", "a", "--dir", dir, "--json")
	if err != nil {
		t.Fatal(err)
	}
	var p detail.Page
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if p.Status != detail.StatusOK || len(p.Images) != 2 || p.Images[1].Placeholder != "Soon" {
		t.Errorf("page = %+v", p)
	}
}

func TestDetailCommandErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bare.json", `{"titre":"Bare"}`)

	tests := []struct {
		id   string
		want string
	}{
		{"missing", `Project "missing" not found.`},
		{"bare", detail.MsgUnavailable},
		{"../etc", "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			out, err := runCLI(t, "detail", tt.id, "--dir", dir)
			if err == nil {
				t.Error("expected error")
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestDetailStore(t *testing.T) {
	if _, ok := detailStore("https://example.com/data").(catalog.RemoteStore); !ok {
		t.Error("URL should use a remote store")
	}
	if s, ok := detailStore("data/projects").(catalog.DirStore); !ok || s.Dir != "data/projects" {
		t.Errorf("path store = %#v", s)
	}
}
