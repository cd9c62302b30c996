package cli

import (
	"slices"
	"strings"
	"testing"
)

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"p", []string{"png"}},
		{"svg,", []string{"svg,dot", "svg,html", "svg,json", "svg,png", "svg,ringmap"}},
		{"svg,h", []string{"svg,html"}},
		{"x", nil},
	}
	for _, tt := range tests {
		got, _ := completeFormats(nil, nil, tt.in)
		if !slices.Equal(got, tt.want) {
			t.Errorf("completeFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCompleteProjectIDs(t *testing.T) {
	out, err := runCLI(t, "__complete", "detail", "p")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"p1\t", "p6\t"} {
		if !strings.Contains(out, want) {
			t.Errorf("completions missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "me\t") {
		t.Errorf("completion ignored the prefix:\n%s", out)
	}
}
