package catalog

import (
	"testing"

	"github.com/styloxis/honeycomb/pkg/errors"
)

func TestFilter(t *testing.T) {
	c := Default()
	tests := []struct {
		expr string
		want []string
	}{
		{"", []string{"me", "p1", "p2", "p3", "p4", "p5", "p6"}},
		{"center", []string{"me"}},
		{`"Game" in tags`, []string{"p1", "p2"}},
		{`ring == 1 && url == ""`, []string{"p4", "p5", "p6"}},
		{`angle >= 180 && !center`, []string{"p4", "p5", "p6"}},
		{`title contains "AI"`, []string{"p4"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := CompileFilter(tt.expr)
			if err != nil {
				t.Fatalf("CompileFilter: %v", err)
			}
			got, err := f.Apply(c)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d projects, want %v", len(got), tt.want)
			}
			for i, p := range got {
				if p.ID != tt.want[i] {
					t.Errorf("position %d: got %s, want %s", i, p.ID, tt.want[i])
				}
			}
		})
	}
}

func TestCompileFilterErrors(t *testing.T) {
	for _, expr := range []string{"ring +", "ring", "unknown == 1"} {
		if _, err := CompileFilter(expr); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("CompileFilter(%q) = %v, want INVALID_INPUT", expr, err)
		}
	}
}
