package catalog

import (
	"testing"

	"github.com/styloxis/honeycomb/pkg/errors"
)

func TestNewSortsByRingThenAngle(t *testing.T) {
	c, err := New([]Project{
		{ID: "b", Ring: 1, Angle: 120},
		{ID: "a", Ring: 1, Angle: 0},
		{ID: "far", Ring: 2, Angle: 0},
		{ID: "me", Ring: 0},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var got []string
	for _, p := range c.Projects() {
		got = append(got, p.ID)
	}
	want := []string{"me", "a", "b", "far"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNewRejectsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		projects []Project
	}{
		{"missing id", []Project{{Ring: 0}}},
		{"negative ring", []Project{{ID: "me"}, {ID: "x", Ring: -1}}},
		{"angle out of range", []Project{{ID: "me"}, {ID: "x", Ring: 1, Angle: 360}}},
		{"duplicate id", []Project{{ID: "me"}, {ID: "x", Ring: 1}, {ID: "x", Ring: 1, Angle: 60}}},
		{"no center", []Project{{ID: "x", Ring: 1}}},
		{"two centers", []Project{{ID: "a"}, {ID: "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.projects)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidCatalog) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidCatalog)
			}
		})
	}
}

func TestEmptyCatalog(t *testing.T) {
	c, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil): %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d", c.Len())
	}
	if _, ok := c.Center(); ok {
		t.Error("empty catalog should have no center")
	}
	if len(c.Outer()) != 0 {
		t.Error("empty catalog should have no outer projects")
	}
}

func TestRank(t *testing.T) {
	c := Default()

	if r := c.Rank("me"); r != -1 {
		t.Errorf("Rank(me) = %d, want -1", r)
	}
	if r := c.Rank("p1"); r != 0 {
		t.Errorf("Rank(p1) = %d, want 0", r)
	}
	if r := c.Rank("p6"); r != 5 {
		t.Errorf("Rank(p6) = %d, want 5", r)
	}
	if r := c.Rank("nope"); r != -1 {
		t.Errorf("Rank(nope) = %d, want -1", r)
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() != 7 {
		t.Fatalf("Len = %d, want 7", c.Len())
	}
	center, ok := c.Center()
	if !ok || center.ID != "me" {
		t.Errorf("Center = %v, %v", center.ID, ok)
	}
	if n := len(c.Outer()); n != 6 {
		t.Errorf("Outer = %d, want 6", n)
	}
	p, ok := c.Get("p2")
	if !ok || p.Title != "Undead zone" {
		t.Errorf("Get(p2) = %+v, %v", p, ok)
	}
}

func TestProjectsReturnsCopy(t *testing.T) {
	c := Default()
	ps := c.Projects()
	ps[0].ID = "mutated"
	if got, _ := c.Center(); got.ID != "me" {
		t.Error("Projects should return a copy")
	}
}

func TestTags(t *testing.T) {
	c := Default()
	tags := c.Tags()
	if tags[0] != "profile" {
		t.Errorf("first tag = %s", tags[0])
	}
	seen := map[string]int{}
	for _, tag := range tags {
		seen[tag]++
	}
	if seen["Game"] != 1 || seen["Pro"] != 1 {
		t.Errorf("tags not deduplicated: %v", tags)
	}
}
