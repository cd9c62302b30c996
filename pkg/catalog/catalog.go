package catalog

import (
	"cmp"
	"slices"

	"github.com/styloxis/honeycomb/pkg/errors"
)

// Catalog is an ordered, validated, read-only set of projects.
//
// Projects are kept sorted by ring then angle (stable), which is the order
// cards are created in and therefore the order outer ranks are assigned.
// A Catalog is safe for concurrent reads.
type Catalog struct {
	projects []Project
	byID     map[string]int
	center   int
}

// Empty returns a catalog with no projects.
func Empty() *Catalog {
	return &Catalog{byID: map[string]int{}, center: -1}
}

// New validates projects and returns them as a Catalog.
//
// A non-empty catalog must hold exactly one center project (ring 0) and no
// duplicate ids. The input slice is copied.
func New(projects []Project) (*Catalog, error) {
	c := &Catalog{
		projects: slices.Clone(projects),
		byID:     make(map[string]int, len(projects)),
		center:   -1,
	}

	slices.SortStableFunc(c.projects, func(a, b Project) int {
		if n := cmp.Compare(a.Ring, b.Ring); n != 0 {
			return n
		}
		return cmp.Compare(a.Angle, b.Angle)
	})

	centers := 0
	for i, p := range c.projects {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidCatalog, "duplicate project id %q", p.ID)
		}
		c.byID[p.ID] = i
		if p.IsCenter() {
			centers++
			c.center = i
		}
	}

	if len(c.projects) > 0 && centers != 1 {
		return nil, errors.New(errors.ErrCodeInvalidCatalog, "catalog needs exactly one center project, found %d", centers)
	}
	return c, nil
}

// MustNew is like New but panics on invalid input. Intended for literals.
func MustNew(projects []Project) *Catalog {
	c, err := New(projects)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of projects.
func (c *Catalog) Len() int { return len(c.projects) }

// Projects returns the projects in display order. The slice is a copy.
func (c *Catalog) Projects() []Project { return slices.Clone(c.projects) }

// Get returns the project with the given id.
func (c *Catalog) Get(id string) (Project, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Project{}, false
	}
	return c.projects[i], true
}

// Center returns the center project, if any.
func (c *Catalog) Center() (Project, bool) {
	if c.center < 0 {
		return Project{}, false
	}
	return c.projects[c.center], true
}

// Outer returns the non-center projects in rank order.
func (c *Catalog) Outer() []Project {
	out := make([]Project, 0, len(c.projects))
	for _, p := range c.projects {
		if !p.IsCenter() {
			out = append(out, p)
		}
	}
	return out
}

// Rank returns the 0-based position of id among non-center projects, or -1
// for the center and for unknown ids.
func (c *Catalog) Rank(id string) int {
	rank := 0
	for _, p := range c.projects {
		if p.IsCenter() {
			continue
		}
		if p.ID == id {
			return rank
		}
		rank++
	}
	return -1
}

// Tags returns every distinct tag in first-seen order.
func (c *Catalog) Tags() []string {
	seen := map[string]bool{}
	var tags []string
	for _, p := range c.projects {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags
}
