package catalog

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/styloxis/honeycomb/pkg/errors"
)

// filterEnv is the variable set visible to filter expressions.
type filterEnv struct {
	ID          string   `expr:"id"`
	Ring        int      `expr:"ring"`
	Angle       float64  `expr:"angle"`
	Title       string   `expr:"title"`
	Description string   `expr:"description"`
	Tags        []string `expr:"tags"`
	URL         string   `expr:"url"`
	Center      bool     `expr:"center"`
}

func envFor(p Project) filterEnv {
	return filterEnv{
		ID:          p.ID,
		Ring:        p.Ring,
		Angle:       p.Angle,
		Title:       p.Title,
		Description: p.Description,
		Tags:        p.Tags,
		URL:         p.URL,
		Center:      p.IsCenter(),
	}
}

// Filter is a compiled boolean expression over project fields, for example
//
//	ring == 1 && "Game" in tags
//	url != "" || center
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles expression. An empty expression matches everything.
func CompileFilter(expression string) (*Filter, error) {
	f := &Filter{source: expression}
	if expression == "" {
		return f, nil
	}
	program, err := expr.Compile(expression, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid filter %q", expression)
	}
	f.program = program
	return f, nil
}

// String returns the source expression.
func (f *Filter) String() string { return f.source }

// Match reports whether p satisfies the filter.
func (f *Filter) Match(p Project) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, envFor(p))
	if err != nil {
		return false, fmt.Errorf("filter %s on %s: %w", f.source, p.ID, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Apply returns the projects of c that match f, in display order.
func (f *Filter) Apply(c *Catalog) ([]Project, error) {
	var out []Project
	for _, p := range c.projects {
		ok, err := f.Match(p)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}
