// Package page renders the HTML documents served to visitors: the
// honeycomb home page and the project detail page.
//
// Templates, styles and the client script are embedded in the binary. The
// honeycomb page is fully rendered on the server from a [render.Scene], so
// it is readable without JavaScript; with scripting enabled the page opens
// a session against the HTTP API and replays visitor events there.
package page

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/styloxis/honeycomb/pkg/card"
	"github.com/styloxis/honeycomb/pkg/detail"
	"github.com/styloxis/honeycomb/pkg/render"
)

//go:embed templates
var files embed.FS

// Honeycomb is the data for the home page.
type Honeycomb struct {
	Title string
	Scene render.Scene
	// SessionID binds the page to an existing session. When empty the
	// client script creates one.
	SessionID string
	// APIBase is the prefix of the session API, "/api" by default.
	APIBase string
	// Interactive includes the client script.
	Interactive bool
}

// Renderer executes the embedded templates.
type Renderer struct {
	honeycomb *template.Template
	detail    *template.Template
	css       template.CSS
	js        template.JS
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	css, err := files.ReadFile("templates/honeycomb.css")
	if err != nil {
		return nil, fmt.Errorf("read styles: %w", err)
	}
	js, err := files.ReadFile("templates/honeycomb.js")
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	r := &Renderer{css: template.CSS(css), js: template.JS(js)}

	funcs := template.FuncMap{
		"classes":        func(cs []string) string { return strings.Join(cs, " ") },
		"containerStyle": containerStyle,
		"cardStyle":      cardStyle,
		"styleOf":        func(s card.Style) template.CSS { return styleCSS(s, 0) },
		"css":            func() template.CSS { return r.css },
	}
	if r.honeycomb, err = template.New("honeycomb.html.tmpl").Funcs(funcs).ParseFS(files, "templates/honeycomb.html.tmpl"); err != nil {
		return nil, fmt.Errorf("parse honeycomb template: %w", err)
	}
	if r.detail, err = template.New("detail.html.tmpl").Funcs(funcs).ParseFS(files, "templates/detail.html.tmpl"); err != nil {
		return nil, fmt.Errorf("parse detail template: %w", err)
	}
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// RenderHoneycomb writes the home page.
func (r *Renderer) RenderHoneycomb(w io.Writer, h Honeycomb) error {
	if h.APIBase == "" {
		h.APIBase = "/api"
	}
	data := struct {
		Honeycomb
		CSS template.CSS
		JS  template.JS
	}{h, r.css, r.js}
	return r.honeycomb.Execute(w, data)
}

// RenderDetail writes a detail page, including its error states.
func (r *Renderer) RenderDetail(w io.Writer, p detail.Page) error {
	return r.detail.Execute(w, p)
}

func containerStyle(s render.Scene) template.CSS {
	var b strings.Builder
	fmt.Fprintf(&b, "height:%spx;", num(s.Container.Height))
	if s.Container.Scroll {
		b.WriteString("overflow-y:auto;")
	} else {
		b.WriteString("overflow-y:hidden;")
	}
	if s.Container.Transform != "" {
		fmt.Fprintf(&b, "transform:%s;", s.Container.Transform)
	}
	return template.CSS(b.String())
}

func cardStyle(c card.Snapshot, s render.Scene) template.CSS {
	delay := 0
	if c.Style.Transition != "" {
		delay = s.Delays[c.ID]
	}
	return styleCSS(c.Style, delay)
}

func styleCSS(st card.Style, delayMs int) template.CSS {
	var b strings.Builder
	fmt.Fprintf(&b, "left:%spx;top:%spx;width:%spx;height:%spx;", num(st.X), num(st.Y), num(st.Size), num(st.Size))
	fmt.Fprintf(&b, "transform:%s;opacity:%s;", st.Transform, num(st.Opacity))
	if st.Transition != "" {
		fmt.Fprintf(&b, "transition:%s;", st.Transition)
		if delayMs > 0 {
			fmt.Fprintf(&b, "transition-delay:%dms;", delayMs)
		}
	}
	return template.CSS(b.String())
}

// num formats v with at most three decimals and no negative zero.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
