// Package detail builds the view model of a project detail page.
//
// [Build] never fails: every problem (no id, unknown id, a document
// without page data) becomes a [Page] in an error state with a message
// and a link back home. Paragraphs may contain HTML; they are sanitized
// before they reach a template.
package detail

import (
	"context"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"

	"github.com/styloxis/honeycomb/pkg/card"
	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/errors"
)

// Status is the outcome of building a page.
type Status string

const (
	StatusOK          Status = "ok"
	StatusMissingID   Status = "missing_id"
	StatusNotFound    Status = "not_found"
	StatusUnavailable Status = "unavailable"
	StatusInvalidID   Status = "invalid_id"
)

// Messages shown in error states.
const (
	MsgMissingID   = "No project ID specified."
	MsgUnavailable = "Project details not available."
)

// HomeURL is the "Back to Home" target.
const HomeURL = "./index.html"

// SiteName is appended to page titles.
const SiteName = "Styloxis"

// sectionSize is how many paragraphs and images a page shows. A document
// with fewer hides the section.
const sectionSize = 2

// Image is one screenshot slot.
type Image struct {
	URL         string `json:"url"`
	Alt         string `json:"alt"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Link is the optional call-to-action.
type Link struct {
	URL      string `json:"url"`
	Text     string `json:"text"`
	External bool   `json:"external"`
}

// Target returns the anchor target attribute value.
func (l Link) Target() string {
	if l.External {
		return "_blank"
	}
	return ""
}

// Rel returns the anchor rel attribute value.
func (l Link) Rel() string {
	if l.External {
		return "noopener noreferrer"
	}
	return ""
}

// Page is the detail page view model.
type Page struct {
	Status   Status `json:"status"`
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	DocTitle string `json:"docTitle"`
	Error    string `json:"error,omitempty"`
	HomeURL  string `json:"homeUrl"`

	Paragraphs []template.HTML `json:"paragraphs,omitempty"`
	Images     []Image         `json:"images,omitempty"`
	Link       *Link           `json:"link,omitempty"`
}

// OK reports whether the page renders project content.
func (p Page) OK() bool { return p.Status == StatusOK }

// ShowParagraphs reports whether the paragraph section is visible.
func (p Page) ShowParagraphs() bool { return len(p.Paragraphs) >= sectionSize }

// ShowImages reports whether the image section is visible.
func (p Page) ShowImages() bool { return len(p.Images) >= sectionSize }

// Builder turns detail documents into pages.
type Builder struct {
	store  catalog.DetailStore
	origin string
	policy *bluemonday.Policy
}

// Option configures a Builder.
type Option func(*Builder)

// WithOrigin sets the site origin used to classify the custom link.
func WithOrigin(origin string) Option {
	return func(b *Builder) { b.origin = origin }
}

// WithPolicy replaces the paragraph sanitization policy.
func WithPolicy(p *bluemonday.Policy) Option {
	return func(b *Builder) { b.policy = p }
}

// NewBuilder returns a Builder reading from store.
func NewBuilder(store catalog.DetailStore, opts ...Option) *Builder {
	b := &Builder{store: store, policy: bluemonday.UGCPolicy()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the page for id.
func (b *Builder) Build(ctx context.Context, id string) Page {
	d, err := b.store.Detail(ctx, id)
	if err != nil {
		return errorPage(id, err)
	}
	return b.FromDetail(id, d)
}

// FromDetail returns the page for an already loaded document.
func (b *Builder) FromDetail(id string, d *catalog.Detail) Page {
	p := Page{
		Status:   StatusOK,
		ID:       id,
		Title:    d.Title,
		DocTitle: fmt.Sprintf("%s - %s", d.Title, SiteName),
		HomeURL:  HomeURL,
	}
	if d.PageData == nil {
		p.Status = StatusUnavailable
		p.Error = MsgUnavailable
		return p
	}
	data := d.PageData

	if len(data.Paragraphs) >= sectionSize {
		for _, para := range data.Paragraphs[:sectionSize] {
			p.Paragraphs = append(p.Paragraphs, template.HTML(b.policy.Sanitize(para)))
		}
	}
	if len(data.Images) >= sectionSize {
		for i, img := range data.Images[:sectionSize] {
			p.Images = append(p.Images, Image{
				URL:         img.URL,
				Alt:         fmt.Sprintf("%s screenshot %d", d.Title, i+1),
				Placeholder: img.PlaceholderText,
			})
		}
	}
	if cl := data.CustomLink; cl != nil && cl.URL != "" && cl.Text != "" {
		link, _ := card.ClassifyLink(cl.URL, b.origin)
		p.Link = &Link{URL: cl.URL, Text: cl.Text, External: link.External}
	}
	return p
}

func errorPage(id string, err error) Page {
	p := Page{ID: id, Title: "Error", DocTitle: "Error - " + SiteName, HomeURL: HomeURL}
	switch {
	case errors.Is(err, errors.ErrCodeMissingID):
		p.Status, p.Error = StatusMissingID, MsgMissingID
	case errors.Is(err, errors.ErrCodeInvalidID):
		p.Status, p.Error = StatusInvalidID, fmt.Sprintf("Project %q not found.", id)
	default:
		p.Status, p.Error = StatusNotFound, fmt.Sprintf("Project %q not found.", id)
	}
	return p
}

// Err returns the page's error state as a structured error, or nil for an
// OK page.
func (p Page) Err() error {
	switch p.Status {
	case StatusOK:
		return nil
	case StatusMissingID:
		return errors.New(errors.ErrCodeMissingID, "%s", p.Error)
	case StatusUnavailable:
		return errors.New(errors.ErrCodeDetailUnavailable, "%s", p.Error)
	case StatusInvalidID:
		return errors.New(errors.ErrCodeInvalidID, "%s", p.Error)
	default:
		return errors.New(errors.ErrCodeProjectNotFound, "%s", p.Error)
	}
}
