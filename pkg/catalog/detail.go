package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/styloxis/honeycomb/pkg/errors"
	"github.com/styloxis/honeycomb/pkg/httputil"
)

// Detail is the per-project document behind the detail page.
type Detail struct {
	Title    string    `json:"titre"`
	PageData *PageData `json:"pageData,omitempty"`
}

// PageData holds the optional sections of a detail page.
type PageData struct {
	Paragraphs []string    `json:"paragraphs,omitempty"` // HTML permitted
	Images     []Image     `json:"images,omitempty"`
	CustomLink *CustomLink `json:"customLink,omitempty"`
}

// Image is a screenshot reference. In JSON it is either a bare URL string
// or an object {url, placeholderText?}.
type Image struct {
	URL             string `json:"url"`
	PlaceholderText string `json:"placeholderText,omitempty"`
}

// UnmarshalJSON accepts a string or an object.
func (img *Image) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return err
		}
		*img = Image{URL: url}
		return nil
	}
	type plain Image
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	*img = Image(p)
	return nil
}

// CustomLink is an optional call-to-action on the detail page.
type CustomLink struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// DetailStore resolves detail documents by project id.
type DetailStore interface {
	Detail(ctx context.Context, id string) (*Detail, error)
}

// DirStore reads <Dir>/<id>.json.
type DirStore struct {
	Dir string
}

// Detail loads the document for id. Unreadable or malformed files are
// reported as PROJECT_NOT_FOUND, matching what a visitor sees.
func (s DirStore) Detail(ctx context.Context, id string) (*Detail, error) {
	if err := errors.ValidateProjectID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProjectNotFound, err, "Project %q not found.", id)
	}
	var d Detail
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeProjectNotFound, err, "Project %q not found.", id)
	}
	return &d, nil
}

// Path returns the file backing id.
func (s DirStore) Path(id string) string {
	return filepath.Join(s.Dir, id+".json")
}

// RemoteStore fetches <BaseURL>/<id>.json.
type RemoteStore struct {
	BaseURL string
	Client  *http.Client
}

func (s RemoteStore) Detail(ctx context.Context, id string) (*Detail, error) {
	if err := errors.ValidateProjectID(id); err != nil {
		return nil, err
	}
	url := strings.TrimSuffix(s.BaseURL, "/") + "/" + id + ".json"
	var d Detail
	if err := httputil.FetchJSON(ctx, s.Client, url, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeProjectNotFound, err, "Project %q not found.", id)
	}
	return &d, nil
}

// MemoryStore keeps decoded details in memory. It is populated by Preload
// and is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	details map[string]*Detail
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{details: map[string]*Detail{}}
}

func (s *MemoryStore) Detail(_ context.Context, id string) (*Detail, error) {
	if err := errors.ValidateProjectID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.details[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeProjectNotFound, "Project %q not found.", id)
	}
	return d, nil
}

// Put stores d under id.
func (s *MemoryStore) Put(id string, d *Detail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details[id] = d
}

// Len returns the number of stored details.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.details)
}

// preloadConcurrency bounds parallel detail reads.
const preloadConcurrency = 4

// Preload reads the detail of every project in c from src into a
// MemoryStore. Projects without a readable detail are skipped and returned
// in missing; only context cancellation aborts the preload.
func Preload(ctx context.Context, c *Catalog, src DetailStore) (*MemoryStore, []string, error) {
	store := NewMemoryStore()
	var (
		mu      sync.Mutex
		missing []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadConcurrency)
	for _, p := range c.projects {
		id := p.ID
		g.Go(func() error {
			d, err := src.Detail(gctx, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				mu.Lock()
				missing = append(missing, id)
				mu.Unlock()
				return nil
			}
			store.Put(id, d)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return store, missing, nil
}
