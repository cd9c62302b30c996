package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/styloxis/honeycomb/pkg/errors"
	"github.com/styloxis/honeycomb/pkg/httputil"
)

// Source produces project records.
type Source interface {
	// Load returns the raw records. Implementations must honor ctx.
	Load(ctx context.Context) ([]Project, error)
	// Name describes the source for logs.
	Name() string
}

// Inline is a Source backed by a literal slice.
type Inline []Project

func (s Inline) Load(context.Context) ([]Project, error) { return []Project(s), nil }
func (s Inline) Name() string                            { return "inline" }

// File reads records from a JSON or YAML file. The format is chosen by
// extension (.yaml/.yml for YAML, anything else for JSON).
type File struct {
	Path string
}

func (s File) Name() string { return "file:" + s.Path }

func (s File) Load(ctx context.Context) ([]Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s", s.Path)
		}
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f, formatFor(s.Path))
}

// Format is a catalog serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode reads records in the given format. Both a bare list and an object
// with a "projects" key are accepted.
func Decode(r io.Reader, format Format) ([]Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var wrapped struct {
		Projects []Project `json:"projects" yaml:"projects"`
	}
	var list []Project

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &list); err == nil {
			return list, nil
		}
		if err := yaml.Unmarshal(data, &wrapped); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode yaml catalog")
		}
	default:
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(trimmed, "[") {
			if err := json.Unmarshal(data, &list); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode json catalog")
			}
			return list, nil
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode json catalog")
		}
	}
	return wrapped.Projects, nil
}

// Remote fetches a JSON catalog over HTTP(S).
//
// Transient failures are retried with backoff. When Fallback is set, every
// successful payload is stored there and served again if a later fetch
// fails.
type Remote struct {
	URL      string
	Client   *http.Client
	Fallback *httputil.LastGood
	Logger   *log.Logger
}

func (s Remote) Name() string { return "remote:" + s.URL }

func (s Remote) Load(ctx context.Context) ([]Project, error) {
	if err := errors.ValidateURL(s.URL); err != nil {
		return nil, err
	}

	var list []Project
	err := httputil.FetchJSON(ctx, s.Client, s.URL, &list)
	if err == nil {
		if s.Fallback != nil {
			_ = s.Fallback.Save(s.URL, list)
		}
		return list, nil
	}
	if s.Fallback == nil {
		return nil, err
	}

	var stale []Project
	savedAt, ok, ferr := s.Fallback.Load(s.URL, &stale)
	if !ok || ferr != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Warn("serving last good catalog", "url", s.URL, "saved", savedAt, "err", err)
	}
	return stale, nil
}

// SourceFor picks a Source for a location string: "" → Inline defaults,
// http(s) URL → Remote, "mongodb://" is rejected (use NewMongo), anything
// else → File.
func SourceFor(location string, fallback *httputil.LastGood) Source {
	switch {
	case location == "":
		return Inline(DefaultProjects)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return Remote{URL: location, Fallback: fallback}
	default:
		return File{Path: location}
	}
}

// Load builds a Catalog from src. Any failure (unreachable source, decode
// error, invalid records) is logged and degrades to an empty catalog so the
// site keeps rendering.
func Load(ctx context.Context, src Source, logger *log.Logger) *Catalog {
	c, err := LoadStrict(ctx, src)
	if err != nil {
		if logger != nil {
			logger.Warn("catalog unavailable, serving empty honeycomb", "source", src.Name(), "err", err)
		}
		return Empty()
	}
	if logger != nil {
		logger.Debug("catalog loaded", "source", src.Name(), "projects", c.Len())
	}
	return c
}

// LoadStrict is like Load but returns the error instead of degrading.
func LoadStrict(ctx context.Context, src Source) (*Catalog, error) {
	projects, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	return New(projects)
}
