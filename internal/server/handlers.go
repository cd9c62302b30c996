package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/styloxis/honeycomb/pkg/buildinfo"
	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/errors"
	"github.com/styloxis/honeycomb/pkg/layout"
	"github.com/styloxis/honeycomb/pkg/observability"
	"github.com/styloxis/honeycomb/pkg/pipeline"
	"github.com/styloxis/honeycomb/pkg/render"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:     "image/svg+xml",
	pipeline.FormatPNG:     "image/png",
	pipeline.FormatJSON:    "application/json; charset=utf-8",
	pipeline.FormatDOT:     "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatHTML:    "text/html; charset=utf-8",
	pipeline.FormatRingMap: "image/svg+xml",
}

type health struct {
	Status   string         `json:"status"`
	Build    buildinfo.Info `json:"build"`
	Projects int            `json:"projects"`

	Stats *observability.StatsSnapshot `json:"stats,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := health{
		Status:   "ok",
		Build:    buildinfo.Get(),
		Projects: s.live.Catalog().Len(),
	}
	if s.opts.Stats != nil {
		snap := s.opts.Stats.Snapshot()
		h.Stats = &snap
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	opts, err := s.pipelineOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatHTML}
	opts.Interactive = r.URL.Query().Get("static") == ""

	res, err := s.runner.ExecuteCatalog(r.Context(), s.live.Catalog(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeBytes(w, contentTypes[pipeline.FormatHTML], res.Artifacts[pipeline.FormatHTML])
}

func (s *Server) handleDetailPage(w http.ResponseWriter, r *http.Request) {
	p := s.builder.Build(r.Context(), r.URL.Query().Get("id"))
	status := http.StatusOK
	if err := p.Err(); err != nil {
		status = errors.HTTPStatus(err)
	}
	var buf bytes.Buffer
	if err := s.pages.RenderDetail(&buf, p); err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render detail"))
		return
	}
	w.Header().Set("Content-Type", contentTypes[pipeline.FormatHTML])
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	projects := s.live.Catalog().Projects()
	if projects == nil {
		projects = []catalog.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleDetailJSON(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	id, ok := strings.CutSuffix(file, ".json")
	if !ok {
		writeError(w, r, notFound(r.URL.Path))
		return
	}
	d, err := s.details.Detail(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type layoutResponse struct {
	Plan  layout.Plan  `json:"plan"`
	Scene render.Scene `json:"scene"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.pipelineOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}
	res, err := s.runner.ExecuteCatalog(r.Context(), s.live.Catalog(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Plan: res.Plan, Scene: res.Scene})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, r, err)
		return
	}
	opts, err := s.pipelineOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || !(scale > 0 && scale <= pipeline.MaxScale) {
			writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v))
			return
		}
		opts.Scale = scale
	}

	res, err := s.runner.ExecuteCatalog(r.Context(), s.live.Catalog(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeBytes(w, contentTypes[format], res.Artifacts[format])
}

// pipelineOptions reads w, h, expanded and filter from the query.
func (s *Server) pipelineOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Width:  s.opts.Viewport.Width,
		Height: s.opts.Viewport.Height,
		Filter: q.Get("filter"),
		Origin: s.opts.Origin,
		Title:  s.opts.Title,
		Logger: s.logger,
	}
	if v := q.Get("w"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidViewport, "invalid width %q", v)
		}
		opts.Width = n
	}
	if v := q.Get("h"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidViewport, "invalid height %q", v)
		}
		opts.Height = n
	}
	if v := q.Get("expanded"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid expanded %q", v)
		}
		opts.Expanded = b
	}
	if err := opts.Viewport().Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
