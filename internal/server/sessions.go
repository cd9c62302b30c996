package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/styloxis/honeycomb/pkg/card"
	"github.com/styloxis/honeycomb/pkg/errors"
	"github.com/styloxis/honeycomb/pkg/interact"
	"github.com/styloxis/honeycomb/pkg/layout"
	"github.com/styloxis/honeycomb/pkg/render"
	"github.com/styloxis/honeycomb/pkg/session"
)

// sessionResponse is what the client script applies after every call.
type sessionResponse struct {
	ID        string             `json:"id"`
	State     interact.State     `json:"state"`
	Board     card.BoardSnapshot `json:"board"`
	Plan      *layout.Plan       `json:"plan,omitempty"`
	Scene     *render.Scene      `json:"scene,omitempty"`
	Result    *interact.Result   `json:"result,omitempty"`
	Events    int                `json:"events"`
	ExpiresAt time.Time          `json:"expiresAt"`
}

func newSessionResponse(sess *session.Session, snap interact.Snapshot) sessionResponse {
	resp := sessionResponse{
		ID:        sess.ID,
		State:     snap.State,
		Board:     snap.Board,
		Plan:      snap.Plan,
		Events:    sess.Events,
		ExpiresAt: sess.ExpiresAt,
	}
	if snap.Plan != nil {
		scene := render.NewScene(*snap.Plan, snap.Board)
		resp.Scene = &scene
	}
	return resp
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	v := s.opts.Viewport
	if err := decodeBody(w, r, &v); err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidViewport, err, "invalid viewport body"))
		return
	}
	sess, snap, err := s.runtime.Create(r.Context(), v)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSessionResponse(sess, snap))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, snap, err := s.runtime.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess, snap))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.runtime.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev interact.Event
	if err := decodeBody(w, r, &ev); err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidEvent, err, "invalid event body"))
		return
	}
	sess, snap, res, err := s.runtime.Handle(r.Context(), chi.URLParam(r, "id"), ev)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := newSessionResponse(sess, snap)
	resp.Result = &res
	writeJSON(w, http.StatusOK, resp)
}
