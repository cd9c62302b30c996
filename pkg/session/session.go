// Package session stores visitor interaction sessions.
//
// A session is the serializable interaction state of one visitor's
// honeycomb (expanded flag, viewport, flipped card, pressed cards, parallax
// transform). Sessions expire after a TTL and are kept by one of several
// backends:
//   - memory: in-process storage for development and tests
//   - file: JSON files, for a single long-running server
//   - redis: shared storage for multi-instance deployments
//
// # Usage
//
//	store, err := session.Open(ctx, session.Options{Backend: "memory"})
//	rt := session.NewRuntime(provider, store)
//	sess, snap, err := rt.Create(ctx, layout.Viewport{Width: 400, Height: 800})
//	snap, res, err := rt.Handle(ctx, sess.ID, interact.Event{Kind: interact.Expand})
//
// The [Runtime] rebuilds a controller from the stored state for every
// event, so any instance can serve any session.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/styloxis/honeycomb/pkg/interact"
	"github.com/styloxis/honeycomb/pkg/layout"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// DefaultTTL is the default session lifetime. Every stored event extends it.
const DefaultTTL = 30 * time.Minute

// Session is one visitor's interaction state.
type Session struct {
	ID        string         `json:"id"`
	State     interact.State `json:"state"`
	Events    int            `json:"events"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch records an update and extends the expiry by ttl.
func (s *Session) Touch(ttl time.Duration) {
	now := time.Now()
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session until its ExpiresAt.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// GenerateID returns a new random session ID.
func GenerateID() string { return uuid.NewString() }

// New creates a session for a viewport.
func New(v layout.Viewport, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        GenerateID(),
		State:     interact.State{Viewport: v},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}
