package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// LastGood keeps the most recent successful payload per URL on disk, so a
// remote catalog that goes away degrades to its last known content
// instead of an empty honeycomb.
//
// Each entry is a JSON envelope {savedAt, payload} in a file named by the
// SHA-256 of the URL. Entries older than MaxAge are ignored; a zero MaxAge
// keeps them forever.
type LastGood struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
}

type envelope struct {
	SavedAt time.Time       `json:"savedAt"`
	Payload json.RawMessage `json:"payload"`
}

// NewLastGood returns a store rooted at dir, creating it when needed.
func NewLastGood(dir string, maxAge time.Duration) (*LastGood, error) {
	if dir == "" {
		return nil, errors.New("last good store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LastGood{dir: dir, maxAge: maxAge, now: time.Now}, nil
}

// Dir returns the store directory.
func (s *LastGood) Dir() string { return s.dir }

// Save records v as the last good payload of url.
func (s *LastGood) Save(url string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data, err := json.Marshal(envelope{SavedAt: s.now().UTC(), Payload: payload})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(url), data, 0o644)
}

// Load decodes the last good payload of url into v and returns when it
// was saved. ok is false when there is none or it is older than MaxAge.
func (s *LastGood) Load(url string, v any) (savedAt time.Time, ok bool, err error) {
	data, err := os.ReadFile(s.path(url))
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return time.Time{}, false, err
	}
	if s.maxAge > 0 && s.now().Sub(env.SavedAt) > s.maxAge {
		return env.SavedAt, false, nil
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return time.Time{}, false, err
	}
	return env.SavedAt, true, nil
}

func (s *LastGood) path(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}
