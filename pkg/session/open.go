package session

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Options selects and configures a session backend.
type Options struct {
	Backend  string
	Dir      string
	RedisURL string
	Prefix   string
}

// Open returns the store named by opts.Backend. An empty backend means
// memory.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(opts.Dir)
	case BackendRedis:
		prefix := opts.Prefix
		if prefix == "" {
			prefix = "honeycomb:"
		}
		return NewRedisStore(ctx, opts.RedisURL, prefix)
	default:
		return nil, fmt.Errorf("unknown session backend %q", opts.Backend)
	}
}
