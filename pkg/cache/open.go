package cache

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown cache backend")

// Options selects and configures a cache backend.
type Options struct {
	Backend  string // "file", "redis" or "none"
	Dir      string // file backend directory
	RedisURL string // redis backend URL
	Prefix   string // redis key prefix
}

// Open returns the backend named by opts, wrapped with [Instrumented].
func Open(ctx context.Context, opts Options) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch opts.Backend {
	case "", "file":
		c, err = NewFileCache(opts.Dir)
	case "redis":
		prefix := opts.Prefix
		if prefix == "" {
			prefix = "honeycomb:"
		}
		c, err = NewRedisCache(ctx, opts.RedisURL, prefix)
	case "none", "null":
		c = NewNullCache()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrumented(c), nil
}
