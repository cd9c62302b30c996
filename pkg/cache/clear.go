package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Clearer is implemented by backends that can drop entries in bulk.
type Clearer interface {
	// Clear removes every entry of kind, or all entries when kind is "",
	// and returns how many were removed.
	Clear(ctx context.Context, kind string) (int, error)
}

// Clear empties c through its Clearer implementation. Wrapped caches are
// unwrapped first.
func Clear(ctx context.Context, c Cache, kind string) (int, error) {
	if in, ok := c.(*instrumented); ok {
		c = in.Cache
	}
	cl, ok := c.(Clearer)
	if !ok {
		return 0, fmt.Errorf("cache %T cannot be cleared", c)
	}
	return cl.Clear(ctx, kind)
}

func (Null) Clear(context.Context, string) (int, error) { return 0, nil }

// KindUsage is the file count and size of one key kind.
type KindUsage struct {
	Kind    string
	Entries int
	Bytes   int64
}

// Clear removes the kind directories below the cache root.
func (c *FileCache) Clear(ctx context.Context, kind string) (int, error) {
	kinds, err := c.kinds(kind)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, k := range kinds {
		root := filepath.Join(c.dir, k)
		if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if !d.IsDir() && !strings.HasPrefix(d.Name(), ".tmp-") {
				removed++
			}
			return nil
		})
		if err != nil {
			return removed, err
		}
		if err := os.RemoveAll(root); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// Usage reports entries and bytes per kind, sorted by kind.
func (c *FileCache) Usage(ctx context.Context) ([]KindUsage, error) {
	kinds, err := c.kinds("")
	if err != nil {
		return nil, err
	}
	out := make([]KindUsage, 0, len(kinds))
	for _, k := range kinds {
		u := KindUsage{Kind: k}
		err := filepath.WalkDir(filepath.Join(c.dir, k), func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			u.Entries++
			u.Bytes += info.Size()
			return nil
		})
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// kinds lists the kind directories, or just kind when it is set.
func (c *FileCache) kinds(kind string) ([]string, error) {
	if kind != "" {
		if strings.ContainsAny(kind, `/\.`) {
			return nil, fmt.Errorf("invalid cache kind %q", kind)
		}
		return []string{kind}, nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, err
	}
	var kinds []string
	for _, e := range entries {
		if e.IsDir() {
			kinds = append(kinds, e.Name())
		}
	}
	slices.Sort(kinds)
	return kinds, nil
}

// redisScanBatch is the SCAN COUNT hint and the DEL batch size.
const redisScanBatch = 256

// Clear deletes the prefixed keys of kind with SCAN and DEL, so it never
// blocks the server the way KEYS would.
func (c *RedisCache) Clear(ctx context.Context, kind string) (int, error) {
	pattern := c.prefix + "*"
	if kind != "" {
		pattern = c.prefix + kind + ":*"
	}
	removed := 0
	iter := c.client.Scan(ctx, 0, pattern, redisScanBatch).Iterator()
	batch := make([]string, 0, redisScanBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.client.Del(ctx, batch...).Result()
		removed += int(n)
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == redisScanBatch {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	return removed, flush()
}

var (
	_ Clearer = Null{}
	_ Clearer = (*FileCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
