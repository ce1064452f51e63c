package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/libretto/libretto/internal/model"
)

const (
	// libraryKeyPrefix is the Redis key prefix for cached libraries.
	libraryKeyPrefix = "library:"
	// libraryCacheTTL is the time-to-live for cached library aggregates.
	libraryCacheTTL = 5 * time.Minute
)

// ErrCacheMiss indicates the key is not present in the cache.
var ErrCacheMiss = errors.New("cache miss")

// GetLibrary retrieves a cached library aggregate (library plus books).
// Returns ErrCacheMiss if not found. A corrupted entry is treated as a
// miss after eviction.
func (c *Cache) GetLibrary(ctx context.Context, id int64) (*model.Library, error) {
	key := libraryKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, ErrCacheMiss
	}

	var library model.Library
	if err := json.Unmarshal(data, &library); err != nil {
		c.client.Del(ctx, key)
		return nil, ErrCacheMiss
	}

	return &library, nil
}

// SetLibrary caches a library aggregate with a short TTL.
func (c *Cache) SetLibrary(ctx context.Context, library *model.Library) error {
	data, err := json.Marshal(library)
	if err != nil {
		return fmt.Errorf("marshal library: %w", err)
	}

	return c.client.Set(ctx, libraryKey(library.ID), data, libraryCacheTTL).Err()
}

// InvalidateLibrary removes a cached library.
// Called after any membership mutation so readers never see stale books.
func (c *Cache) InvalidateLibrary(ctx context.Context, id int64) error {
	return c.client.Del(ctx, libraryKey(id)).Err()
}

func libraryKey(id int64) string {
	return libraryKeyPrefix + strconv.FormatInt(id, 10)
}
