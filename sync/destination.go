package sync

import (
	"context"
	"io"
	"time"
)

// ObjectMeta holds metadata about a stored object.
type ObjectMeta struct {
	Key          string // relative to the destination prefix
	Size         int64
	ETag         string // store fingerprint with quoting removed
	LastModified time.Time
}

// Destination is a write target for synced files.
type Destination interface {
	// Put uploads content to the destination at the given relative key,
	// replacing whatever is stored there.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Stat returns metadata for an existing object. An absent object is
	// reported as an error matching ErrNotFound.
	Stat(ctx context.Context, key string) (*ObjectMeta, error)
	// List returns metadata for every object held by the destination.
	List(ctx context.Context) ([]ObjectMeta, error)
}

// Source yields named files that can be staged locally.
type Source interface {
	// List enumerates the names this source can fetch.
	List(ctx context.Context) ([]string, error)
	// Fetch materialises name into the local file dst.
	Fetch(ctx context.Context, name, dst string) error
}
