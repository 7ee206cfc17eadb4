package sync

import (
	"context"
	"errors"
)

// Unchanged reports whether dst already holds key with the fingerprint sum.
// A missing object is not an error: it simply needs uploading. Any other
// store failure is returned.
func Unchanged(ctx context.Context, dst Destination, key, sum string) (bool, error) {
	meta, err := dst.Stat(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storeError("stat", key, err)
	}
	return normalizeETag(meta.ETag) == sum, nil
}
