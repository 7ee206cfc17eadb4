package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// Options configures a sync run.
type Options struct {
	Sources []Source    // processed in order
	Dst     Destination // destination
	WorkDir string      // staging directory, created if missing
	DryRun  bool        // if true, log uploads without making them
	Cleanup bool        // if true, remove staged files once handled
}

// Result lists the keys a completed run touched.
type Result struct {
	Uploaded []string // uploaded, or due for upload in a dry run
	Skipped  []string // already identical at the destination
}

var errBadName = errors.New("not a plain file name")

// Run stages every item of every source in opts.WorkDir, fingerprints it and
// uploads it to opts.Dst unless an identical object is already stored.
// The first failure aborts the run.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Dst == nil {
		return nil, errors.New("sync: no destination")
	}
	if opts.WorkDir == "" {
		opts.WorkDir = "tmp"
	}
	if err := os.MkdirAll(opts.WorkDir, 0755); err != nil {
		return nil, fsError("mkdir", opts.WorkDir, err)
	}

	res := &Result{}
	for _, src := range opts.Sources {
		names, err := src.List(ctx)
		if err != nil {
			return nil, fetchError("list", "", err)
		}
		for _, name := range names {
			if err := syncItem(ctx, opts, src, name, res); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func syncItem(ctx context.Context, opts Options, src Source, name string, res *Result) error {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return &Error{Op: "fetch", Key: name, Kind: ErrFetch, Err: errBadName}
	}
	local := filepath.Join(opts.WorkDir, name)

	if err := src.Fetch(ctx, name, local); err != nil {
		return fetchError("fetch", name, err)
	}
	if opts.Cleanup {
		defer os.Remove(local)
	}

	sum, err := Fingerprint(local)
	if err != nil {
		return fsError("fingerprint", name, err)
	}

	same, err := Unchanged(ctx, opts.Dst, name, sum)
	if err != nil {
		return err
	}
	if same {
		slog.Debug("sync", "op", "skip", "key", name, "md5", sum)
		res.Skipped = append(res.Skipped, name)
		return nil
	}

	if opts.DryRun {
		slog.Info("sync", "op", "upload", "key", name, "md5", sum, "dry_run", true)
		res.Uploaded = append(res.Uploaded, name)
		return nil
	}

	if err := upload(ctx, opts.Dst, name, local); err != nil {
		return err
	}
	res.Uploaded = append(res.Uploaded, name)
	return nil
}

func upload(ctx context.Context, dst Destination, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fsError("open", key, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fsError("stat", key, err)
	}

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(path); err == nil {
		contentType = mt.String()
	}

	slog.Info("sync", "op", "upload", "key", key, "size", humanize.Bytes(uint64(info.Size())), "type", contentType)
	if err := dst.Put(ctx, key, f, info.Size(), contentType); err != nil {
		return storeError("put", key, fmt.Errorf("upload %s: %w", path, err))
	}
	return nil
}
