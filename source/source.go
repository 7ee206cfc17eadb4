package source

import (
	"context"
	"net/url"
	"strings"

	"github.com/imroc/req/v3"
)

// Directory is a remote directory published as an HTML index page.
type Directory struct {
	Client *req.Client
	URL    string // index URL; a missing trailing slash is implied
}

// List returns the file names linked from the index page.
func (d *Directory) List(ctx context.Context) ([]string, error) {
	return ListDirectory(ctx, d.Client, d.dirURL())
}

// Fetch downloads the named file into dst.
func (d *Directory) Fetch(ctx context.Context, name, dst string) error {
	return Download(ctx, d.Client, d.fileURL(name), dst)
}

// dirURL is the index URL with its trailing slash, so that listing and
// fetching resolve names against the same directory.
func (d *Directory) dirURL() string {
	if strings.HasSuffix(d.URL, "/") {
		return d.URL
	}
	return d.URL + "/"
}

func (d *Directory) fileURL(name string) string {
	return d.dirURL() + url.PathEscape(name)
}

// API is a JSON endpoint mirrored as a single snapshot file.
type API struct {
	Client   *req.Client
	URL      string
	Filename string // name of the snapshot, e.g. population_data.json
}

// List returns the snapshot file name.
func (a *API) List(context.Context) ([]string, error) {
	return []string{a.Filename}, nil
}

// Fetch writes the current API response to dst.
func (a *API) Fetch(ctx context.Context, _ string, dst string) error {
	return FetchJSON(ctx, a.Client, a.URL, dst)
}
