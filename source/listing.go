package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/imroc/req/v3"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ListDirectory fetches the HTML index at baseURL and returns the names of
// the files it links to directly inside that directory. Parent links,
// sub-directories (trailing slash), deeper paths and other hosts are ignored. Names keep first-seen
// order and appear once.
func ListDirectory(ctx context.Context, client *req.Client, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", baseURL, err)
	}

	resp, err := client.R().
		SetContext(ctx).
		DisableAutoReadResponse().
		Get(baseURL)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", baseURL, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(baseURL, resp); err != nil {
		return nil, err
	}

	hrefs, err := anchorHrefs(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse index %s: %w", baseURL, err)
	}
	return filesInDir(base, hrefs), nil
}

// anchorHrefs returns the href of every <a> element in document order.
func anchorHrefs(r io.Reader) ([]string, error) {
	var hrefs []string
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return hrefs, nil
			}
			return nil, z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			t := z.Token()
			if t.DataAtom != atom.A {
				continue
			}
			for _, a := range t.Attr {
				if a.Key == "href" && a.Val != "" {
					hrefs = append(hrefs, a.Val)
				}
			}
		}
	}
}

func filesInDir(base *url.URL, hrefs []string) []string {
	dir := base.Path
	if dir == "" {
		dir = "/"
	} else if !strings.HasSuffix(dir, "/") {
		dir = path.Dir(dir) + "/"
	}

	seen := make(map[string]bool)
	var names []string
	for _, href := range hrefs {
		ref, err := base.Parse(href)
		if err != nil {
			continue
		}
		if ref.Host != base.Host || !strings.HasPrefix(ref.Path, dir) {
			continue
		}
		name := strings.TrimPrefix(ref.Path, dir)
		if name == "" || strings.Contains(name, "/") || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
