// Package source fetches the remote files that get mirrored: the entries of
// an HTML directory index and a JSON API snapshot.
package source

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
)

// Some index servers reject the default Go user agent, so requests look like
// a regular browser.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

// NewClient returns the HTTP client shared by every fetch of a run. It never
// retries, and bodies are handed over without charset conversion.
func NewClient(userAgent string) *req.Client {
	if userAgent == "" {
		userAgent = browserUserAgent
	}
	return req.C().
		SetUserAgent(userAgent).
		DisableAutoDecode().
		SetCommonHeaders(map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
		}).
		SetJsonMarshal(json.Marshal).
		SetJsonUnmarshal(json.Unmarshal)
}

// StatusError is returned when a server answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: http status %d", e.URL, e.StatusCode)
}

func checkStatus(url string, resp *req.Response) error {
	if resp.IsSuccessState() {
		return nil
	}
	return &StatusError{URL: url, StatusCode: resp.StatusCode}
}
