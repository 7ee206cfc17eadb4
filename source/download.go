package source

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/imroc/req/v3"
)

const downloadChunk = 8192

// Download streams the body of url into the file dst. A failed or partial
// download is reported as an error; nothing is retried.
func Download(ctx context.Context, client *req.Client, url, dst string) (err error) {
	resp, err := client.R().
		SetContext(ctx).
		DisableAutoReadResponse().
		Get(url)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(url, resp); err != nil {
		return err
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	buf := make([]byte, downloadChunk)
	// f is wrapped to hide ReadFrom, which would ignore buf.
	if _, err := io.CopyBuffer(struct{ io.Writer }{f}, resp.Body, buf); err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	return nil
}
