package source

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
)

// FetchJSON requests url, parses the body as JSON of any shape and writes it
// to dst indented by two spaces. Numbers are kept as sent and object keys
// come out sorted, so the same payload always yields the same bytes.
func FetchJSON(ctx context.Context, client *req.Client, url, dst string) error {
	resp, err := client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	if err := checkStatus(url, resp); err != nil {
		return err
	}

	body, err := resp.ToBytes()
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}

	var payload any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", url, err)
	}
	return os.WriteFile(dst, out, 0644)
}
