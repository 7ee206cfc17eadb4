package sync

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"strings"
)

const fingerprintChunk = 4096

// Fingerprint returns the hex MD5 digest of the file at path. Only the
// content is hashed; name and timestamps do not matter.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	buf := make([]byte, fingerprintChunk)
	for {
		n, err := f.Read(buf)
		h.Write(buf[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// normalizeETag strips the quotes S3 puts around ETag values.
func normalizeETag(etag string) string {
	return strings.Trim(etag, `"`)
}
