package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withDefaults(t *testing.T) {
	t.Helper()
	v, r, d := Version, Revision, BuildDate
	Version, Revision, BuildDate = "dev", "HEAD", "unknown"
	t.Cleanup(func() { Version, Revision, BuildDate = v, r, d })
}

func TestApplyBuildInfo_FillsDefaults(t *testing.T) {
	withDefaults(t)

	applyBuildInfo("v1.2.0", map[string]string{
		"vcs.revision": "5e23a4",
		"vcs.modified": "true",
		"vcs.time":     "2025-03-21T08:30:00Z",
	})

	assert.Equal(t, "v1.2.0", Version)
	assert.Equal(t, "5e23a4-dirty", Revision)
	assert.Equal(t, "2025-03-21T08:30:00Z", BuildDate)
}

func TestApplyBuildInfo_KeepsLdflags(t *testing.T) {
	withDefaults(t)
	Version, Revision = "1.0.0", "abc123"

	applyBuildInfo("(devel)", map[string]string{"vcs.revision": "zzz"})

	assert.Equal(t, "1.0.0", Version)
	assert.Equal(t, "abc123", Revision)
}

func TestDetailed(t *testing.T) {
	withDefaults(t)

	got := Detailed()
	assert.True(t, strings.HasPrefix(got, "dev (HEAD; "), got)
	assert.Contains(t, got, runtime.GOOS+"/"+runtime.GOARCH)
	assert.Equal(t, "dev (HEAD)", Short())
}
