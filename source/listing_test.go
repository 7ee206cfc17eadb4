package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blsIndex = `<html><head><title>download.bls.gov - /pub/time.series/pr/</title></head><body><h1>download.bls.gov - /pub/time.series/pr/</h1><hr>
<pre><A HREF="/pub/time.series/">[To Parent Directory]</A><br><br>
 3/21/2025  8:30 AM         2654 <A HREF="/pub/time.series/pr/pr.class">pr.class</A><br>
 3/21/2025  8:30 AM      1481520 <A HREF="/pub/time.series/pr/pr.data.0.Current">pr.data.0.Current</A><br>
 3/21/2025  8:30 AM          220 <A HREF="/pub/time.series/pr/pr.duration">pr.duration</A><br>
 3/21/2025  8:30 AM        &lt;dir&gt; <A HREF="/pub/time.series/pr/archive/">archive</A><br>
</pre><hr></body></html>`

func indexServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestListDirectory_BLSIndex(t *testing.T) {
	srv := indexServer(t, http.StatusOK, blsIndex)

	names, err := ListDirectory(context.Background(), NewClient(""), srv.URL+"/pub/time.series/pr/")
	require.NoError(t, err)
	assert.Equal(t, []string{"pr.class", "pr.data.0.Current", "pr.duration"}, names)
}

func TestDirectory_ListWithOrWithoutTrailingSlash(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		fmt.Fprint(w, blsIndex)
	}))
	defer srv.Close()

	for _, base := range []string{srv.URL + "/pub/time.series/pr/", srv.URL + "/pub/time.series/pr"} {
		d := &Directory{Client: NewClient(""), URL: base}
		names, err := d.List(context.Background())
		require.NoError(t, err, base)
		assert.Equal(t, []string{"pr.class", "pr.data.0.Current", "pr.duration"}, names, base)
	}
	assert.Equal(t, []string{"/pub/time.series/pr/", "/pub/time.series/pr/"}, paths)
}

func TestListDirectory_NonSuccessStatus(t *testing.T) {
	srv := indexServer(t, http.StatusForbidden, "denied")

	_, err := ListDirectory(context.Background(), NewClient(""), srv.URL+"/pub/time.series/pr/")
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
}

func TestListDirectory_ConnectionRefused(t *testing.T) {
	srv := indexServer(t, http.StatusOK, blsIndex)
	addr := srv.URL
	srv.Close()

	_, err := ListDirectory(context.Background(), NewClient(""), addr+"/pub/")
	assert.Error(t, err)
}

func TestFilesInDir(t *testing.T) {
	base, err := url.Parse("https://download.bls.gov/pub/time.series/pr/")
	require.NoError(t, err)

	cases := []struct {
		name  string
		hrefs []string
		want  []string
	}{
		{"absolute-paths", []string{"/pub/time.series/pr/a.txt", "/pub/time.series/pr/b.txt"}, []string{"a.txt", "b.txt"}},
		{"relative-links", []string{"a.txt", "./b.txt"}, []string{"a.txt", "b.txt"}},
		{"full-url-same-host", []string{"https://download.bls.gov/pub/time.series/pr/a.txt"}, []string{"a.txt"}},
		{"other-host", []string{"https://example.com/pub/time.series/pr/a.txt"}, nil},
		{"parent-and-self", []string{"../", "/pub/time.series/", "/pub/time.series/pr/", "?C=N;O=D"}, nil},
		{"sub-directory", []string{"/pub/time.series/pr/archive/"}, nil},
		{"nested-file", []string{"/pub/time.series/pr/archive/old.txt"}, nil},
		{"other-directory", []string{"/pub/time.series/cu/cu.data"}, nil},
		{"duplicates", []string{"a.txt", "/pub/time.series/pr/a.txt"}, []string{"a.txt"}},
		{"escaped-name", []string{"my%20file.txt"}, []string{"my file.txt"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, filesInDir(base, c.hrefs))
		})
	}
}

func TestFilesInDir_BaseWithoutTrailingSlash(t *testing.T) {
	base, err := url.Parse("https://download.bls.gov/pub/time.series/pr/index.html")
	require.NoError(t, err)

	assert.Equal(t, []string{"pr.class"}, filesInDir(base, []string{"pr.class"}))
}

func TestAnchorHrefs_IgnoresOtherTags(t *testing.T) {
	doc := `<link href="style.css"><a name="top"></a><a href="x.txt">x</a><img src="y.png"><a HREF='z.txt'/>`

	hrefs, err := anchorHrefs(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"x.txt", "z.txt"}, hrefs)
}
