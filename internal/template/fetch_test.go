package template

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tarEntry struct {
	name     string
	body     string
	dir      bool
	linkname string
}

func buildTarball(t *testing.T, entries []tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644}
		switch {
		case e.dir:
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
		case e.linkname != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.linkname
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.body))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if hdr.Typeflag == tar.TypeReg {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func serveTarball(t *testing.T, path string, data []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/x-gzip")
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func templateEntries() []tarEntry {
	return []tarEntry{
		{name: "repo-main/", dir: true},
		{name: "repo-main/README.md", body: "root readme"},
		{name: "repo-main/.git/HEAD", body: "ref: refs/heads/main"},
		{name: "repo-main/base/next/", dir: true},
		{name: "repo-main/base/next/package.json", body: `{"name":"next-template"}`},
		{name: "repo-main/base/next/app/page.tsx", body: "export default function Page() {}"},
		{name: "repo-main/base/next/.git/config", body: "[core]"},
		{name: "repo-main/base/next/link.tsx", linkname: "app/page.tsx"},
		{name: "repo-main/base/next/escape.tsx", linkname: "../../../etc/passwd"},
		{name: "repo-main/base/nextgen/other.txt", body: "not ours"},
	}
}

func TestFetchSubdir(t *testing.T) {
	srv := serveTarball(t, "/owner/repo/tar.gz/main", buildTarball(t, templateEntries()))
	f := &Fetcher{Client: srv.Client(), BaseURL: srv.URL}

	dest := filepath.Join(t.TempDir(), "demo")
	err := f.Fetch(context.Background(), Source{Repo: "owner/repo", Branch: "main", Subdir: "base/next"}, dest)
	require.NoError(t, err)

	pkg, err := os.ReadFile(filepath.Join(dest, "package.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"name":"next-template"}`, string(pkg))

	assert.FileExists(t, filepath.Join(dest, "app", "page.tsx"))
	assert.NoFileExists(t, filepath.Join(dest, "README.md"))
	assert.NoFileExists(t, filepath.Join(dest, "other.txt"))
	assert.NoDirExists(t, filepath.Join(dest, ".git"))

	target, err := os.Readlink(filepath.Join(dest, "link.tsx"))
	require.NoError(t, err)
	assert.Equal(t, "app/page.tsx", target)
	_, err = os.Lstat(filepath.Join(dest, "escape.tsx"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFetchWholeRepository(t *testing.T) {
	srv := serveTarball(t, "/owner/repo/tar.gz/dev", buildTarball(t, templateEntries()))
	f := &Fetcher{Client: srv.Client(), BaseURL: srv.URL}

	dest := t.TempDir()
	require.NoError(t, f.Fetch(context.Background(), Source{Repo: "owner/repo", Branch: "dev"}, dest))

	assert.FileExists(t, filepath.Join(dest, "README.md"))
	assert.FileExists(t, filepath.Join(dest, "base", "next", "package.json"))
	assert.NoDirExists(t, filepath.Join(dest, ".git"))
	assert.NoDirExists(t, filepath.Join(dest, "base", "next", ".git"))
}

func TestFetchMissingSubdir(t *testing.T) {
	srv := serveTarball(t, "/owner/repo/tar.gz/main", buildTarball(t, templateEntries()))
	f := &Fetcher{Client: srv.Client(), BaseURL: srv.URL}

	err := f.Fetch(context.Background(), Source{Repo: "owner/repo", Branch: "main", Subdir: "base/svelte"}, t.TempDir())
	assert.True(t, errors.Is(err, ErrSubdirNotFound), "got %v", err)
}

func TestFetchHTTPError(t *testing.T) {
	srv := serveTarball(t, "/owner/repo/tar.gz/main", nil)
	f := &Fetcher{Client: srv.Client(), BaseURL: srv.URL}

	err := f.Fetch(context.Background(), Source{Repo: "owner/missing", Branch: "main"}, t.TempDir())
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr), "got %v", err)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestRemoveVCS(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git", "objects"), 0o755))
	require.NoError(t, RemoveVCS(dir))
	assert.NoDirExists(t, filepath.Join(dir, ".git"))
	require.NoError(t, RemoveVCS(dir), "removing an absent .git is a no-op")
}
