package template

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultBaseURL serves branch tarballs as <base>/<owner>/<repo>/tar.gz/<branch>.
const DefaultBaseURL = "https://codeload.github.com"

// ErrSubdirNotFound indicates the archive had no entries under Source.Subdir.
var ErrSubdirNotFound = errors.New("template subdirectory not found in archive")

// HTTPError reports a non-200 response from the tarball host.
type HTTPError struct {
	URL    string
	Status string
	Code   int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("download failed: %s returned %s", e.URL, e.Status)
}

// Fetcher materializes template sources from GitHub tarballs.
type Fetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewFetcher returns a Fetcher with a 5-minute timeout against GitHub.
func NewFetcher() *Fetcher {
	return &Fetcher{
		Client:  &http.Client{Timeout: 5 * time.Minute},
		BaseURL: DefaultBaseURL,
	}
}

// TarballURL returns the archive URL for src.
func (f *Fetcher) TarballURL(src Source) string {
	base := strings.TrimSuffix(f.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/%s/tar.gz/%s", base, src.Repo, src.branch())
}

// Fetch downloads src and extracts its subdirectory into dest. The archive's
// .git entries are never written. dest is created if missing.
func (f *Fetcher) Fetch(ctx context.Context, src Source, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dest, err)
	}

	tmpFile, err := os.CreateTemp("", "liquid-template-*.tar.gz")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)
	defer tmpFile.Close()

	if err := f.download(ctx, f.TarballURL(src), tmpFile); err != nil {
		return err
	}
	if _, err := tmpFile.Seek(0, io.SeekStart); err != nil {
		return err
	}

	n, err := extract(tmpFile, src.Subdir, dest)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", src, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSubdirNotFound, src)
	}
	return nil
}

func (f *Fetcher) download(ctx context.Context, url string, w io.Writer) error {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &HTTPError{URL: url, Status: resp.Status, Code: resp.StatusCode}
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to write download: %w", err)
	}
	return nil
}

// extract unpacks entries below <top>/<subdir> of a gzipped tarball into
// dest and returns how many entries were written.
func extract(r io.Reader, subdir, dest string) (int, error) {
	gzr, err := gzip.NewReader(r)
	if err != nil {
		return 0, err
	}
	defer gzr.Close()

	root := filepath.Clean(dest)
	prefix := ""
	if subdir != "" {
		prefix = path.Clean(subdir) + "/"
	}

	tr := tar.NewReader(gzr)
	written := 0
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return written, err
		}
		if header.Typeflag == tar.TypeXGlobalHeader {
			continue
		}

		rel, ok := relativeEntry(header.Name, prefix)
		if !ok || isVCSPath(rel) {
			continue
		}
		target := filepath.Join(root, filepath.FromSlash(rel))
		if !within(root, target) {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return written, err
			}
		case tar.TypeReg:
			if err := writeEntry(tr, target, os.FileMode(header.Mode).Perm()); err != nil {
				return written, err
			}
		case tar.TypeSymlink:
			if filepath.IsAbs(header.Linkname) || !within(root, filepath.Join(filepath.Dir(target), header.Linkname)) {
				continue
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return written, err
			}
			_ = os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return written, err
			}
		default:
			continue
		}
		written++
	}
	return written, nil
}

// relativeEntry strips the archive's top-level directory and the subdir
// prefix from name. It reports false for entries outside the subdir.
func relativeEntry(name, prefix string) (string, bool) {
	if name == "" || strings.HasPrefix(name, "/") {
		return "", false
	}
	clean := path.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	_, rest, found := strings.Cut(clean, "/")
	if !found {
		return "", false
	}
	if prefix != "" {
		if !strings.HasPrefix(rest+"/", prefix) {
			return "", false
		}
		rest = strings.TrimPrefix(rest+"/", prefix)
		rest = strings.TrimSuffix(rest, "/")
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}

func isVCSPath(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if part == ".git" {
			return true
		}
	}
	return false
}

func within(root, target string) bool {
	return strings.HasPrefix(target, root+string(os.PathSeparator))
}

func writeEntry(r io.Reader, target string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if perm == 0 {
		perm = 0o644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// RemoveVCS deletes dest/.git if a template shipped one.
func RemoveVCS(dest string) error {
	return os.RemoveAll(filepath.Join(dest, ".git"))
}
