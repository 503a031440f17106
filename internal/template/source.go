package template

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/avail-project/create-liquid-apps/internal/selection"
)

// DefaultBranch is used when a source omits its #branch suffix.
const DefaultBranch = "main"

// ErrInvalidSource indicates a source string could not be parsed.
var ErrInvalidSource = errors.New("template source must look like owner/repo[/subdir][#branch]")

// Source identifies a directory inside a branch of a GitHub repository.
type Source struct {
	Repo   string // owner/name
	Branch string
	Subdir string
}

// Sources maps each framework to its template repository.
var Sources = map[selection.Framework]Source{
	selection.FrameworkNext:      {Repo: "abheektripathy/nexus-connectkit-next", Branch: DefaultBranch},
	selection.FrameworkReactVite: {Repo: "abheektripathy/nexus-vite-react-template", Branch: DefaultBranch},
	selection.FrameworkSvelte:    {Repo: "abheektripathy/nexus-sveltekit-template", Branch: DefaultBranch},
}

// Parse reads the owner/repo/sub/dir#branch shorthand.
func Parse(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "github:")
	raw = strings.TrimPrefix(raw, "https://github.com/")

	ref := ""
	if i := strings.LastIndex(raw, "#"); i >= 0 {
		ref = raw[i+1:]
		raw = raw[:i]
		if ref == "" {
			return Source{}, ErrInvalidSource
		}
	}

	parts := strings.Split(strings.Trim(raw, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Source{}, fmt.Errorf("%w: %q", ErrInvalidSource, raw)
	}
	repo := parts[0] + "/" + strings.TrimSuffix(parts[1], ".git")

	subdir := ""
	if len(parts) > 2 {
		subdir = path.Clean(strings.Join(parts[2:], "/"))
		if subdir == "." || strings.HasPrefix(subdir, "..") {
			return Source{}, fmt.Errorf("%w: bad subdirectory %q", ErrInvalidSource, subdir)
		}
	}

	if ref == "" {
		ref = DefaultBranch
	}
	return Source{Repo: repo, Branch: ref, Subdir: subdir}, nil
}

// String renders the source in the shorthand Parse accepts.
func (s Source) String() string {
	var b strings.Builder
	b.WriteString(s.Repo)
	if s.Subdir != "" {
		b.WriteString("/")
		b.WriteString(s.Subdir)
	}
	b.WriteString("#")
	b.WriteString(s.branch())
	return b.String()
}

func (s Source) branch() string {
	if s.Branch == "" {
		return DefaultBranch
	}
	return s.Branch
}

// Resolve returns the source for framework, letting overrides win.
func Resolve(framework selection.Framework, overrides map[selection.Framework]Source) (Source, error) {
	if src, ok := overrides[framework]; ok && src.Repo != "" {
		return src, nil
	}
	src, ok := Sources[framework]
	if !ok {
		return Source{}, fmt.Errorf("no template registered for framework %q", framework)
	}
	return src, nil
}
