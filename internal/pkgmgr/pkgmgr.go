// Package pkgmgr picks the JavaScript package manager used to install a
// generated project's dependencies.
package pkgmgr

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/avail-project/create-liquid-apps/internal/runner"
)

// Manager is a detected package manager. Version is nil when the probe output
// could not be parsed or the manager was chosen without probing.
type Manager struct {
	Name    string
	Version *semver.Version
}

type candidate struct {
	name    string
	minimum *semver.Version
}

// preference is the probe order.
var preference = []candidate{
	{"pnpm", semver.MustParse("7.0.0")},
	{"bun", semver.MustParse("1.0.0")},
	{"yarn", semver.MustParse("1.22.0")},
	{"npm", semver.MustParse("7.0.0")},
}

// Fallback is used when no probe succeeds.
const Fallback = "npm"

// Known reports whether name is a supported manager.
func Known(name string) bool {
	for _, c := range preference {
		if c.name == name {
			return true
		}
	}
	return false
}

// Names lists the supported managers in probe order.
func Names() []string {
	names := make([]string, 0, len(preference))
	for _, c := range preference {
		names = append(names, c.name)
	}
	return names
}

// Detect returns the first manager whose `--version` probe succeeds. A probe
// that reports a version below the manager's minimum counts as failed.
func Detect(ctx context.Context, r runner.Runner) Manager {
	for _, c := range preference {
		res, err := runner.Check(ctx, r, c.name, []string{"--version"}, runner.Opts{})
		if err != nil {
			continue
		}
		v, err := semver.NewVersion(strings.TrimSpace(firstLine(res.Stdout)))
		if err != nil {
			return Manager{Name: c.name}
		}
		if v.LessThan(c.minimum) {
			continue
		}
		return Manager{Name: c.name, Version: v}
	}
	return Manager{Name: Fallback}
}

// Resolve returns the forced manager when one is configured, else Detect.
func Resolve(ctx context.Context, r runner.Runner, forced string) (Manager, error) {
	if forced == "" {
		return Detect(ctx, r), nil
	}
	if !Known(forced) {
		return Manager{}, fmt.Errorf("unknown package manager %q (want one of %s)", forced, strings.Join(Names(), ", "))
	}
	return Manager{Name: forced}, nil
}

// Install runs `<name> install` in dir with output streamed to stdout and
// stderr.
func (m Manager) Install(ctx context.Context, r runner.Runner, dir string, stdout, stderr io.Writer) error {
	_, err := runner.Check(ctx, r, m.Name, []string{"install"}, runner.Opts{
		Dir:    dir,
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		return fmt.Errorf("%s install: %w", m.Name, err)
	}
	return nil
}

// RunScript renders the command that runs a package script.
func (m Manager) RunScript(script string) string {
	return m.Name + " run " + script
}

func (m Manager) String() string {
	if m.Version == nil {
		return m.Name
	}
	return m.Name + " " + m.Version.String()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
