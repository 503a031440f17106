// Package customize patches a freshly downloaded template so it matches the
// user's selection. Every step can be re-run with the same inputs and
// produces the same files.
package customize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/avail-project/create-liquid-apps/internal/selection"
)

// ConfigFile is the metadata file recorded in every generated project.
const ConfigFile = "liquid.config.json"

// ManifestFile is the npm package manifest.
const ManifestFile = "package.json"

// Step is a single file mutation.
type Step struct {
	Name string
	Run  func(dir string) (string, error)
}

// StepResult records what a step reported.
type StepResult struct {
	Name    string
	Message string
}

// Report summarizes an Apply run.
type Report struct {
	Profile Profile
	Steps   []StepResult
}

// Summary is the closing line for the run.
func (r Report) Summary() string {
	return fmt.Sprintf("Applied %s customizations.", r.Profile.Framework.Label())
}

// Plan returns the ordered mutations for sel.
func Plan(sel selection.Selection) (Profile, []Step, error) {
	profile, ok := Profiles[sel.Framework]
	if !ok {
		return Profile{}, nil, fmt.Errorf("no customization profile for framework %q", sel.Framework)
	}

	steps := []Step{
		{Name: "env", Run: func(dir string) (string, error) {
			return writeEnv(dir, profile, sel.Auth)
		}},
		{Name: "config", Run: func(dir string) (string, error) {
			return writeConfig(dir, sel.Document())
		}},
	}

	switch sel.Widgets {
	case selection.WidgetsCore:
		steps = append(steps, Step{Name: "core-components", Run: func(dir string) (string, error) {
			return removeCoreExtras(dir, profile)
		}})
	case selection.WidgetsElements:
		steps = append(steps, Step{Name: "elements-components", Run: func(dir string) (string, error) {
			return promoteElements(dir, profile)
		}})
	}

	if profile.MergeDependencies {
		steps = append(steps, Step{Name: "dependencies", Run: func(dir string) (string, error) {
			return mergeDependencies(dir, RequiredDependencies(sel.Widgets, sel.Auth))
		}})
	}
	return profile, steps, nil
}

// Apply runs every planned step against dir. The first failure aborts the
// pass; steps already applied are left in place.
func Apply(dir string, sel selection.Selection) (Report, error) {
	profile, steps, err := Plan(sel)
	if err != nil {
		return Report{}, err
	}
	report := Report{Profile: profile}
	for _, step := range steps {
		msg, err := step.Run(dir)
		if err != nil {
			return report, fmt.Errorf("step %s: %w", step.Name, err)
		}
		report.Steps = append(report.Steps, StepResult{Name: step.Name, Message: msg})
	}
	return report, nil
}

func writeEnv(dir string, profile Profile, auth selection.AuthProvider) (string, error) {
	content := strings.Join(profile.EnvLines(auth), "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, profile.EnvFile), []byte(content), 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("Wrote %s", profile.EnvFile), nil
}

func writeConfig(dir string, doc selection.ConfigDocument) (string, error) {
	if err := selection.ValidateConfigDocument(doc); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("Wrote %s", ConfigFile), nil
}

func removeCoreExtras(dir string, profile Profile) (string, error) {
	if err := removeAll(dir, profile.CoreRemovals); err != nil {
		return "", err
	}
	return "Removed Elements components for nexus-core setup", nil
}

func promoteElements(dir string, profile Profile) (string, error) {
	if profile.ElementsPage == "" {
		return fmt.Sprintf("Setting up Elements for %s template", profile.Framework.Label()), nil
	}

	src := filepath.Join(dir, filepath.FromSlash(profile.ElementsPage))
	content, err := os.ReadFile(src)
	switch {
	case err == nil:
		dst := filepath.Join(dir, filepath.FromSlash(profile.MainPage))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(dst, content, 0o644); err != nil {
			return "", err
		}
		if err := os.RemoveAll(filepath.Join(dir, filepath.FromSlash(profile.ElementsDir))); err != nil {
			return "", err
		}
	case errors.Is(err, fs.ErrNotExist):
		// Already promoted on an earlier run.
	default:
		return "", err
	}

	if err := removeAll(dir, profile.ElementsRemovals); err != nil {
		return "", err
	}
	return "Set up Elements as the main UI for nexus-elements setup", nil
}

func mergeDependencies(dir string, deps map[string]string) (string, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	m, err := parseManifest(data)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", ManifestFile, err)
	}
	if err := m.mergeDependencies(deps); err != nil {
		return "", err
	}
	out, err := m.encode()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("Merged %d dependencies into %s", len(deps), ManifestFile), nil
}

func removeAll(dir string, rels []string) error {
	for _, rel := range rels {
		if err := os.RemoveAll(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			return err
		}
	}
	return nil
}
