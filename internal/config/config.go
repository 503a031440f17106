package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/avail-project/create-liquid-apps/internal/pkgmgr"
	"github.com/avail-project/create-liquid-apps/internal/selection"
	"github.com/avail-project/create-liquid-apps/internal/template"
)

// EnvVar names the environment variable that overrides the config path.
const EnvVar = "LIQUID_APPS_CONFIG"

// Config captures the user editable settings stored in config.toml.
type Config struct {
	PackageManager string                   `toml:"package_manager"`
	Defaults       DefaultsBlock            `toml:"defaults"`
	Templates      map[string]TemplateBlock `toml:"templates"`
}

// DefaultsBlock holds answers used when a flag is absent and the prompt is
// skipped or answered with empty input.
type DefaultsBlock struct {
	Framework string `toml:"framework"`
	Widgets   string `toml:"widgets"`
	Auth      string `toml:"auth"`
}

// TemplateBlock overrides where a framework's template is downloaded from.
type TemplateBlock struct {
	Repo   string `toml:"repo"`
	Branch string `toml:"branch"`
	Subdir string `toml:"subdir"`
}

var (
	// ErrUnknownPackageManager indicates package_manager is not recognized.
	ErrUnknownPackageManager = errors.New("config.package_manager must be pnpm, bun, yarn, or npm")
	// ErrUnknownTemplate indicates a [templates.<name>] table for an unknown framework.
	ErrUnknownTemplate = errors.New("config.templates has an unknown framework")
	// ErrMissingTemplateRepo indicates a template override without a repo.
	ErrMissingTemplateRepo = errors.New("config.templates entries must set repo")
)

// Default returns the configuration used when no file exists.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	c.PackageManager = strings.ToLower(strings.TrimSpace(c.PackageManager))
	if c.Templates == nil {
		c.Templates = map[string]TemplateBlock{}
	}
	for name, block := range c.Templates {
		if block.Branch == "" {
			block.Branch = template.DefaultBranch
		}
		block.Subdir = strings.Trim(block.Subdir, "/")
		c.Templates[name] = block
	}
}

// Validate ensures the configuration can guide the scaffolder.
func (c Config) Validate() error {
	if c.PackageManager != "" && !pkgmgr.Known(c.PackageManager) {
		return fmt.Errorf("%w (got %q)", ErrUnknownPackageManager, c.PackageManager)
	}
	for _, name := range c.templateNames() {
		if !knownFramework(name) {
			return fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
		}
		if strings.TrimSpace(c.Templates[name].Repo) == "" {
			return fmt.Errorf("%w: templates.%s", ErrMissingTemplateRepo, name)
		}
	}
	return nil
}

// Sources converts the template overrides into download sources.
func (c Config) Sources() map[selection.Framework]template.Source {
	out := make(map[selection.Framework]template.Source, len(c.Templates))
	for name, block := range c.Templates {
		out[selection.Framework(name)] = template.Source{
			Repo:   block.Repo,
			Branch: block.Branch,
			Subdir: block.Subdir,
		}
	}
	return out
}

func (c Config) templateNames() []string {
	names := make([]string, 0, len(c.Templates))
	for name := range c.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func knownFramework(name string) bool {
	for _, f := range selection.Frameworks {
		if string(f) == name {
			return true
		}
	}
	return false
}

// Path resolves the config file location: flag, then $LIQUID_APPS_CONFIG,
// then the per-user config directory.
func Path(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(EnvVar); env != "" {
		return env, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(dir, "create-liquid-apps", "config.toml"), nil
}

// Load reads configuration from disk. Missing files return a default config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes configuration to disk, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
