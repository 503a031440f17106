package selection

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	// ErrEmptyDirectory indicates no project directory was given.
	ErrEmptyDirectory = errors.New("project directory name must not be empty")
	// ErrDirectoryExists indicates the scaffold target is already on disk.
	ErrDirectoryExists = errors.New("directory already exists")
)

const schemaURL = "https://create-liquid-apps.local/selection.schema.json"

var (
	//go:embed schema.json
	schemaData string

	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, strings.NewReader(schemaData)); err != nil {
			schemaErr = fmt.Errorf("selection schema load failed: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("selection schema compile failed: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// Validate checks sel against the enumerations and rejects directory
// names that are unsafe to scaffold into.
func Validate(sel Selection) error {
	if strings.TrimSpace(sel.Dir) == "" {
		return ErrEmptyDirectory
	}
	if err := validateDirectory(filepath.Clean(sel.Dir)); err != nil {
		return err
	}
	doc := documentMap(sel.Document())
	doc["dir"] = sel.Dir
	return validateMap(doc)
}

// ValidateConfigDocument checks a liquid.config.json record.
func ValidateConfigDocument(doc ConfigDocument) error {
	return validateMap(documentMap(doc))
}

func documentMap(doc ConfigDocument) map[string]interface{} {
	return map[string]interface{}{
		"framework": string(doc.Framework),
		"widgets":   string(doc.Widgets),
		"auth":      string(doc.Auth),
	}
}

func validateMap(v map[string]interface{}) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("invalid selection: %w", err)
	}
	return nil
}

// CheckTarget resolves dir against the working directory and fails with
// ErrDirectoryExists when something is already there.
func CheckTarget(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if _, err := os.Lstat(abs); err == nil {
		return abs, fmt.Errorf("%w: %s", ErrDirectoryExists, dir)
	} else if !errors.Is(err, os.ErrNotExist) {
		return abs, err
	}
	return abs, nil
}

// validateDirectory rejects filesystem roots, the current or parent
// directory, and root-level absolute paths such as /etc.
func validateDirectory(dir string) error {
	switch dir {
	case "", "/", ".", "..":
		return fmt.Errorf("directory %q is not a valid project location", dir)
	}
	if isVolumeRoot(dir) {
		return fmt.Errorf("directory %q is not a valid project location", dir)
	}
	if filepath.IsAbs(dir) && isVolumeRoot(filepath.Dir(dir)) {
		return fmt.Errorf("refusing to create project at root-level path %q", dir)
	}
	return nil
}

func isVolumeRoot(dir string) bool {
	return dir == filepath.VolumeName(dir)+string(filepath.Separator)
}
