package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"aapctl/internal/reconciler"
	"aapctl/pkg/logging"
)

// Load reads, renders and parses a manifest file. Validation against
// the known resource kinds is a separate step so callers can decide
// where the kind catalog comes from.
func Load(path string, values map[string]any) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	rendered, err := Render(filepath.Base(path), data, values)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(rendered, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	logging.Info("Manifest", "Loaded %d resource entries from %s", len(m.Resources), path)
	return &m, nil
}

// Validate checks every entry against the known kinds and states.
// All problems are reported at once rather than one per run.
func (m *Manifest) Validate(kinds []string) error {
	known := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		known[k] = true
	}

	var errs []error
	for i, entry := range m.Resources {
		if entry.Kind == "" {
			errs = append(errs, fmt.Errorf("resources[%d]: kind is required", i))
			continue
		}
		if !known[entry.Kind] {
			errs = append(errs, fmt.Errorf("resources[%d]: unknown kind %q", i, entry.Kind))
		}
		if _, err := reconciler.ParseState(entry.State); err != nil {
			errs = append(errs, fmt.Errorf("resources[%d] (%s): %w", i, entry.Kind, err))
		}
		if len(entry.Fields) == 0 {
			errs = append(errs, fmt.Errorf("resources[%d] (%s): fields are required", i, entry.Kind))
		}
	}
	return errors.Join(errs...)
}
