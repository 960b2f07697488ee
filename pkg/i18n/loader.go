package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// WithFS returns an Option that loads messages from JSON and YAML files in an fs.FS.
// The fs.FS root must contain locale directories directly.
// File convention: {locale}/{namespace}.json, .yaml or .yml
//
// Example structure:
//
//	en/common.json
//	en/dashboard.yaml
//	es/common.json
//
// Directories named after locales outside the catalog's set are skipped.
func WithFS(fsys fs.FS) Option {
	return func(c *Catalog) error {
		return fs.WalkDir(fsys, ".", func(filePath string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			var unmarshal func([]byte, any) error
			switch strings.ToLower(path.Ext(filePath)) {
			case ".json":
				unmarshal = json.Unmarshal
			case ".yaml", ".yml":
				unmarshal = yaml.Unmarshal
			default:
				return nil
			}

			dir := path.Dir(filePath)
			if dir == "." || dir == "" {
				return fmt.Errorf("%w: file %q must be inside a locale directory", ErrInvalidFile, filePath)
			}

			loc := path.Base(dir)
			if !c.set.Contains(loc) {
				return nil
			}
			namespace := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))

			data, err := fs.ReadFile(fsys, filePath)
			if err != nil {
				return fmt.Errorf("reading %q: %w", filePath, err)
			}

			var messages map[string]any
			if err := unmarshal(data, &messages); err != nil {
				return fmt.Errorf("%w: parsing %q: %s", ErrInvalidFile, filePath, err)
			}

			return c.add(loc, namespace, messages)
		})
	}
}
