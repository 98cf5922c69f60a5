package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

const (
	botsFile    = "bots.yaml"
	updatesFile = "updates.yaml"
	auxFile     = "extras.yaml"
)

// LoadFS reads bots.yaml, updates.yaml and extras.yaml from dir inside fsys.
// bots.yaml is required; the other two are optional.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	var c Catalog
	if err := decodeFile(fsys, path.Join(dir, botsFile), &c.Items, true); err != nil {
		return nil, err
	}
	if err := decodeFile(fsys, path.Join(dir, updatesFile), &c.Updates, false); err != nil {
		return nil, err
	}
	if err := decodeFile(fsys, path.Join(dir, auxFile), &c.Aux, false); err != nil {
		return nil, err
	}
	if err := validate(c.Items); err != nil {
		return nil, err
	}
	return &c, nil
}

func decodeFile(fsys fs.FS, name string, out any, required bool) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func validate(items []Item) error {
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if it.ID == "" {
			return fmt.Errorf("bots[%d]: id is required", i)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("bots[%d]: duplicate id %q", i, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}
