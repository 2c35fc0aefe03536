package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/opshq/orgsync/pkg/errors"
)

// FileConfig is the structured configuration carried in the TOML files
// passed on the command line: shortlinks to generate and groups to seed
// into the local store.
type FileConfig struct {
	Links  map[string]Link        `toml:"links"`
	Groups map[string]GroupConfig `toml:"groups"`
}

// Link is a single shortlink entry.
type Link struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Link        string   `toml:"link"`
	Aliases     []string `toml:"aliases"`
}

// GroupConfig describes a group and its membership.
type GroupConfig struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Members     []string `toml:"members"`
}

// LoadFiles reads and decodes the configuration spread across the given
// TOML files. Each file is decoded on its own and the resulting documents
// are merged; two files defining the same top-level key is an error rather
// than silent concatenation, so a duplicated [links.foo] table can't
// clobber another file's entry.
//
// Any unreadable file or undecodable document is fatal.
func LoadFiles(paths []string) (*FileConfig, error) {
	if len(paths) == 0 {
		return nil, errors.NewConfigError("files", "no configuration files specified", nil)
	}

	merged := map[string]any{}
	for _, path := range paths {
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapIO("read", path, err)
		}

		doc := map[string]any{}
		if err := toml.Unmarshal(body, &doc); err != nil {
			return nil, errors.WrapParse("toml", path, err)
		}

		if err := mergeDocument(merged, doc, path); err != nil {
			return nil, err
		}
	}

	// Round-trip the merged document into the typed config.
	raw, err := toml.Marshal(merged)
	if err != nil {
		return nil, errors.WrapParse("toml", "merged configuration", err)
	}

	var cfg FileConfig
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.WrapParse("toml", "merged configuration", err)
	}

	// Backfill entry names from their table keys.
	for key, link := range cfg.Links {
		if link.Name == "" {
			link.Name = key
			cfg.Links[key] = link
		}
	}
	for key, group := range cfg.Groups {
		if group.Name == "" {
			group.Name = key
			cfg.Groups[key] = group
		}
	}

	return &cfg, nil
}

// mergeDocument folds doc into merged one section at a time. Top-level
// keys are tables ("links", "groups"); entries within a table must be
// unique across all files.
func mergeDocument(merged, doc map[string]any, path string) error {
	for section, value := range doc {
		existing, ok := merged[section]
		if !ok {
			merged[section] = value
			continue
		}

		existingTable, okExisting := existing.(map[string]any)
		newTable, okNew := value.(map[string]any)
		if !okExisting || !okNew {
			return errors.WrapParse("toml", path,
				fmt.Errorf("top-level key %q redefined with a non-table value", section))
		}

		for key, entry := range newTable {
			if _, dup := existingTable[key]; dup {
				return errors.WrapParse("toml", path,
					fmt.Errorf("duplicate entry %s.%s already defined in an earlier file", section, key))
			}
			existingTable[key] = entry
		}
	}
	return nil
}
