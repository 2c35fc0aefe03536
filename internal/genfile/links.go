package genfile

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/opshq/orgsync/internal/config"
)

// linksSource is where shortlink changes belong.
const linksSource = "configs/links.toml"

// RenderLinks renders the shortlink entries into a redirect map: one
// "name target" line per link and per alias, sorted by name so the
// output is stable across runs.
func RenderLinks(cfg *config.FileConfig) []byte {
	type entry struct {
		name   string
		target string
	}

	var entries []entry
	for _, link := range cfg.Links {
		entries = append(entries, entry{name: link.Name, target: link.Link})
		for _, alias := range link.Aliases {
			entries = append(entries, entry{name: alias, target: link.Link})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	var buf bytes.Buffer
	for _, e := range entries {
		fmt.Fprintf(&buf, "%s %s\n", e.name, e.target)
	}
	return buf.Bytes()
}

// GenerateLinks writes the redirect map for the configured shortlinks
// into outDir.
func GenerateLinks(cfg *config.FileConfig, outDir string) error {
	return WriteGenerated(filepath.Join(outDir, "redirects.map"), linksSource, RenderLinks(cfg))
}
