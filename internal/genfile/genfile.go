// Package genfile writes machine-generated output files. Every file it
// produces starts with a warning header naming the source of truth, so
// nobody hand-edits output that the next run will clobber.
package genfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/opshq/orgsync/pkg/errors"
	"github.com/opshq/orgsync/pkg/logging"
)

// Header returns the warning block prepended to generated files. source
// names where changes belong instead.
func Header(source string) string {
	return fmt.Sprintf(`# THIS FILE HAS BEEN GENERATED BY ORGSYNC
# AND SHOULD NEVER BE EDITED BY HAND!!
# Instead change %s
#
`, source)
}

// WriteFile writes contents to path, creating any missing parent
// directories first. An existing file is overwritten in place; the output
// is regenerable, so no atomic swap is attempted.
func WriteFile(path string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}

	logging.Info().Str("path", path).Msg("wrote file")
	return nil
}

// WriteGenerated writes contents to path with the generated-file header
// prepended. source names the source of truth for the header.
func WriteGenerated(path, source string, contents []byte) error {
	out := append([]byte(Header(source)), contents...)
	return WriteFile(path, out)
}
