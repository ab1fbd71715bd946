package deskgen

import (
	"io/fs"

	"github.com/Ravana-indus/deskgen/pkg/gen"
)

// EmbeddedTemplates exposes the built-in artifact templates so callers can
// reuse or extend them without importing the generator package directly.
func EmbeddedTemplates() fs.FS {
	return gen.TemplatesFS()
}
