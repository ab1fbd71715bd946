package gen

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var templatesFS embed.FS

// TemplatesFS exposes the built-in artifact templates so callers can reuse
// or extend them without re-embedding.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return templatesFS
	}
	return sub
}
