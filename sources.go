package deskgen

import (
	"io/fs"

	"github.com/Ravana-indus/deskgen/pkg/metadata"
)

// NewFileSource reads entity metadata bundles from an fs.FS, keeping the
// concrete source type hidden from consumers.
func NewFileSource(fsys fs.FS) Source {
	return metadata.NewFileSource(fsys)
}

// NewDirSource reads entity metadata bundles from a directory.
func NewDirSource(dir string) Source {
	return metadata.NewDirSource(dir)
}

// NewOpenAPISource derives entity metadata from an OpenAPI document.
func NewOpenAPISource(document []byte) Source {
	return metadata.NewOpenAPISource(document)
}

// NewHTTPSource fetches entity metadata from a remote schema service.
func NewHTTPSource(baseURL string, options ...metadata.HTTPOption) Source {
	return metadata.NewHTTPSource(baseURL, options...)
}
