// Package archive packs generated artifacts into a portable bundle: a tar
// stream, gzip-compressed and base64-encoded so it travels safely through
// JSON transports. Packing is pure and deterministic; unpacking restores an
// identical path and content set.
package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/Ravana-indus/deskgen/pkg/gen"
)

const (
	// FormatTar is the only supported container format.
	FormatTar = "tar"
	// EncodingGzipBase64 is the only supported transport encoding.
	EncodingGzipBase64 = "gzip+base64"

	defaultFilename = "artifacts.tar.gz"
)

// Bundle is a self-describing artifact archive.
type Bundle struct {
	Format   string `json:"format"`
	Encoding string `json:"encoding"`
	Filename string `json:"filename"`
	Data     string `json:"data"`
}

// Pack archives artifacts into a bundle. Entries are sorted by path and
// carry no timestamps, so identical artifact sets pack to identical bytes.
func Pack(filename string, artifacts []gen.Artifact) (Bundle, error) {
	if len(artifacts) == 0 {
		return Bundle{}, errors.New("archive: no artifacts to pack")
	}
	if strings.TrimSpace(filename) == "" {
		filename = defaultFilename
	}

	sorted := make([]gen.Artifact, len(artifacts))
	copy(sorted, artifacts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RelativePath < sorted[j].RelativePath
	})

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, artifact := range sorted {
		rel := path.Clean(artifact.RelativePath)
		if rel == "." || rel == "" || strings.HasPrefix(rel, "..") || path.IsAbs(rel) {
			return Bundle{}, fmt.Errorf("archive: artifact path %q is not a clean relative path", artifact.RelativePath)
		}
		header := &tar.Header{
			Name: rel,
			Mode: 0o644,
			Size: int64(len(artifact.Content)),
		}
		if err := tw.WriteHeader(header); err != nil {
			return Bundle{}, fmt.Errorf("archive: write header for %s: %w", rel, err)
		}
		if _, err := io.WriteString(tw, artifact.Content); err != nil {
			return Bundle{}, fmt.Errorf("archive: write %s: %w", rel, err)
		}
	}
	if err := tw.Close(); err != nil {
		return Bundle{}, fmt.Errorf("archive: close tar: %w", err)
	}
	if err := gz.Close(); err != nil {
		return Bundle{}, fmt.Errorf("archive: close gzip: %w", err)
	}

	return Bundle{
		Format:   FormatTar,
		Encoding: EncodingGzipBase64,
		Filename: filename,
		Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// Unpack restores the artifact set from a bundle. Owned regions are
// re-derived from the content; malformed markers leave Regions empty rather
// than failing the unpack.
func Unpack(bundle Bundle) ([]gen.Artifact, error) {
	if bundle.Format != FormatTar {
		return nil, fmt.Errorf("archive: unsupported format %q", bundle.Format)
	}
	if bundle.Encoding != EncodingGzipBase64 {
		return nil, fmt.Errorf("archive: unsupported encoding %q", bundle.Encoding)
	}

	raw, err := base64.StdEncoding.DecodeString(bundle.Data)
	if err != nil {
		return nil, fmt.Errorf("archive: decode base64: %w", err)
	}
	gz, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("archive: open gzip: %w", err)
	}
	defer func() {
		_ = gz.Close()
	}()

	var artifacts []gen.Artifact
	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("archive: read tar: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("archive: read %s: %w", header.Name, err)
		}
		regions, _ := gen.RegionNames(string(content))
		artifacts = append(artifacts, gen.Artifact{
			RelativePath: header.Name,
			Content:      string(content),
			Regions:      regions,
		})
	}
	if len(artifacts) == 0 {
		return nil, errors.New("archive: bundle contains no artifacts")
	}
	return artifacts, nil
}
