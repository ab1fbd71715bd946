package archive_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Ravana-indus/deskgen/pkg/archive"
	"github.com/Ravana-indus/deskgen/pkg/gen"
)

func sampleArtifacts() []gen.Artifact {
	list := strings.Join([]string{
		gen.BeginMarker("list:config"),
		"export const listConfig = {};",
		gen.EndMarker("list:config"),
		"",
	}, "\n")
	return []gen.Artifact{
		{RelativePath: "pages/task/List.js", Content: list, Regions: []string{"list:config"}},
		{RelativePath: "lib/resource-client.js", Content: "export class ResourceClient {}\n"},
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	t.Parallel()

	artifacts := sampleArtifacts()
	bundle, err := archive.Pack("task.tar.gz", artifacts)
	if err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	if bundle.Format != archive.FormatTar || bundle.Encoding != archive.EncodingGzipBase64 {
		t.Fatalf("bundle header = %q/%q", bundle.Format, bundle.Encoding)
	}

	restored, err := archive.Unpack(bundle)
	if err != nil {
		t.Fatalf("Unpack() error = %v", err)
	}

	byPath := make(map[string]gen.Artifact, len(restored))
	for _, artifact := range restored {
		byPath[artifact.RelativePath] = artifact
	}
	for _, want := range artifacts {
		got, ok := byPath[want.RelativePath]
		if !ok {
			t.Errorf("missing %s after round trip", want.RelativePath)
			continue
		}
		if got.Content != want.Content {
			t.Errorf("%s content changed after round trip", want.RelativePath)
		}
	}
}

func TestPackDeterministic(t *testing.T) {
	t.Parallel()

	artifacts := sampleArtifacts()
	first, err := archive.Pack("task.tar.gz", artifacts)
	if err != nil {
		t.Fatalf("first Pack() error = %v", err)
	}

	// Same set, different order.
	reversed := []gen.Artifact{artifacts[1], artifacts[0]}
	second, err := archive.Pack("task.tar.gz", reversed)
	if err != nil {
		t.Fatalf("second Pack() error = %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("bundles differ (-first +second):\n%s", diff)
	}
}

func TestPackRejectsBadInput(t *testing.T) {
	t.Parallel()

	if _, err := archive.Pack("x.tar.gz", nil); err == nil {
		t.Error("Pack(nil) expected error")
	}
	escape := []gen.Artifact{{RelativePath: "../escape.js", Content: "x"}}
	if _, err := archive.Pack("x.tar.gz", escape); err == nil {
		t.Error("Pack with path escape expected error")
	}
}

func TestUnpackRejectsUnknownEnvelope(t *testing.T) {
	t.Parallel()

	if _, err := archive.Unpack(archive.Bundle{Format: "zip", Encoding: archive.EncodingGzipBase64}); err == nil {
		t.Error("unknown format accepted")
	}
	if _, err := archive.Unpack(archive.Bundle{Format: archive.FormatTar, Encoding: "plain"}); err == nil {
		t.Error("unknown encoding accepted")
	}
	if _, err := archive.Unpack(archive.Bundle{Format: archive.FormatTar, Encoding: archive.EncodingGzipBase64, Data: "!!"}); err == nil {
		t.Error("invalid base64 accepted")
	}
}
