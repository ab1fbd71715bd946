package gen_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Ravana-indus/deskgen/pkg/gen"
)

func TestParseRegions(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"import x from \"y\";",
		"// deskgen:begin alpha",
		"const a = 1;",
		"// deskgen:end alpha",
		"manual();",
		"  // deskgen:begin beta",
		"  const b = 2;",
		"  // deskgen:end beta",
	}, "\n")

	regions, err := gen.ParseRegions(content)
	if err != nil {
		t.Fatalf("ParseRegions() error = %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(regions))
	}
	if regions[0].Name != "alpha" || regions[0].StartLine != 1 || regions[0].EndLine != 3 {
		t.Errorf("alpha region = %+v", regions[0])
	}
	if regions[1].Name != "beta" {
		t.Errorf("second region = %+v", regions[1])
	}
}

func TestParseRegionsMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		content    string
		wantRegion string
	}{
		{name: "unclosed", content: "// deskgen:begin alpha\ncode();", wantRegion: "alpha"},
		{name: "stray end", content: "code();\n// deskgen:end alpha", wantRegion: "alpha"},
		// A begin inside an open region blames the region left unclosed, not
		// the inner name.
		{name: "nested", content: "// deskgen:begin a\n// deskgen:begin b\n// deskgen:end b\n// deskgen:end a", wantRegion: "a"},
		{name: "mismatched end", content: "// deskgen:begin a\n// deskgen:end b", wantRegion: "b"},
		{name: "nameless begin", content: "// deskgen:begin \ncode();"},
		{name: "nameless begin no space", content: "// deskgen:begin\ncode();"},
		{name: "nameless end", content: "// deskgen:begin a\n// deskgen:end"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := gen.ParseRegions(tt.content)
			if err == nil {
				t.Fatal("expected error")
			}
			var markerErr *gen.MarkerError
			if !errors.As(err, &markerErr) {
				t.Fatalf("error type = %T, want *MarkerError", err)
			}
			if markerErr.Region != tt.wantRegion {
				t.Errorf("error region = %q, want %q", markerErr.Region, tt.wantRegion)
			}
		})
	}
}
