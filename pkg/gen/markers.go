package gen

import (
	"fmt"
	"strings"
)

// Marker comments delimit generator-owned regions inside emitted files.
// Everything between a begin/end pair belongs to the generator; everything
// outside belongs to the developer.
const (
	beginMarkerKeyword = "// deskgen:begin"
	endMarkerKeyword   = "// deskgen:end"
)

// BeginMarker returns the opening marker line for a region.
func BeginMarker(region string) string { return beginMarkerKeyword + " " + region }

// EndMarker returns the closing marker line for a region.
func EndMarker(region string) string { return endMarkerKeyword + " " + region }

// Region is one owned span inside a file. StartLine and EndLine are the
// zero-based indexes of the marker lines themselves, both inclusive.
type Region struct {
	Name      string
	StartLine int
	EndLine   int
}

// MarkerError reports malformed markers: an unclosed region, a stray end
// marker, a nested begin or a mismatched end name.
type MarkerError struct {
	Region string
	Line   int
	Reason string
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("gen: marker %q at line %d: %s", e.Region, e.Line+1, e.Reason)
}

// ParseRegions scans content for marker-delimited regions. Markers must be
// alone on their line apart from indentation; nesting is not allowed.
func ParseRegions(content string) ([]Region, error) {
	var (
		regions []Region
		open    *Region
	)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if name, ok := markerName(trimmed, beginMarkerKeyword); ok {
			if name == "" {
				return nil, &MarkerError{Line: i, Reason: "begin marker without a region name"}
			}
			if open != nil {
				return nil, &MarkerError{Region: open.Name, Line: i, Reason: fmt.Sprintf("begin %q before the region is closed", name)}
			}
			open = &Region{Name: name, StartLine: i}
			continue
		}
		if name, ok := markerName(trimmed, endMarkerKeyword); ok {
			if name == "" {
				return nil, &MarkerError{Line: i, Reason: "end marker without a region name"}
			}
			if open == nil {
				return nil, &MarkerError{Region: name, Line: i, Reason: "end marker without matching begin"}
			}
			if name != open.Name {
				return nil, &MarkerError{Region: name, Line: i, Reason: fmt.Sprintf("end does not match open region %q", open.Name)}
			}
			open.EndLine = i
			regions = append(regions, *open)
			open = nil
		}
	}

	if open != nil {
		return nil, &MarkerError{Region: open.Name, Line: open.StartLine, Reason: "region is never closed"}
	}
	return regions, nil
}

// markerName recognizes a marker line for the given keyword and extracts the
// region name. A bare keyword, with or without trailing whitespace, is still a
// marker; it comes back with an empty name so the caller can reject it instead
// of treating the line as manual content.
func markerName(line, keyword string) (string, bool) {
	if line == keyword {
		return "", true
	}
	rest, ok := strings.CutPrefix(line, keyword+" ")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// RegionNames returns the region names of content in order of appearance.
func RegionNames(content string) ([]string, error) {
	regions, err := ParseRegions(content)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(regions))
	for _, r := range regions {
		names = append(names, r.Name)
	}
	return names, nil
}
