package contract

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// StylePreset selects layout hints for generated pages. Presets never change
// field semantics, only density and spacing tokens fed to the templates.
type StylePreset string

const (
	PresetPlain    StylePreset = "plain"
	PresetDense    StylePreset = "dense"
	PresetSpacious StylePreset = "spacious"
)

// ParsePreset normalizes a preset name, defaulting empty input to plain.
func ParsePreset(raw string) (StylePreset, error) {
	switch StylePreset(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return PresetPlain, nil
	case PresetPlain:
		return PresetPlain, nil
	case PresetDense:
		return PresetDense, nil
	case PresetSpacious:
		return PresetSpacious, nil
	default:
		return "", fmt.Errorf("contract: unknown style preset %q", raw)
	}
}

// presetManifests carries the layout hints for each preset as go-theme
// manifests, so generated pages share the token vocabulary of themed
// renderers.
var presetManifests = map[StylePreset]*theme.Manifest{
	PresetPlain: {
		Name:    string(PresetPlain),
		Version: "1.0.0",
		Tokens: map[string]string{
			"density":       "regular",
			"labelPosition": "top",
			"formColumns":   "2",
			"pageLength":    "20",
			"rowSpacing":    "0.75rem",
		},
	},
	PresetDense: {
		Name:    string(PresetDense),
		Version: "1.0.0",
		Tokens: map[string]string{
			"density":       "compact",
			"labelPosition": "side",
			"formColumns":   "3",
			"pageLength":    "50",
			"rowSpacing":    "0.25rem",
		},
	},
	PresetSpacious: {
		Name:    string(PresetSpacious),
		Version: "1.0.0",
		Tokens: map[string]string{
			"density":       "comfortable",
			"labelPosition": "top",
			"formColumns":   "1",
			"pageLength":    "10",
			"rowSpacing":    "1.5rem",
		},
	},
}

// PresetSelector resolves preset names to theme selections. It satisfies the
// go-theme selector contract so callers can swap in a full theme registry.
type PresetSelector struct{}

var _ theme.ThemeSelector = (*PresetSelector)(nil)

// NewPresetSelector returns the built-in selector over the fixed preset set.
func NewPresetSelector() *PresetSelector { return &PresetSelector{} }

// Select resolves a preset name. The variant is accepted for interface
// compatibility and ignored; presets have no variants.
func (s *PresetSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	preset, err := ParsePreset(name)
	if err != nil {
		return nil, err
	}
	manifest, ok := presetManifests[preset]
	if !ok {
		return nil, fmt.Errorf("contract: no manifest for preset %q", preset)
	}
	return &theme.Selection{
		Theme:    string(preset),
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// PresetTokens returns the layout hint tokens for a preset, in a fresh map.
func PresetTokens(preset StylePreset) map[string]string {
	manifest, ok := presetManifests[preset]
	if !ok || manifest == nil {
		return nil
	}
	out := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		out[key] = value
	}
	return out
}
