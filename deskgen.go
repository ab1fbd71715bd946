// Package deskgen compiles entity metadata into UI Contracts and
// deterministic client artifacts, keeping generated files in sync with live
// schemas through marker-based merges.
package deskgen

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/Ravana-indus/deskgen/pkg/archive"
	"github.com/Ravana-indus/deskgen/pkg/contract"
	"github.com/Ravana-indus/deskgen/pkg/gen"
	"github.com/Ravana-indus/deskgen/pkg/metadata"
	"github.com/Ravana-indus/deskgen/pkg/orchestrator"
	"github.com/Ravana-indus/deskgen/pkg/syncer"
)

// UIContract is the normalized UI description for one entity.
type UIContract = contract.UIContract

// StylePreset selects layout hints for generated pages.
type StylePreset = contract.StylePreset

// Artifact is one generated file with its owned regions.
type Artifact = gen.Artifact

// Bundle is a packed artifact archive.
type Bundle = archive.Bundle

// MergeResult is the per-file outcome of a sync.
type MergeResult = syncer.Result

// Strategy governs how aggressively a sync may alter existing files.
type Strategy = syncer.Strategy

// Source supplies entity metadata to the contract builder.
type Source = metadata.Source

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module, the usual entry point for embedding programs.
func NewOrchestrator(options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	return orchestrator.New(options...)
}

// BuildContract fetches live metadata for the entity and compiles it into a
// UI Contract. It is the simplest entry point for callers that only want the
// contract.
func BuildContract(ctx context.Context, source metadata.Source, entityName, preset string, options ...orchestrator.Option) (UIContract, error) {
	o, err := orchestrator.New(append(options, orchestrator.WithSource(source))...)
	if err != nil {
		return UIContract{}, err
	}
	return o.GetContract(ctx, entityName, preset)
}

// Generate builds the contract and renders its artifact set without touching
// the filesystem.
func Generate(ctx context.Context, source metadata.Source, entityName, preset string, options ...orchestrator.Option) (*orchestrator.GenerateResult, error) {
	o, err := orchestrator.New(append(options, orchestrator.WithSource(source))...)
	if err != nil {
		return nil, err
	}
	return o.Generate(ctx, entityName, preset, orchestrator.OutputInline)
}

// Sync generates the entity's artifacts and applies them under destRoot with
// the given strategy.
func Sync(ctx context.Context, source metadata.Source, entityName, preset, destRoot string, strategy Strategy, options ...orchestrator.Option) (*orchestrator.SyncResult, error) {
	o, err := orchestrator.New(append(options, orchestrator.WithSource(source))...)
	if err != nil {
		return nil, err
	}
	return o.Sync(ctx, entityName, preset, destRoot, strategy)
}

// WithPresetSelector passes a go-theme selector through to the orchestrator
// so preset resolution can be backed by a full theme registry.
func WithPresetSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithPresetSelector(selector)
}
