// Package orchestrator wires the metadata source, contract builder, code
// generator, archive exporter and sync engine into the high-level operations
// the CLI and embedding programs call.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/Ravana-indus/deskgen/pkg/archive"
	"github.com/Ravana-indus/deskgen/pkg/contract"
	"github.com/Ravana-indus/deskgen/pkg/gen"
	"github.com/Ravana-indus/deskgen/pkg/metadata"
	"github.com/Ravana-indus/deskgen/pkg/syncer"
)

// OutputMode selects how Generate returns its artifacts.
type OutputMode string

const (
	// OutputInline returns artifacts as-is.
	OutputInline OutputMode = "inline"
	// OutputArchive additionally packs the artifacts into a bundle.
	OutputArchive OutputMode = "archive"
)

// ParseOutputMode normalizes a mode name, defaulting empty input to inline.
func ParseOutputMode(raw string) (OutputMode, error) {
	switch OutputMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return OutputInline, nil
	case OutputInline:
		return OutputInline, nil
	case OutputArchive:
		return OutputArchive, nil
	default:
		return "", fmt.Errorf("orchestrator: unknown output mode %q", raw)
	}
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithSource sets the metadata source. Required.
func WithSource(source metadata.Source) Option {
	return func(o *Orchestrator) { o.source = source }
}

// WithBuilder replaces the default contract builder.
func WithBuilder(builder *contract.Builder) Option {
	return func(o *Orchestrator) { o.builder = builder }
}

// WithRenderer replaces the default artifact renderer.
func WithRenderer(renderer *gen.Renderer) Option {
	return func(o *Orchestrator) { o.renderer = renderer }
}

// WithSyncer replaces the default sync engine.
func WithSyncer(engine *syncer.Engine) Option {
	return func(o *Orchestrator) { o.syncEngine = engine }
}

// WithPresetSelector replaces the built-in preset selector, letting callers
// resolve presets against a full theme registry.
func WithPresetSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		if selector != nil {
			o.selector = selector
		}
	}
}

// WithLogger injects a structured logger shared by all default components.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator exposes the contract/generate/sync pipeline over one metadata
// source. Construct with New; the zero value is not usable.
type Orchestrator struct {
	source     metadata.Source
	builder    *contract.Builder
	renderer   *gen.Renderer
	syncEngine *syncer.Engine
	selector   theme.ThemeSelector
	logger     *zap.Logger
}

// New builds an orchestrator. A metadata source is mandatory; every other
// collaborator gets a sensible default.
func New(options ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		logger:   zap.NewNop(),
		selector: contract.NewPresetSelector(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}

	if o.source == nil {
		return nil, errors.New("orchestrator: a metadata source is required")
	}
	if o.builder == nil {
		o.builder = contract.NewBuilder(o.source, contract.WithLogger(o.logger))
	}
	if o.renderer == nil {
		renderer, err := gen.NewRenderer(gen.WithLogger(o.logger))
		if err != nil {
			return nil, err
		}
		o.renderer = renderer
	}
	if o.syncEngine == nil {
		o.syncEngine = syncer.NewEngine(syncer.WithLogger(o.logger))
	}
	return o, nil
}

// GetContract resolves the preset and builds a fresh contract for the entity.
func (o *Orchestrator) GetContract(ctx context.Context, entityName, preset string) (contract.UIContract, error) {
	resolved, err := o.resolvePreset(preset)
	if err != nil {
		return contract.UIContract{}, err
	}
	return o.builder.Build(ctx, entityName, resolved)
}

// GenerateResult is the outcome of one Generate call.
type GenerateResult struct {
	Contract  contract.UIContract
	Artifacts []gen.Artifact
	Warnings  []contract.Warning
	Bundle    *archive.Bundle
}

// Generate builds the contract and renders its artifact set. In archive mode
// the artifacts are additionally packed into a transport bundle.
func (o *Orchestrator) Generate(ctx context.Context, entityName, preset string, mode OutputMode) (*GenerateResult, error) {
	mode, err := ParseOutputMode(string(mode))
	if err != nil {
		return nil, err
	}

	c, err := o.GetContract(ctx, entityName, preset)
	if err != nil {
		return nil, err
	}
	out, err := o.renderer.Render(ctx, c)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		Contract:  c,
		Artifacts: out.Artifacts,
		Warnings:  append(append([]contract.Warning(nil), c.Warnings...), out.Warnings...),
	}
	if mode == OutputArchive {
		bundle, err := archive.Pack(gen.Slug(c.EntityName)+".tar.gz", out.Artifacts)
		if err != nil {
			return nil, err
		}
		result.Bundle = &bundle
	}
	return result, nil
}

// SyncResult is the outcome of one Sync call.
type SyncResult struct {
	Contract  contract.UIContract
	Artifacts []gen.Artifact
	Warnings  []contract.Warning
	Results   []syncer.Result
}

// Sync generates the entity's artifacts and applies them under destRoot.
func (o *Orchestrator) Sync(ctx context.Context, entityName, preset, destRoot string, strategy syncer.Strategy) (*SyncResult, error) {
	generated, err := o.Generate(ctx, entityName, preset, OutputInline)
	if err != nil {
		return nil, err
	}

	results, err := o.syncEngine.Sync(ctx, generated.Artifacts, destRoot, strategy)
	if err != nil {
		return nil, err
	}
	return &SyncResult{
		Contract:  generated.Contract,
		Artifacts: generated.Artifacts,
		Warnings:  generated.Warnings,
		Results:   results,
	}, nil
}

func (o *Orchestrator) resolvePreset(preset string) (contract.StylePreset, error) {
	if strings.TrimSpace(preset) == "" {
		return contract.PresetPlain, nil
	}
	selection, err := o.selector.Select(preset, "")
	if err != nil {
		return "", err
	}
	return contract.ParsePreset(selection.Theme)
}
