package gen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/Ravana-indus/deskgen/pkg/contract"
	"github.com/Ravana-indus/deskgen/pkg/gen/template"
	"github.com/Ravana-indus/deskgen/pkg/gen/template/pongo"
	"github.com/Ravana-indus/deskgen/pkg/metadata"
)

// RendererOption configures the artifact renderer.
type RendererOption func(*Renderer)

// WithEngine replaces the default embedded-template engine.
func WithEngine(engine template.Renderer) RendererOption {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithLogger injects a structured logger; defaults to a no-op logger.
func WithLogger(logger *zap.Logger) RendererOption {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer emits the artifact set for a contract. Output is a pure function
// of the contract: no timestamps, no environment, no map-iteration order.
type Renderer struct {
	engine template.Renderer
	logger *zap.Logger
}

// Output pairs the rendered artifacts with non-fatal render warnings.
type Output struct {
	Artifacts []Artifact
	Warnings  []contract.Warning
}

// NewRenderer builds a Renderer, defaulting to the embedded template set.
func NewRenderer(options ...RendererOption) (*Renderer, error) {
	r := &Renderer{logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}

	if r.engine == nil {
		sub, err := fs.Sub(templatesFS, "templates")
		if err != nil {
			return nil, fmt.Errorf("gen: open embedded templates: %w", err)
		}
		engine, err := pongo.New(pongo.WithFS(sub))
		if err != nil {
			return nil, fmt.Errorf("gen: build template engine: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

// Slug derives the snake_case file slug for an entity name.
func Slug(entityName string) string {
	return metadata.EntitySlug(entityName)
}

// Render produces the full artifact set for one contract: the entity's list
// page, form page, action module and router entry, plus the shared runtime
// helpers the pages import.
func (r *Renderer) Render(ctx context.Context, c contract.UIContract) (*Output, error) {
	if r == nil || r.engine == nil {
		return nil, errors.New("gen: renderer is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.EntityName) == "" {
		return nil, errors.New("gen: contract has no entity name")
	}

	slug := Slug(c.EntityName)
	view, warnings := buildView(c, slug)

	plans := []struct {
		template string
		path     string
		data     any
	}{
		{template: "pages/list.js", path: path.Join("pages", slug, "List.js"), data: view},
		{template: "pages/form.js", path: path.Join("pages", slug, "Form.js"), data: view},
		{template: "actions/actions.js", path: path.Join("actions", slug+".js"), data: view},
		{template: "router/routes.js", path: path.Join("router", slug+".js"), data: view},
		{template: "lib/resource-client.js", path: "lib/resource-client.js", data: nil},
		{template: "lib/behavior-shim.js", path: "lib/behavior-shim.js", data: nil},
		{template: "lib/depends-eval.js", path: "lib/depends-eval.js", data: nil},
		{template: "lib/realtime.js", path: "lib/realtime.js", data: nil},
	}

	out := &Output{Warnings: warnings}
	for _, plan := range plans {
		content, err := r.engine.RenderTemplate(plan.template, plan.data)
		if err != nil {
			return nil, fmt.Errorf("gen: render %s: %w", plan.template, err)
		}
		regions, err := RegionNames(content)
		if err != nil {
			return nil, fmt.Errorf("gen: template %s produced malformed markers: %w", plan.template, err)
		}
		out.Artifacts = append(out.Artifacts, Artifact{
			RelativePath: plan.path,
			Content:      content,
			Regions:      regions,
		})
	}

	for _, warning := range out.Warnings {
		r.logger.Warn("render warning",
			zap.String("entity", warning.Entity),
			zap.String("field", warning.Field),
			zap.String("message", warning.Message),
		)
	}
	return out, nil
}
