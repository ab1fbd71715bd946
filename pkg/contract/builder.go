package contract

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-openapi/inflect"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Ravana-indus/deskgen/pkg/depends"
	"github.com/Ravana-indus/deskgen/pkg/metadata"
)

// Option customises the builder configuration.
type Option func(*Builder)

// WithLogger injects a structured logger; defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Builder compiles raw metadata into UI Contracts. It holds no per-entity
// state; every Build fetches live metadata.
type Builder struct {
	source metadata.Source
	logger *zap.Logger
}

// NewBuilder constructs a Builder over the given metadata source.
func NewBuilder(source metadata.Source, options ...Option) *Builder {
	b := &Builder{
		source: source,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Build fetches the entity's metadata, applies overrides, partitions fields
// into list columns and form sections, resolves shallow child-table
// fragments, validates dependency expressions and merges permissions.
//
// A failed fetch aborts the whole build with a MetadataFetchError; an entity
// with zero fields fails with a ContractValidationError. Everything else is
// recovered locally and surfaced as a Warning on the contract.
func (b *Builder) Build(ctx context.Context, entityName string, preset StylePreset) (UIContract, error) {
	if b == nil || b.source == nil {
		return UIContract{}, errors.New("contract: builder requires a metadata source")
	}
	entityName = strings.TrimSpace(entityName)
	if entityName == "" {
		return UIContract{}, errors.New("contract: entity name is required")
	}
	if _, err := ParsePreset(string(preset)); err != nil {
		return UIContract{}, err
	}

	var (
		fields      []metadata.Field
		overrides   []metadata.FieldOverride
		behaviors   []metadata.BehaviorSnippet
		workflow    *metadata.Workflow
		permissions []metadata.PermissionRule
	)

	// The five fetches are merged by key, so completion order is irrelevant.
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		fields, err = b.source.FetchFieldList(groupCtx, entityName)
		return err
	})
	group.Go(func() (err error) {
		overrides, err = b.source.FetchOverrides(groupCtx, entityName)
		return err
	})
	group.Go(func() (err error) {
		behaviors, err = b.source.FetchClientBehavior(groupCtx, entityName)
		return err
	})
	group.Go(func() (err error) {
		workflow, err = b.source.FetchWorkflow(groupCtx, entityName)
		return err
	})
	group.Go(func() (err error) {
		permissions, err = b.source.FetchPermissions(groupCtx, entityName)
		return err
	})
	if err := group.Wait(); err != nil {
		return UIContract{}, &MetadataFetchError{Entity: entityName, Err: err}
	}

	if len(fields) == 0 {
		return UIContract{}, &ContractValidationError{Entity: entityName, Reason: "entity has no fields"}
	}

	merged := applyOverrides(fields, overrides)

	c := UIContract{
		EntityName:    entityName,
		Preset:        preset,
		RealtimeTopic: RealtimeTopic(entityName),
	}

	c.ListSection = listColumns(merged)
	c.FormSections = formSections(&c, merged)
	b.resolveChildTables(ctx, &c, merged)
	c.Permissions = mergePermissions(permissions)
	c.WorkflowActions = workflowActions(workflow)
	c.Behaviors = contractBehaviors(behaviors)

	for _, warning := range c.Warnings {
		b.logger.Warn("contract build warning",
			zap.String("entity", warning.Entity),
			zap.String("field", warning.Field),
			zap.String("message", warning.Message),
		)
	}

	return c, nil
}

// RealtimeTopic derives the canonical change-notification topic for an
// entity. The derivation is deterministic so generated subscribers and
// server-side publishers always agree.
func RealtimeTopic(entityName string) string {
	return "doc:" + metadata.EntitySlug(entityName)
}

func applyOverrides(fields []metadata.Field, overrides []metadata.FieldOverride) []metadata.Field {
	if len(overrides) == 0 {
		out := make([]metadata.Field, len(fields))
		copy(out, fields)
		return out
	}

	patches := make(map[string][]metadata.FieldOverride, len(overrides))
	for _, o := range overrides {
		patches[o.FieldName] = append(patches[o.FieldName], o)
	}

	out := make([]metadata.Field, len(fields))
	copy(out, fields)
	for i := range out {
		for _, patch := range patches[out[i].FieldName] {
			patch.Apply(&out[i])
		}
	}
	return out
}

func listColumns(fields []metadata.Field) []ListColumn {
	type indexed struct {
		column ListColumn
		index  int
		order  int
	}
	var picked []indexed
	for order, f := range fields {
		if !f.InListView || f.Hidden || f.FieldType == metadata.FieldTypeSectionBreak {
			continue
		}
		picked = append(picked, indexed{
			column: ListColumn{
				FieldName: f.FieldName,
				FieldType: string(f.FieldType),
				Label:     fieldLabel(f),
			},
			index: f.ListIndex,
			order: order,
		})
	}
	sort.SliceStable(picked, func(i, j int) bool {
		if picked[i].index != picked[j].index {
			return picked[i].index < picked[j].index
		}
		return picked[i].order < picked[j].order
	})

	out := make([]ListColumn, 0, len(picked))
	for _, p := range picked {
		out = append(out, p.column)
	}
	return out
}

func formSections(c *UIContract, fields []metadata.Field) []FormSection {
	var sections []FormSection
	current := FormSection{}

	flush := func() {
		if len(current.Fields) > 0 || current.Title != "" {
			sections = append(sections, current)
		}
	}

	for _, f := range fields {
		if f.FieldType == metadata.FieldTypeSectionBreak {
			flush()
			current = FormSection{Title: sanitizeText(f.Label)}
			continue
		}
		if f.Hidden {
			continue
		}
		current.Fields = append(current.Fields, fieldSpec(c, f))
	}
	flush()
	return sections
}

func fieldSpec(c *UIContract, f metadata.Field) FieldSpec {
	spec := FieldSpec{
		FieldName: f.FieldName,
		FieldType: string(f.FieldType),
		Label:     fieldLabel(f),
		Required:  f.Required,
		ReadOnly:  f.ReadOnly,
		Default:   f.Default,
	}
	if len(f.Options) > 0 {
		spec.Options = make([]string, 0, len(f.Options))
		for _, option := range f.Options {
			spec.Options = append(spec.Options, sanitizeText(option))
		}
	}
	spec.DependsOn = validateDependency(c, f.FieldName, "depends_on", f.DependsOn)
	spec.MandatoryDependsOn = validateDependency(c, f.FieldName, "mandatory_depends_on", f.MandatoryDependsOn)
	spec.ReadOnlyDependsOn = validateDependency(c, f.FieldName, "read_only_depends_on", f.ReadOnlyDependsOn)
	return spec
}

// validateDependency parse-checks an expression. A field whose expression
// fails to parse stays in the contract; only the dependency is dropped, with
// a warning attached to the build.
func validateDependency(c *UIContract, fieldName, kind, expression string) string {
	if strings.TrimSpace(expression) == "" {
		return ""
	}
	if _, err := depends.Parse(expression); err != nil {
		c.Warnings = append(c.Warnings, Warning{
			Entity:  c.EntityName,
			Field:   fieldName,
			Message: fmt.Sprintf("dropped unparseable %s expression: %v", kind, err),
		})
		return ""
	}
	return expression
}

// resolveChildTables fetches the field list (only) of every referenced child
// entity. Recursion depth is capped at one: fragments never embed fragments,
// so mutually referencing schemas terminate.
func (b *Builder) resolveChildTables(ctx context.Context, c *UIContract, fields []metadata.Field) {
	for _, f := range fields {
		if f.FieldType != metadata.FieldTypeTable {
			continue
		}
		child := strings.TrimSpace(f.ChildEntity)
		if child == "" {
			c.Warnings = append(c.Warnings, Warning{
				Entity:  c.EntityName,
				Field:   f.FieldName,
				Message: "table field has no child entity reference",
			})
			continue
		}

		childFields, err := b.source.FetchFieldList(ctx, child)
		if err != nil {
			c.Warnings = append(c.Warnings, Warning{
				Entity:  c.EntityName,
				Field:   f.FieldName,
				Message: fmt.Sprintf("could not fetch child entity %q: %v", child, err),
			})
			continue
		}

		fragment := ChildFragment{EntityName: child}
		for _, cf := range childFields {
			if cf.Hidden || cf.FieldType == metadata.FieldTypeSectionBreak {
				continue
			}
			fragment.Fields = append(fragment.Fields, fieldSpec(c, cf))
		}
		if c.ChildTables == nil {
			c.ChildTables = make(map[string]ChildFragment)
		}
		c.ChildTables[f.FieldName] = fragment
	}
}

// mergePermissions folds rules into one capability per role: within a level
// the last rule wins, across levels grants accumulate most-permissively, and
// an explicit deny at a higher level clears everything granted below it.
func mergePermissions(rules []metadata.PermissionRule) map[string]Capability {
	if len(rules) == 0 {
		return nil
	}

	byRole := make(map[string]map[int]metadata.PermissionRule)
	for _, rule := range rules {
		role := strings.TrimSpace(rule.Role)
		if role == "" {
			continue
		}
		if byRole[role] == nil {
			byRole[role] = make(map[int]metadata.PermissionRule)
		}
		byRole[role][rule.Level] = rule // last rule at a level wins
	}

	out := make(map[string]Capability, len(byRole))
	for role, levels := range byRole {
		order := make([]int, 0, len(levels))
		for level := range levels {
			order = append(order, level)
		}
		sort.Ints(order)

		var merged Capability
		for _, level := range order {
			rule := levels[level]
			merged.Level = level
			if rule.Deny {
				merged.Read, merged.Write, merged.Create, merged.Delete = false, false, false, false
				continue
			}
			merged.Read = merged.Read || rule.Read
			merged.Write = merged.Write || rule.Write
			merged.Create = merged.Create || rule.Create
			merged.Delete = merged.Delete || rule.Delete
		}
		out[role] = merged
	}
	return out
}

func workflowActions(workflow *metadata.Workflow) []WorkflowAction {
	if workflow == nil || len(workflow.Transitions) == 0 {
		return nil
	}
	out := make([]WorkflowAction, 0, len(workflow.Transitions))
	for _, t := range workflow.Transitions {
		out = append(out, WorkflowAction{
			FromState: t.FromState,
			Action:    t.Action,
			ToState:   t.ToState,
		})
	}
	return out
}

func contractBehaviors(snippets []metadata.BehaviorSnippet) []Behavior {
	if len(snippets) == 0 {
		return nil
	}
	out := make([]Behavior, 0, len(snippets))
	for _, s := range snippets {
		out = append(out, Behavior{
			Name:      s.Name,
			Event:     s.Event,
			FieldName: s.FieldName,
			Source:    s.Source,
		})
	}
	return out
}

func fieldLabel(f metadata.Field) string {
	label := sanitizeText(f.Label)
	if label != "" {
		return label
	}
	return inflect.Humanize(f.FieldName)
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeText strips any markup from schema-supplied labels and options.
// The schema source is untrusted and these strings end up verbatim inside
// generated files.
func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(textPolicy.Sanitize(trimmed))
}
