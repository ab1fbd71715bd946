package metadata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Desk extensions understood on OpenAPI component schemas. They carry the
// list/form metadata an OpenAPI document has no native notion of.
const (
	extLabel              = "x-desk-label"
	extInListView         = "x-desk-in-list-view"
	extListIndex          = "x-desk-list-index"
	extReadOnly           = "x-desk-read-only"
	extHidden             = "x-desk-hidden"
	extSection            = "x-desk-section"
	extDependsOn          = "x-desk-depends-on"
	extMandatoryDependsOn = "x-desk-mandatory-depends-on"
	extReadOnlyDependsOn  = "x-desk-read-only-depends-on"
)

// OpenAPISource derives field descriptors from the component schemas of an
// OpenAPI document. Only the field list is available this way; overrides,
// behaviors, workflow and permissions come back empty.
type OpenAPISource struct {
	raw []byte
}

var _ Source = (*OpenAPISource)(nil)

// NewOpenAPISource wraps a raw OpenAPI document payload. The document is
// re-parsed on every fetch so the source never serves stale schema.
func NewOpenAPISource(raw []byte) *OpenAPISource {
	return &OpenAPISource{raw: raw}
}

func (s *OpenAPISource) FetchFieldList(ctx context.Context, entity string) ([]Field, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || len(s.raw) == 0 {
		return nil, errors.New("metadata: openapi source payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(s.raw)
	if err != nil {
		return nil, fmt.Errorf("metadata: load openapi document: %w", err)
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, unknownEntity(entity)
	}
	ref, ok := spec.Components.Schemas[entity]
	if !ok || ref == nil || ref.Value == nil {
		return nil, unknownEntity(entity)
	}

	schema := ref.Value
	requiredSet := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		requiredSet[name] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []Field
	for _, name := range names {
		prop := schema.Properties[name]
		if prop == nil {
			continue
		}
		// A section extension opens a new form section before the field.
		if prop.Value != nil {
			if title, ok := stringExtension(prop.Value.Extensions, extSection); ok {
				fields = append(fields, Field{
					FieldName: sectionFieldName(title),
					Label:     title,
					FieldType: FieldTypeSectionBreak,
				})
			}
		}
		field := fieldFromProperty(name, prop)
		_, field.Required = requiredSet[name]
		fields = append(fields, field)
	}
	return fields, nil
}

func (s *OpenAPISource) FetchOverrides(ctx context.Context, _ string) ([]FieldOverride, error) {
	return nil, ctx.Err()
}

func (s *OpenAPISource) FetchClientBehavior(ctx context.Context, _ string) ([]BehaviorSnippet, error) {
	return nil, ctx.Err()
}

func (s *OpenAPISource) FetchWorkflow(ctx context.Context, _ string) (*Workflow, error) {
	return nil, ctx.Err()
}

func (s *OpenAPISource) FetchPermissions(ctx context.Context, _ string) ([]PermissionRule, error) {
	return nil, ctx.Err()
}

func fieldFromProperty(name string, ref *openapi3.SchemaRef) Field {
	field := Field{FieldName: name}

	if ref.Value == nil {
		field.FieldType = FieldTypeLink
		field.ChildEntity = refSchemaName(ref.Ref)
		return field
	}

	src := ref.Value
	field.Label = src.Title
	field.Description = src.Description
	if s, ok := src.Default.(string); ok {
		field.Default = s
	}

	switch schemaType(src.Type) {
	case "integer":
		field.FieldType = FieldTypeInt
	case "number":
		field.FieldType = FieldTypeFloat
	case "boolean":
		field.FieldType = FieldTypeCheck
	case "array":
		field.FieldType = FieldTypeTable
		if src.Items != nil {
			field.ChildEntity = refSchemaName(src.Items.Ref)
		}
	case "object":
		field.FieldType = FieldTypeLink
		field.ChildEntity = refSchemaName(ref.Ref)
	default:
		field.FieldType = FieldTypeData
		switch src.Format {
		case "date":
			field.FieldType = FieldTypeDate
		case "date-time":
			field.FieldType = FieldTypeDatetime
		}
	}

	if len(src.Enum) > 0 {
		field.FieldType = FieldTypeSelect
		for _, option := range src.Enum {
			field.Options = append(field.Options, fmt.Sprint(option))
		}
	}

	applyDeskExtensions(&field, src.Extensions)
	return field
}

func applyDeskExtensions(field *Field, ext map[string]any) {
	if len(ext) == 0 {
		return
	}
	if label, ok := stringExtension(ext, extLabel); ok {
		field.Label = label
	}
	if v, ok := boolExtension(ext, extInListView); ok {
		field.InListView = v
	}
	if v, ok := intExtension(ext, extListIndex); ok {
		field.ListIndex = v
	}
	if v, ok := boolExtension(ext, extReadOnly); ok {
		field.ReadOnly = v
	}
	if v, ok := boolExtension(ext, extHidden); ok {
		field.Hidden = v
	}
	if v, ok := stringExtension(ext, extDependsOn); ok {
		field.DependsOn = v
	}
	if v, ok := stringExtension(ext, extMandatoryDependsOn); ok {
		field.MandatoryDependsOn = v
	}
	if v, ok := stringExtension(ext, extReadOnlyDependsOn); ok {
		field.ReadOnlyDependsOn = v
	}
}

func stringExtension(ext map[string]any, key string) (string, bool) {
	raw, ok := ext[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func boolExtension(ext map[string]any, key string) (bool, bool) {
	raw, ok := ext[key]
	if !ok {
		return false, false
	}
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(v)
		return parsed, err == nil
	default:
		return false, false
	}
}

func intExtension(ext map[string]any, key string) (int, bool) {
	raw, ok := ext[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		parsed, err := strconv.Atoi(v)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func schemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func refSchemaName(ref string) string {
	if ref == "" {
		return ""
	}
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

func sectionFieldName(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.ReplaceAll(slug, " ", "_")
	return "section_" + slug
}
