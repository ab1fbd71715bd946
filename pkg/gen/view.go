package gen

import (
	"fmt"
	"sort"

	"github.com/Ravana-indus/deskgen/pkg/contract"
	"github.com/Ravana-indus/deskgen/pkg/metadata"
)

// widgets maps schema field types to the client-side widget each one renders
// as. Types outside this table fall back to a plain text input.
var widgets = map[string]string{
	string(metadata.FieldTypeData):     "text",
	string(metadata.FieldTypeText):     "textarea",
	string(metadata.FieldTypeInt):      "number",
	string(metadata.FieldTypeFloat):    "number",
	string(metadata.FieldTypeCurrency): "currency",
	string(metadata.FieldTypeCheck):    "checkbox",
	string(metadata.FieldTypeSelect):   "select",
	string(metadata.FieldTypeDate):     "date",
	string(metadata.FieldTypeDatetime): "datetime",
	string(metadata.FieldTypeLink):     "link",
	string(metadata.FieldTypeTable):    "table",
	string(metadata.FieldTypeAttach):   "attach",
}

// buildView flattens a contract into the template context. Maps keyed by
// field name or role are converted to key-sorted slices so rendering never
// depends on map iteration order.
func buildView(c contract.UIContract, slug string) (map[string]any, []contract.Warning) {
	var warnings []contract.Warning

	widgetFor := func(fieldName, fieldType string) string {
		if w, ok := widgets[fieldType]; ok {
			return w
		}
		warnings = append(warnings, contract.Warning{
			Entity:  c.EntityName,
			Field:   fieldName,
			Message: fmt.Sprintf("unknown field type %q, falling back to text widget", fieldType),
		})
		return "text"
	}

	columns := make([]any, 0, len(c.ListSection))
	for _, col := range c.ListSection {
		columns = append(columns, map[string]any{
			"fieldName": col.FieldName,
			"fieldType": col.FieldType,
			"label":     col.Label,
			"widget":    widgetFor(col.FieldName, col.FieldType),
		})
	}

	sections := make([]any, 0, len(c.FormSections))
	for _, section := range c.FormSections {
		fields := make([]any, 0, len(section.Fields))
		for _, f := range section.Fields {
			fields = append(fields, fieldView(f, widgetFor))
		}
		sections = append(sections, map[string]any{
			"title":  section.Title,
			"fields": fields,
		})
	}

	childNames := make([]string, 0, len(c.ChildTables))
	for name := range c.ChildTables {
		childNames = append(childNames, name)
	}
	sort.Strings(childNames)

	childTables := make([]any, 0, len(childNames))
	for _, name := range childNames {
		fragment := c.ChildTables[name]
		fields := make([]any, 0, len(fragment.Fields))
		for _, f := range fragment.Fields {
			fields = append(fields, fieldView(f, widgetFor))
		}
		childTables = append(childTables, map[string]any{
			"fieldName":  name,
			"entityName": fragment.EntityName,
			"fields":     fields,
		})
	}

	roles := make([]string, 0, len(c.Permissions))
	for role := range c.Permissions {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	permissions := make([]any, 0, len(roles))
	for _, role := range roles {
		capability := c.Permissions[role]
		permissions = append(permissions, map[string]any{
			"role":   role,
			"read":   capability.Read,
			"write":  capability.Write,
			"create": capability.Create,
			"delete": capability.Delete,
			"level":  capability.Level,
		})
	}

	workflowActions := make([]any, 0, len(c.WorkflowActions))
	for _, action := range c.WorkflowActions {
		workflowActions = append(workflowActions, map[string]any{
			"fromState": action.FromState,
			"action":    action.Action,
			"toState":   action.ToState,
		})
	}

	behaviors := make([]any, 0, len(c.Behaviors))
	for _, behavior := range c.Behaviors {
		behaviors = append(behaviors, map[string]any{
			"name":      behavior.Name,
			"event":     behavior.Event,
			"fieldName": behavior.FieldName,
			"source":    behavior.Source,
		})
	}

	tokens := contract.PresetTokens(c.Preset)
	if tokens == nil {
		tokens = contract.PresetTokens(contract.PresetPlain)
	}

	view := map[string]any{
		"entity":          c.EntityName,
		"slug":            slug,
		"preset":          string(c.Preset),
		"tokens":          tokens,
		"topic":           c.RealtimeTopic,
		"columns":         columns,
		"sections":        sections,
		"childTables":     childTables,
		"permissions":     permissions,
		"workflowActions": workflowActions,
		"behaviors":       behaviors,
	}
	return view, warnings
}

func fieldView(f contract.FieldSpec, widgetFor func(fieldName, fieldType string) string) map[string]any {
	options := f.Options
	if options == nil {
		options = []string{}
	}
	return map[string]any{
		"fieldName":          f.FieldName,
		"fieldType":          f.FieldType,
		"label":              f.Label,
		"widget":             widgetFor(f.FieldName, f.FieldType),
		"required":           f.Required,
		"readOnly":           f.ReadOnly,
		"options":            options,
		"default":            f.Default,
		"dependsOn":          f.DependsOn,
		"mandatoryDependsOn": f.MandatoryDependsOn,
		"readOnlyDependsOn":  f.ReadOnlyDependsOn,
	}
}
