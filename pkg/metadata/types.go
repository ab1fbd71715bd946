package metadata

// FieldType enumerates the schema field kinds the contract builder
// understands. Unknown values are carried through and rendered with a
// generic fallback downstream.
type FieldType string

const (
	FieldTypeData         FieldType = "Data"
	FieldTypeText         FieldType = "Text"
	FieldTypeInt          FieldType = "Int"
	FieldTypeFloat        FieldType = "Float"
	FieldTypeCurrency     FieldType = "Currency"
	FieldTypeCheck        FieldType = "Check"
	FieldTypeSelect       FieldType = "Select"
	FieldTypeDate         FieldType = "Date"
	FieldTypeDatetime     FieldType = "Datetime"
	FieldTypeLink         FieldType = "Link"
	FieldTypeTable        FieldType = "Table"
	FieldTypeAttach       FieldType = "Attach"
	FieldTypeSectionBreak FieldType = "Section Break"
)

// Field is a raw field descriptor as supplied by the metadata source, before
// overrides are applied.
type Field struct {
	FieldName   string    `yaml:"fieldname" json:"fieldname"`
	Label       string    `yaml:"label" json:"label"`
	FieldType   FieldType `yaml:"fieldtype" json:"fieldtype"`
	Options     []string  `yaml:"options,omitempty" json:"options,omitempty"`
	ChildEntity string    `yaml:"child_entity,omitempty" json:"child_entity,omitempty"`
	Required    bool      `yaml:"required,omitempty" json:"required,omitempty"`
	ReadOnly    bool      `yaml:"read_only,omitempty" json:"read_only,omitempty"`
	Hidden      bool      `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	InListView  bool      `yaml:"in_list_view,omitempty" json:"in_list_view,omitempty"`
	ListIndex   int       `yaml:"list_index,omitempty" json:"list_index,omitempty"`
	Default     string    `yaml:"default,omitempty" json:"default,omitempty"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`

	DependsOn          string `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	MandatoryDependsOn string `yaml:"mandatory_depends_on,omitempty" json:"mandatory_depends_on,omitempty"`
	ReadOnlyDependsOn  string `yaml:"read_only_depends_on,omitempty" json:"read_only_depends_on,omitempty"`
}

// FieldOverride is a partial patch for a base field. Nil attributes inherit
// the base value; present attributes replace it.
type FieldOverride struct {
	FieldName string `yaml:"fieldname" json:"fieldname"`

	Label       *string    `yaml:"label,omitempty" json:"label,omitempty"`
	FieldType   *FieldType `yaml:"fieldtype,omitempty" json:"fieldtype,omitempty"`
	Options     []string   `yaml:"options,omitempty" json:"options,omitempty"`
	ChildEntity *string    `yaml:"child_entity,omitempty" json:"child_entity,omitempty"`
	Required    *bool      `yaml:"required,omitempty" json:"required,omitempty"`
	ReadOnly    *bool      `yaml:"read_only,omitempty" json:"read_only,omitempty"`
	Hidden      *bool      `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	InListView  *bool      `yaml:"in_list_view,omitempty" json:"in_list_view,omitempty"`
	ListIndex   *int       `yaml:"list_index,omitempty" json:"list_index,omitempty"`
	Default     *string    `yaml:"default,omitempty" json:"default,omitempty"`
	Description *string    `yaml:"description,omitempty" json:"description,omitempty"`

	DependsOn          *string `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	MandatoryDependsOn *string `yaml:"mandatory_depends_on,omitempty" json:"mandatory_depends_on,omitempty"`
	ReadOnlyDependsOn  *string `yaml:"read_only_depends_on,omitempty" json:"read_only_depends_on,omitempty"`
}

// Apply patches the base field in place. Any attribute present in the
// override replaces the base value; unspecified attributes are inherited.
func (o FieldOverride) Apply(base *Field) {
	if base == nil {
		return
	}
	if o.Label != nil {
		base.Label = *o.Label
	}
	if o.FieldType != nil {
		base.FieldType = *o.FieldType
	}
	if o.Options != nil {
		base.Options = append([]string(nil), o.Options...)
	}
	if o.ChildEntity != nil {
		base.ChildEntity = *o.ChildEntity
	}
	if o.Required != nil {
		base.Required = *o.Required
	}
	if o.ReadOnly != nil {
		base.ReadOnly = *o.ReadOnly
	}
	if o.Hidden != nil {
		base.Hidden = *o.Hidden
	}
	if o.InListView != nil {
		base.InListView = *o.InListView
	}
	if o.ListIndex != nil {
		base.ListIndex = *o.ListIndex
	}
	if o.Default != nil {
		base.Default = *o.Default
	}
	if o.Description != nil {
		base.Description = *o.Description
	}
	if o.DependsOn != nil {
		base.DependsOn = *o.DependsOn
	}
	if o.MandatoryDependsOn != nil {
		base.MandatoryDependsOn = *o.MandatoryDependsOn
	}
	if o.ReadOnlyDependsOn != nil {
		base.ReadOnlyDependsOn = *o.ReadOnlyDependsOn
	}
}

// BehaviorSnippet references a client-side behavior hook attached to a field
// event (change, focus, submit...). The generator binds snippets through the
// behavior shim; it never executes them.
type BehaviorSnippet struct {
	Name      string `yaml:"name" json:"name"`
	Event     string `yaml:"event" json:"event"`
	FieldName string `yaml:"fieldname,omitempty" json:"fieldname,omitempty"`
	Source    string `yaml:"source" json:"source"`
}

// Workflow describes the entity's state machine, if any.
type Workflow struct {
	Name        string       `yaml:"name" json:"name"`
	States      []string     `yaml:"states" json:"states"`
	Transitions []Transition `yaml:"transitions" json:"transitions"`
}

// Transition is a single allowed state change.
type Transition struct {
	FromState string `yaml:"from_state" json:"from_state"`
	Action    string `yaml:"action" json:"action"`
	ToState   string `yaml:"to_state" json:"to_state"`
	Role      string `yaml:"role,omitempty" json:"role,omitempty"`
}

// PermissionRule grants or denies CRUD capabilities to a role at a permission
// level. Later rules override earlier ones at the same level; an explicit
// deny at a higher level overrides grants below it.
type PermissionRule struct {
	Role   string `yaml:"role" json:"role"`
	Level  int    `yaml:"level,omitempty" json:"level,omitempty"`
	Read   bool   `yaml:"read,omitempty" json:"read,omitempty"`
	Write  bool   `yaml:"write,omitempty" json:"write,omitempty"`
	Create bool   `yaml:"create,omitempty" json:"create,omitempty"`
	Delete bool   `yaml:"delete,omitempty" json:"delete,omitempty"`
	Deny   bool   `yaml:"deny,omitempty" json:"deny,omitempty"`
}
