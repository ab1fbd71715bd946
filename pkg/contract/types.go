package contract

import (
	"fmt"
)

// UIContract is the normalized, generator-agnostic description of an entity's
// UI: what the list shows, how the form is laid out, who may do what, and
// which workflow actions exist.
type UIContract struct {
	EntityName      string                   `json:"entityName"`
	Preset          StylePreset              `json:"preset"`
	ListSection     []ListColumn             `json:"listSection"`
	FormSections    []FormSection            `json:"formSections"`
	ChildTables     map[string]ChildFragment `json:"childTables,omitempty"`
	Permissions     map[string]Capability    `json:"permissions,omitempty"`
	WorkflowActions []WorkflowAction         `json:"workflowActions,omitempty"`
	Behaviors       []Behavior               `json:"behaviors,omitempty"`
	RealtimeTopic   string                   `json:"realtimeTopic"`
	Warnings        []Warning                `json:"warnings,omitempty"`
}

// ListColumn describes one list-view column, ordered by declared display
// index.
type ListColumn struct {
	FieldName string `json:"fieldName"`
	FieldType string `json:"fieldType"`
	Label     string `json:"label"`
}

// FormSection groups consecutive fields between section breaks.
type FormSection struct {
	Title  string      `json:"title,omitempty"`
	Fields []FieldSpec `json:"fields"`
}

// FieldSpec is a single form field after overrides and dependency validation.
type FieldSpec struct {
	FieldName string   `json:"fieldName"`
	FieldType string   `json:"fieldType"`
	Label     string   `json:"label"`
	Required  bool     `json:"required,omitempty"`
	ReadOnly  bool     `json:"readOnly,omitempty"`
	Options   []string `json:"options,omitempty"`
	Default   string   `json:"default,omitempty"`

	DependsOn          string `json:"dependsOn,omitempty"`
	MandatoryDependsOn string `json:"mandatoryDependsOn,omitempty"`
	ReadOnlyDependsOn  string `json:"readOnlyDependsOn,omitempty"`
}

// ChildFragment is the shallow contract for a table-type field: the child
// entity's own field list and nothing below it. Depth is capped at one so
// mutually referencing schemas cannot recurse.
type ChildFragment struct {
	EntityName string      `json:"entityName"`
	Fields     []FieldSpec `json:"fields"`
}

// Capability is the effective CRUD grant for one role after merging all
// applicable permission rules.
type Capability struct {
	Read   bool `json:"read"`
	Write  bool `json:"write"`
	Create bool `json:"create"`
	Delete bool `json:"delete"`
	Level  int  `json:"level"`
}

// WorkflowAction is one transition button: perform Action while in FromState
// to reach ToState.
type WorkflowAction struct {
	FromState string `json:"fromState"`
	Action    string `json:"action"`
	ToState   string `json:"toState"`
}

// Behavior is a client-side hook reference carried through to the behavior
// shim artifact. The compiler treats the source as an opaque reference and
// never evaluates it.
type Behavior struct {
	Name      string `json:"name"`
	Event     string `json:"event"`
	FieldName string `json:"fieldName,omitempty"`
	Source    string `json:"source"`
}

// Warning is a non-fatal build problem attached to the entity, field or
// region it concerns.
type Warning struct {
	Entity  string `json:"entity"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Field != "" {
		return fmt.Sprintf("%s.%s: %s", w.Entity, w.Field, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Entity, w.Message)
}

// MetadataFetchError aborts a build: the collaborator was unreachable or the
// entity is unknown. No partial contract is ever returned alongside it.
type MetadataFetchError struct {
	Entity string
	Err    error
}

func (e *MetadataFetchError) Error() string {
	return fmt.Sprintf("contract: fetch metadata for %q: %v", e.Entity, e.Err)
}

func (e *MetadataFetchError) Unwrap() error { return e.Err }

// ContractValidationError marks a structurally unusable contract, such as an
// entity with zero fields.
type ContractValidationError struct {
	Entity string
	Reason string
}

func (e *ContractValidationError) Error() string {
	return fmt.Sprintf("contract: invalid contract for %q: %s", e.Entity, e.Reason)
}
