package gen_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Ravana-indus/deskgen/pkg/contract"
	"github.com/Ravana-indus/deskgen/pkg/gen"
)

func taskContract() contract.UIContract {
	return contract.UIContract{
		EntityName:    "Task",
		Preset:        contract.PresetPlain,
		RealtimeTopic: "doc:task",
		ListSection: []contract.ListColumn{
			{FieldName: "title", FieldType: "Data", Label: "Title"},
			{FieldName: "status", FieldType: "Select", Label: "Status"},
		},
		FormSections: []contract.FormSection{
			{
				Fields: []contract.FieldSpec{
					{FieldName: "title", FieldType: "Data", Label: "Title", Required: true},
					{FieldName: "status", FieldType: "Select", Label: "Status", Options: []string{"Open", "Closed"}},
				},
			},
			{
				Title: "Details",
				Fields: []contract.FieldSpec{
					{FieldName: "due_date", FieldType: "Date", Label: "Due Date", DependsOn: "status == 'Open'"},
					{FieldName: "items", FieldType: "Table", Label: "Items"},
				},
			},
		},
		ChildTables: map[string]contract.ChildFragment{
			"items": {
				EntityName: "Task Item",
				Fields: []contract.FieldSpec{
					{FieldName: "description", FieldType: "Data", Label: "Description"},
				},
			},
		},
		Permissions: map[string]contract.Capability{
			"Manager":  {Read: true, Write: true, Create: true, Delete: true},
			"Employee": {Read: true, Level: 1},
		},
		WorkflowActions: []contract.WorkflowAction{
			{FromState: "Open", Action: "Close", ToState: "Closed"},
		},
		Behaviors: []contract.Behavior{
			{Name: "autofill", Event: "change", FieldName: "status", Source: "task/autofill.js"},
		},
	}
}

func newRenderer(t *testing.T) *gen.Renderer {
	t.Helper()
	r, err := gen.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return r
}

func TestRenderArtifactSet(t *testing.T) {
	t.Parallel()

	out, err := newRenderer(t).Render(context.Background(), taskContract())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var paths []string
	for _, artifact := range out.Artifacts {
		paths = append(paths, artifact.RelativePath)
	}
	want := []string{
		"pages/task/List.js",
		"pages/task/Form.js",
		"actions/task.js",
		"router/task.js",
		"lib/resource-client.js",
		"lib/behavior-shim.js",
		"lib/depends-eval.js",
		"lib/realtime.js",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("artifact paths mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDeterministic(t *testing.T) {
	t.Parallel()

	first, err := newRenderer(t).Render(context.Background(), taskContract())
	if err != nil {
		t.Fatalf("first Render() error = %v", err)
	}
	second, err := newRenderer(t).Render(context.Background(), taskContract())
	if err != nil {
		t.Fatalf("second Render() error = %v", err)
	}

	if diff := cmp.Diff(first.Artifacts, second.Artifacts); diff != "" {
		t.Errorf("renders differ (-first +second):\n%s", diff)
	}
}

func TestRenderMarkersBalanced(t *testing.T) {
	t.Parallel()

	out, err := newRenderer(t).Render(context.Background(), taskContract())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, artifact := range out.Artifacts {
		regions, err := gen.ParseRegions(artifact.Content)
		if err != nil {
			t.Errorf("%s: malformed markers: %v", artifact.RelativePath, err)
			continue
		}
		if len(regions) == 0 {
			t.Errorf("%s: no owned regions", artifact.RelativePath)
		}
		if len(regions) != len(artifact.Regions) {
			t.Errorf("%s: Regions lists %d names, content has %d", artifact.RelativePath, len(artifact.Regions), len(regions))
		}
	}
}

func TestRenderListContent(t *testing.T) {
	t.Parallel()

	out, err := newRenderer(t).Render(context.Background(), taskContract())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	list := findArtifact(t, out, "pages/task/List.js")
	for _, want := range []string{`"Title"`, `"Status"`, `"doc:task"`, "pageLength: 20"} {
		if !strings.Contains(list.Content, want) {
			t.Errorf("List.js missing %s", want)
		}
	}

	// Title precedes Status, matching contract column order.
	if strings.Index(list.Content, `"title"`) > strings.Index(list.Content, `"status"`) {
		t.Error("list columns rendered out of order")
	}
}

func TestRenderFormDependencies(t *testing.T) {
	t.Parallel()

	out, err := newRenderer(t).Render(context.Background(), taskContract())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	form := findArtifact(t, out, "pages/task/Form.js")
	if !strings.Contains(form.Content, `dependsOn: "status == 'Open'"`) {
		t.Error("Form.js missing dependency expression")
	}
	if !strings.Contains(form.Content, `"Task Item"`) {
		t.Error("Form.js missing child table entity")
	}
}

func TestRenderActionsModule(t *testing.T) {
	t.Parallel()

	out, err := newRenderer(t).Render(context.Background(), taskContract())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	actions := findArtifact(t, out, "actions/task.js")
	wantRegions := []string{"actions:permissions", "actions:crud", "actions:workflow", "actions:behaviors"}
	if diff := cmp.Diff(wantRegions, actions.Regions); diff != "" {
		t.Errorf("actions regions mismatch (-want +got):\n%s", diff)
	}

	// Default CRUD bindings ride next to the workflow transitions, gated by
	// the merged role capabilities.
	for _, want := range []string{
		`{ name: "create", capability: "create"`,
		`{ name: "save", capability: "write"`,
		`{ name: "delete", capability: "delete"`,
		"can(role, action.capability)",
		`fromState: "Open"`,
	} {
		if !strings.Contains(actions.Content, want) {
			t.Errorf("actions/task.js missing %s", want)
		}
	}
}

func TestRenderUnknownFieldTypeFallsBack(t *testing.T) {
	t.Parallel()

	c := taskContract()
	c.FormSections[0].Fields = append(c.FormSections[0].Fields, contract.FieldSpec{
		FieldName: "location",
		FieldType: "Geolocation",
		Label:     "Location",
	})

	out, err := newRenderer(t).Render(context.Background(), c)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	found := false
	for _, w := range out.Warnings {
		if w.Field == "location" && strings.Contains(w.Message, "Geolocation") {
			found = true
		}
	}
	if !found {
		t.Errorf("no warning for unknown field type, warnings = %v", out.Warnings)
	}

	form := findArtifact(t, out, "pages/task/Form.js")
	if !strings.Contains(form.Content, `fieldName: "location",`) {
		t.Error("unknown-type field dropped from form")
	}
}

func TestRenderEmptyEntity(t *testing.T) {
	t.Parallel()

	if _, err := newRenderer(t).Render(context.Background(), contract.UIContract{}); err == nil {
		t.Fatal("expected error for contract without entity name")
	}
}

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Task":          "task",
		"Sales Invoice": "sales_invoice",
		"HTTPEndpoint":  "http_endpoint",
	}
	for input, want := range tests {
		if got := gen.Slug(input); got != want {
			t.Errorf("Slug(%q) = %q, want %q", input, got, want)
		}
	}
}

func findArtifact(t *testing.T, out *gen.Output, path string) gen.Artifact {
	t.Helper()
	for _, artifact := range out.Artifacts {
		if artifact.RelativePath == path {
			return artifact
		}
	}
	t.Fatalf("artifact %s not rendered", path)
	return gen.Artifact{}
}
