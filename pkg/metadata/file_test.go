package metadata_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/Ravana-indus/deskgen/pkg/metadata"
)

const salesOrderBundle = `entity: Sales Order
fields:
  - fieldname: customer
    label: Customer
    fieldtype: Link
    child_entity: Customer
    required: true
    in_list_view: true
    list_index: 1
  - fieldname: items
    label: Items
    fieldtype: Table
    child_entity: Sales Order Item
overrides:
  - fieldname: customer
    label: Buyer
behaviors:
  - name: total_refresh
    event: change
    fieldname: items
    source: sales_order/total_refresh.js
workflow:
  name: Order Approval
  states: [Draft, Submitted]
  transitions:
    - from_state: Draft
      action: Submit
      to_state: Submitted
permissions:
  - role: Sales User
    read: true
    write: true
`

func salesOrderFS() fstest.MapFS {
	return fstest.MapFS{
		"sales_order.yaml": &fstest.MapFile{Data: []byte(salesOrderBundle)},
	}
}

func TestFileSourceFetchFieldList(t *testing.T) {
	t.Parallel()

	source := metadata.NewFileSource(salesOrderFS())
	fields, err := source.FetchFieldList(context.Background(), "Sales Order")
	if err != nil {
		t.Fatalf("FetchFieldList() error = %v", err)
	}

	want := []metadata.Field{
		{
			FieldName:   "customer",
			Label:       "Customer",
			FieldType:   metadata.FieldTypeLink,
			ChildEntity: "Customer",
			Required:    true,
			InListView:  true,
			ListIndex:   1,
		},
		{
			FieldName:   "items",
			Label:       "Items",
			FieldType:   metadata.FieldTypeTable,
			ChildEntity: "Sales Order Item",
		},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestFileSourceFetchOtherKinds(t *testing.T) {
	t.Parallel()

	source := metadata.NewFileSource(salesOrderFS())
	ctx := context.Background()

	overrides, err := source.FetchOverrides(ctx, "Sales Order")
	if err != nil {
		t.Fatalf("FetchOverrides() error = %v", err)
	}
	if len(overrides) != 1 || overrides[0].Label == nil || *overrides[0].Label != "Buyer" {
		t.Errorf("overrides = %+v", overrides)
	}

	behaviors, err := source.FetchClientBehavior(ctx, "Sales Order")
	if err != nil {
		t.Fatalf("FetchClientBehavior() error = %v", err)
	}
	if len(behaviors) != 1 || behaviors[0].Name != "total_refresh" {
		t.Errorf("behaviors = %+v", behaviors)
	}

	workflow, err := source.FetchWorkflow(ctx, "Sales Order")
	if err != nil {
		t.Fatalf("FetchWorkflow() error = %v", err)
	}
	if workflow == nil || workflow.Name != "Order Approval" || len(workflow.Transitions) != 1 {
		t.Errorf("workflow = %+v", workflow)
	}

	permissions, err := source.FetchPermissions(ctx, "Sales Order")
	if err != nil {
		t.Fatalf("FetchPermissions() error = %v", err)
	}
	if len(permissions) != 1 || permissions[0].Role != "Sales User" {
		t.Errorf("permissions = %+v", permissions)
	}
}

func TestFileSourceUnknownEntity(t *testing.T) {
	t.Parallel()

	source := metadata.NewFileSource(salesOrderFS())
	_, err := source.FetchFieldList(context.Background(), "Missing")
	if !errors.Is(err, metadata.ErrUnknownEntity) {
		t.Errorf("error = %v, want ErrUnknownEntity", err)
	}
}

func TestFileSourceEntityMismatch(t *testing.T) {
	t.Parallel()

	source := metadata.NewFileSource(fstest.MapFS{
		"task.yaml": &fstest.MapFile{Data: []byte("entity: Invoice\nfields:\n  - fieldname: a\n    fieldtype: Data\n")},
	})
	if _, err := source.FetchFieldList(context.Background(), "Task"); err == nil {
		t.Error("expected error for bundle declaring a different entity")
	}
}

func TestFileSourceWorkflowAbsent(t *testing.T) {
	t.Parallel()

	source := metadata.NewFileSource(fstest.MapFS{
		"note.yaml": &fstest.MapFile{Data: []byte("entity: Note\nfields:\n  - fieldname: body\n    fieldtype: Text\n")},
	})
	workflow, err := source.FetchWorkflow(context.Background(), "Note")
	if err != nil {
		t.Fatalf("FetchWorkflow() error = %v", err)
	}
	if workflow != nil {
		t.Errorf("workflow = %+v, want nil", workflow)
	}
}
