package metadata

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownEntity is returned by sources when the named entity does not
// exist. The contract builder maps it into a fetch failure for the whole
// build.
var ErrUnknownEntity = errors.New("metadata: unknown entity")

// Source is the pull interface the contract builder consumes. Implementations
// own transport concerns (timeouts, retries, auth); the compiler only issues
// single fetches and merges results by key, so call order never matters.
type Source interface {
	FetchFieldList(ctx context.Context, entity string) ([]Field, error)
	FetchOverrides(ctx context.Context, entity string) ([]FieldOverride, error)
	FetchClientBehavior(ctx context.Context, entity string) ([]BehaviorSnippet, error)
	// FetchWorkflow returns nil when the entity has no workflow.
	FetchWorkflow(ctx context.Context, entity string) (*Workflow, error)
	FetchPermissions(ctx context.Context, entity string) ([]PermissionRule, error)
}

func unknownEntity(entity string) error {
	return fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
}
