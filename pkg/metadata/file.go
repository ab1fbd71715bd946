package metadata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// bundle is the on-disk YAML shape for one entity: base fields plus the
// optional override, behavior, workflow and permission sections.
type bundle struct {
	Entity      string            `yaml:"entity"`
	Fields      []Field           `yaml:"fields"`
	Overrides   []FieldOverride   `yaml:"overrides,omitempty"`
	Behaviors   []BehaviorSnippet `yaml:"behaviors,omitempty"`
	Workflow    *Workflow         `yaml:"workflow,omitempty"`
	Permissions []PermissionRule  `yaml:"permissions,omitempty"`
}

// FileSource reads entity metadata bundles from a filesystem. Each entity
// lives in `<underscored-name>.yaml` under the root. Bundles are re-read on
// every fetch so callers always observe the live schema.
type FileSource struct {
	fsys fs.FS
}

var _ Source = (*FileSource)(nil)

// NewFileSource wraps an fs.FS holding entity bundles.
func NewFileSource(fsys fs.FS) *FileSource {
	return &FileSource{fsys: fsys}
}

// NewDirSource is a convenience over NewFileSource for a directory path.
func NewDirSource(dir string) *FileSource {
	return &FileSource{fsys: os.DirFS(dir)}
}

func (s *FileSource) load(ctx context.Context, entity string) (*bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.fsys == nil {
		return nil, errors.New("metadata: file source is not configured")
	}
	entity = strings.TrimSpace(entity)
	if entity == "" {
		return nil, errors.New("metadata: entity name is required")
	}

	name := EntitySlug(entity) + ".yaml"
	data, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, unknownEntity(entity)
	}
	if err != nil {
		return nil, fmt.Errorf("metadata: read bundle %q: %w", name, err)
	}

	var b bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("metadata: decode bundle %q: %w", name, err)
	}
	if b.Entity != "" && !strings.EqualFold(b.Entity, entity) {
		return nil, fmt.Errorf("metadata: bundle %q declares entity %q, want %q", name, b.Entity, entity)
	}
	return &b, nil
}

func (s *FileSource) FetchFieldList(ctx context.Context, entity string) ([]Field, error) {
	b, err := s.load(ctx, entity)
	if err != nil {
		return nil, err
	}
	return b.Fields, nil
}

func (s *FileSource) FetchOverrides(ctx context.Context, entity string) ([]FieldOverride, error) {
	b, err := s.load(ctx, entity)
	if err != nil {
		return nil, err
	}
	return b.Overrides, nil
}

func (s *FileSource) FetchClientBehavior(ctx context.Context, entity string) ([]BehaviorSnippet, error) {
	b, err := s.load(ctx, entity)
	if err != nil {
		return nil, err
	}
	return b.Behaviors, nil
}

func (s *FileSource) FetchWorkflow(ctx context.Context, entity string) (*Workflow, error) {
	b, err := s.load(ctx, entity)
	if err != nil {
		return nil, err
	}
	return b.Workflow, nil
}

func (s *FileSource) FetchPermissions(ctx context.Context, entity string) ([]PermissionRule, error) {
	b, err := s.load(ctx, entity)
	if err != nil {
		return nil, err
	}
	return b.Permissions, nil
}
