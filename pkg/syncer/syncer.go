package syncer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Ravana-indus/deskgen/pkg/gen"
)

// Strategy governs how aggressively a sync may alter existing files.
type Strategy string

const (
	// StrategyRespectManual replaces owned-region content only; everything
	// else in an existing file, including orphaned regions, stays untouched.
	StrategyRespectManual Strategy = "respect-manual"
	// StrategyOverwriteAuto replaces owned regions and removes regions the
	// fresh artifact no longer produces. Non-owned content is still kept.
	StrategyOverwriteAuto Strategy = "overwrite-auto"
)

// ParseStrategy normalizes a strategy name, defaulting empty input to
// respect-manual.
func ParseStrategy(raw string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return StrategyRespectManual, nil
	case StrategyRespectManual:
		return StrategyRespectManual, nil
	case StrategyOverwriteAuto:
		return StrategyOverwriteAuto, nil
	default:
		return "", fmt.Errorf("syncer: unknown strategy %q", raw)
	}
}

// Status is the per-file outcome of a sync.
type Status string

const (
	StatusCreated   Status = "created"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
	StatusConflict  Status = "conflict"
	// StatusFailed marks a filesystem failure, as opposed to a merge
	// conflict; the destination state for that file is unknown.
	StatusFailed Status = "failed"
)

// Result is the outcome for one artifact. Region names the offending region
// for conflicts and Err carries the underlying failure when there is one.
type Result struct {
	Path   string `json:"path"`
	Status Status `json:"status"`
	Region string `json:"region,omitempty"`
	Reason string `json:"reason,omitempty"`
	Err    error  `json:"-"`
}

// EngineOption configures the sync engine.
type EngineOption func(*Engine)

// WithLogger injects a structured logger; defaults to a no-op logger.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine applies artifacts to a destination tree. It is stateless between
// Sync calls and safe to reuse.
type Engine struct {
	logger *zap.Logger
}

// NewEngine constructs a sync engine.
func NewEngine(options ...EngineOption) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Sync writes every artifact under destRoot, one result per artifact. A
// conflict or write failure never aborts the run; remaining artifacts are
// still processed and all outcomes are surfaced together.
func (e *Engine) Sync(ctx context.Context, artifacts []gen.Artifact, destRoot string, strategy Strategy) ([]Result, error) {
	if strings.TrimSpace(destRoot) == "" {
		return nil, errors.New("syncer: destination root is required")
	}
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}
	if strategy == "" {
		strategy = StrategyRespectManual
	}

	results := make([]Result, 0, len(artifacts))
	for _, artifact := range artifacts {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := e.apply(artifact, destRoot, strategy)
		e.logResult(result)
		results = append(results, result)
	}
	return results, nil
}

func (e *Engine) apply(artifact gen.Artifact, destRoot string, strategy Strategy) Result {
	target := filepath.Join(destRoot, filepath.FromSlash(artifact.RelativePath))

	existing, err := os.ReadFile(target)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if writeErr := writeFile(target, artifact.Content); writeErr != nil {
			fsErr := &FileSystemError{Path: artifact.RelativePath, Op: "write", Err: writeErr}
			return Result{Path: artifact.RelativePath, Status: StatusFailed, Reason: fsErr.Error(), Err: fsErr}
		}
		return Result{Path: artifact.RelativePath, Status: StatusCreated}
	case err != nil:
		fsErr := &FileSystemError{Path: artifact.RelativePath, Op: "read", Err: err}
		return Result{Path: artifact.RelativePath, Status: StatusFailed, Reason: fsErr.Error(), Err: fsErr}
	}

	merged, result := merge(string(existing), artifact, strategy)
	if result.Status == StatusConflict {
		return result
	}

	if merged == string(existing) {
		result.Status = StatusUnchanged
		return result
	}
	if writeErr := writeFile(target, merged); writeErr != nil {
		fsErr := &FileSystemError{Path: artifact.RelativePath, Op: "write", Err: writeErr}
		return Result{Path: artifact.RelativePath, Status: StatusFailed, Reason: fsErr.Error(), Err: fsErr}
	}
	result.Status = StatusUpdated
	return result
}

// merge splices the artifact's owned regions into the existing content.
// Manual text between regions is carried over verbatim; regions new to the
// artifact are appended at the end of the file.
func merge(existing string, artifact gen.Artifact, strategy Strategy) (string, Result) {
	result := Result{Path: artifact.RelativePath}

	existingRegions, err := gen.ParseRegions(existing)
	if err != nil {
		var markerErr *gen.MarkerError
		region := ""
		if errors.As(err, &markerErr) {
			region = markerErr.Region
		}
		conflict := &MergeConflictError{Path: artifact.RelativePath, Region: region, Err: err}
		return "", Result{
			Path:   artifact.RelativePath,
			Status: StatusConflict,
			Region: region,
			Reason: conflict.Error(),
			Err:    conflict,
		}
	}

	freshRegions, err := gen.ParseRegions(artifact.Content)
	if err != nil {
		conflict := &MergeConflictError{Path: artifact.RelativePath, Err: fmt.Errorf("artifact content is malformed: %w", err)}
		return "", Result{
			Path:   artifact.RelativePath,
			Status: StatusConflict,
			Reason: conflict.Error(),
			Err:    conflict,
		}
	}

	freshLines := strings.Split(artifact.Content, "\n")
	blocks := make(map[string][]string, len(freshRegions))
	order := make([]string, 0, len(freshRegions))
	for _, r := range freshRegions {
		blocks[r.Name] = freshLines[r.StartLine : r.EndLine+1]
		order = append(order, r.Name)
	}

	var (
		out     []string
		orphans []string
		used    = make(map[string]bool, len(existingRegions))
	)

	existingLines := strings.Split(existing, "\n")
	cursor := 0
	for _, r := range existingRegions {
		out = append(out, existingLines[cursor:r.StartLine]...)
		if block, ok := blocks[r.Name]; ok {
			out = append(out, block...)
			used[r.Name] = true
		} else if strategy == StrategyRespectManual {
			out = append(out, existingLines[r.StartLine:r.EndLine+1]...)
			orphans = append(orphans, r.Name)
		}
		cursor = r.EndLine + 1
	}
	out = append(out, existingLines[cursor:]...)

	for _, name := range order {
		if used[name] {
			continue
		}
		if len(out) > 0 && out[len(out)-1] != "" {
			out = append(out, "")
		}
		out = append(out, blocks[name]...)
	}

	if len(orphans) > 0 {
		result.Region = orphans[0]
		result.Reason = fmt.Sprintf("orphaned regions left in place: %s", strings.Join(orphans, ", "))
	}
	return strings.Join(out, "\n"), result
}

func writeFile(target, content string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, []byte(content), 0o644)
}

func (e *Engine) logResult(result Result) {
	fields := []zap.Field{
		zap.String("path", result.Path),
		zap.String("status", string(result.Status)),
	}
	if result.Reason != "" {
		fields = append(fields, zap.String("reason", result.Reason))
	}
	switch result.Status {
	case StatusConflict, StatusFailed:
		e.logger.Warn("sync result", fields...)
	default:
		e.logger.Debug("sync result", fields...)
	}
}
