package syncer

import "fmt"

// MergeConflictError marks a destination file whose markers are corrupted or
// ambiguous. The file is reported as a conflict and left unmodified.
type MergeConflictError struct {
	Path   string
	Region string
	Err    error
}

func (e *MergeConflictError) Error() string {
	if e.Region != "" {
		return fmt.Sprintf("syncer: conflict in %s (region %q): %v", e.Path, e.Region, e.Err)
	}
	return fmt.Sprintf("syncer: conflict in %s: %v", e.Path, e.Err)
}

func (e *MergeConflictError) Unwrap() error { return e.Err }

// FileSystemError marks a read or write failure for one artifact. The sync
// continues with the remaining artifacts.
type FileSystemError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("syncer: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }
