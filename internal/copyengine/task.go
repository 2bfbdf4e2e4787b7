package copyengine

import "time"

// TaskKind distinguishes directory-creation tasks from file-copy tasks.
type TaskKind int

const (
	// KindFile is a task that copies one regular file.
	KindFile TaskKind = iota
	// KindDir is a task that creates one destination directory.
	KindDir
)

// String returns the string representation of TaskKind
func (k TaskKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "unknown"
	}
}

// TaskStatus is the terminal state of a task.
type TaskStatus string

// Task status constants.
const (
	StatusSuccess        TaskStatus = "success"
	StatusIOError        TaskStatus = "io_error"
	StatusSizeMismatch   TaskStatus = "size_mismatch"
	StatusVerifyMismatch TaskStatus = "verify_mismatch"
	StatusCancelled      TaskStatus = "cancelled"
)

// Failed reports whether the status is a failure (cancellation is not one).
func (s TaskStatus) Failed() bool {
	return s == StatusIOError || s == StatusSizeMismatch || s == StatusVerifyMismatch
}

// CopyTask is one unit of copy work. Immutable once the planner creates it;
// consumed exactly once by a worker.
type CopyTask struct {
	SourcePath   string
	DestPath     string
	RelativePath string
	Size         int64
	Kind         TaskKind
}

// TaskResult records how one task finished. Created by the worker that ran the
// task and owned by the result collector afterwards.
type TaskResult struct {
	Task        *CopyTask
	Status      TaskStatus
	Err         error
	BytesCopied int64
	Duration    time.Duration
}
