package copyengine

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GlobFilter restricts which file tasks a plan keeps, matching relative paths
// against a doublestar pattern. Directory tasks always pass so parents still
// exist for whatever does match.
type GlobFilter struct {
	normalizedPattern string
	isEmpty           bool
}

// NewGlobFilter creates a filter for the given pattern.
// An empty pattern matches every file.
func NewGlobFilter(pattern string) *GlobFilter {
	return &GlobFilter{
		normalizedPattern: strings.ToLower(pattern),
		isEmpty:           pattern == "",
	}
}

// ShouldInclude reports whether the file at the given relative path should be
// copied. Matching is case-insensitive and uses forward slashes regardless of
// platform.
func (f *GlobFilter) ShouldInclude(relativePath string) bool {
	if f.isEmpty {
		return true
	}

	normalizedPath := strings.ToLower(filepath.ToSlash(relativePath))

	matched, err := doublestar.Match(f.normalizedPattern, normalizedPath)
	if err != nil {
		// If pattern is invalid, don't match
		return false
	}

	return matched
}

// Apply filters a task list, keeping all directory tasks and only the file
// tasks the pattern matches.
func (f *GlobFilter) Apply(tasks []*CopyTask) []*CopyTask {
	if f.isEmpty {
		return tasks
	}

	filtered := make([]*CopyTask, 0, len(tasks))

	for _, task := range tasks {
		if task.Kind == KindDir || f.ShouldInclude(task.RelativePath) {
			filtered = append(filtered, task)
		}
	}

	return filtered
}
