package copyengine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// Exported variables.
var (
	ErrSourceNotFound     = errors.New("source path does not exist")
	ErrInvalidDestination = errors.New("destination path is not usable")
)

// Plan walks the source tree and produces the complete task list before any
// copying starts. Planning is pure: it never creates directories or touches the
// destination, so a planning failure leaves no partial state behind.
//
// Directory tasks for a subtree always precede the file tasks under it, which
// is what lets the engine create parents before any file copy needs them.
func Plan(source, dest string) ([]*CopyTask, error) {
	sourceInfo, err := os.Stat(source)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, source)
	}

	if err != nil {
		return nil, fmt.Errorf("cannot access source path %s: %w", source, err)
	}

	if sourceInfo.IsDir() {
		return planDirectory(source, dest)
	}

	return planSingleFile(source, sourceInfo.Size(), dest)
}

// planSingleFile plans the copy of one regular file. If the destination is an
// existing directory the file is copied into it, keeping its base name;
// otherwise the destination path is used literally.
func planSingleFile(source string, size int64, dest string) ([]*CopyTask, error) {
	destPath := dest

	destInfo, err := os.Stat(dest)
	switch {
	case err == nil && destInfo.IsDir():
		destPath = filepath.Join(dest, filepath.Base(source))
	case errors.Is(err, syscall.ENOTDIR):
		// A path component of the destination is an existing file.
		return nil, fmt.Errorf("%w: %s has a file where a directory is needed", ErrInvalidDestination, dest)
	case err != nil && !os.IsNotExist(err):
		return nil, fmt.Errorf("cannot access destination path %s: %w", dest, err)
	}

	tasks := make([]*CopyTask, 0, 2)

	// The literal destination may name a path whose parent doesn't exist yet.
	parent := filepath.Dir(destPath)
	if _, statErr := os.Stat(parent); os.IsNotExist(statErr) {
		tasks = append(tasks, &CopyTask{
			SourcePath:   source,
			DestPath:     parent,
			RelativePath: filepath.Base(parent),
			Kind:         KindDir,
		})
	}

	tasks = append(tasks, &CopyTask{
		SourcePath:   source,
		DestPath:     destPath,
		RelativePath: filepath.Base(destPath),
		Size:         size,
		Kind:         KindFile,
	})

	return tasks, nil
}

// planDirectory plans a recursive directory copy. If the destination exists as
// a directory the source tree is copied into it under the source's base name;
// if the destination names an existing file the plan fails.
func planDirectory(source, dest string) ([]*CopyTask, error) {
	destRoot := dest

	destInfo, err := os.Stat(dest)
	switch {
	case err == nil && !destInfo.IsDir():
		return nil, fmt.Errorf("%w: %s is a file, cannot copy a directory onto it", ErrInvalidDestination, dest)
	case err == nil:
		destRoot = filepath.Join(dest, filepath.Base(source))
	case errors.Is(err, syscall.ENOTDIR):
		return nil, fmt.Errorf("%w: %s has a file where a directory is needed", ErrInvalidDestination, dest)
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("cannot access destination path %s: %w", dest, err)
	}

	tasks := []*CopyTask{{
		SourcePath:   source,
		DestPath:     destRoot,
		RelativePath: ".",
		Kind:         KindDir,
	}}

	// filepath.Walk visits lexically in pre-order, so every directory is
	// emitted before anything beneath it.
	err = filepath.Walk(source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walk error at %s: %w", path, err)
		}

		relPath, err := filepath.Rel(source, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}

		// Skip the root directory itself
		if relPath == "." {
			return nil
		}

		task := &CopyTask{
			SourcePath:   path,
			DestPath:     filepath.Join(destRoot, relPath),
			RelativePath: relPath,
		}

		switch {
		case info.IsDir():
			task.Kind = KindDir
		case info.Mode().IsRegular():
			task.Kind = KindFile
			task.Size = info.Size()
		default:
			// Sockets, devices and other irregular files are not copyable.
			return nil
		}

		tasks = append(tasks, task)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to plan copy of %s: %w", source, err)
	}

	return tasks, nil
}
