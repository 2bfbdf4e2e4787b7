// Package fileops provides chunked file copying and streaming digests.
package fileops

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Exported constants.
const (
	// DefaultBufferSize is the chunk size used when the caller does not specify one (1 MiB)
	DefaultBufferSize = 1024 * 1024
	// DefaultDirPermissions is the default permission mode for created directories
	DefaultDirPermissions = 0o750
)

// Exported variables.
var (
	ErrCopyCancelled = errors.New("copy cancelled")
	ErrSizeMismatch  = errors.New("destination size does not match source")
)

// CopyStats contains byte and timing information about a copy operation
type CopyStats struct {
	BytesCopied int64
	ReadTime    time.Duration
	WriteTime   time.Duration
}

// ProgressCallback is called after each chunk is written.
// chunkBytes is the size of the chunk just written, written is the running total.
type ProgressCallback func(chunkBytes int64, written int64, totalBytes int64)

// CopyFile copies a file from src to dst in bufSize chunks, invoking progress
// after every chunk. A closed cancel channel aborts the copy between chunks.
// The partially written destination is left in place on failure; callers that
// want cleanup must do it themselves. The destination's size is checked against
// the source after the copy and ErrSizeMismatch is returned when they differ.
func CopyFile(src, dst string, bufSize int, progress ProgressCallback, cancel <-chan struct{}) (*CopyStats, error) {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	stats := &CopyStats{}

	sourceFile, err := os.Open(src) // #nosec G304 - file path is controlled by caller
	if err != nil {
		return stats, fmt.Errorf("failed to open source file %s: %w", src, err)
	}

	defer func() {
		_ = sourceFile.Close()
	}()

	sourceInfo, err := sourceFile.Stat()
	if err != nil {
		return stats, fmt.Errorf("failed to stat source file %s: %w", src, err)
	}

	destFile, err := os.Create(dst) // #nosec G304 - file path is controlled by caller
	if err != nil {
		return stats, fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}

	written, copyErr := copyLoop(sourceFile, destFile, stats, sourceInfo.Size(), bufSize, progress, cancel)
	stats.BytesCopied = written

	// Close before the size check so buffered writes are flushed.
	closeErr := destFile.Close()

	if copyErr != nil {
		return stats, fmt.Errorf("failed to copy %s to %s: %w", src, dst, copyErr)
	}

	if closeErr != nil {
		return stats, fmt.Errorf("failed to close destination file %s: %w", dst, closeErr)
	}

	// Catch truncation the write path didn't surface.
	destInfo, err := os.Stat(dst)
	if err != nil {
		return stats, fmt.Errorf("failed to stat destination file %s: %w", dst, err)
	}

	if destInfo.Size() != sourceInfo.Size() {
		return stats, fmt.Errorf("%s: %w (src=%d dst=%d)", dst, ErrSizeMismatch, sourceInfo.Size(), destInfo.Size())
	}

	// Preserve modification time
	err = os.Chtimes(dst, sourceInfo.ModTime(), sourceInfo.ModTime())
	if err != nil {
		return stats, fmt.Errorf("failed to preserve modification time for %s: %w", dst, err)
	}

	return stats, nil
}

// HashFile computes the SHA-256 digest of a file, streaming it through a
// bufSize buffer so memory use stays bounded for large files.
func HashFile(path string, bufSize int) (string, error) {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	file, err := os.Open(path) // #nosec G304 - file path is controlled by caller
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", path, err)
	}

	defer func() {
		_ = file.Close()
	}()

	hash := sha256.New()
	buf := make([]byte, bufSize)

	_, err = io.CopyBuffer(hash, file, buf)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s for hashing: %w", path, err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// EnsureDir creates the directory (and any missing parents) at path.
func EnsureDir(path string) error {
	err := os.MkdirAll(path, DefaultDirPermissions)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	return nil
}

// EnsureParentDir creates the parent directory of the given file path.
func EnsureParentDir(path string) error {
	return EnsureDir(filepath.Dir(path))
}

// checkCancellation checks if the copy operation has been cancelled.
func checkCancellation(cancel <-chan struct{}) error {
	if cancel == nil {
		return nil
	}

	select {
	case <-cancel:
		return ErrCopyCancelled
	default:
		return nil
	}
}

// copyLoop performs the chunked copy with progress tracking and read/write timing.
//
//nolint:lll // Long function signature with many parameters
func copyLoop(sourceFile, destFile *os.File, stats *CopyStats, sourceSize int64, bufSize int, progress ProgressCallback, cancel <-chan struct{}) (int64, error) {
	var written int64

	buf := make([]byte, bufSize)

	var (
		nr, nw int //nolint:varnamelen // nr/nw are idiomatic for bytes read/written
		err    error
	)

	for {
		err = checkCancellation(cancel)
		if err != nil {
			return written, err
		}

		readStart := time.Now()
		nr, err = sourceFile.Read(buf)
		stats.ReadTime += time.Since(readStart)

		if nr > 0 {
			writeStart := time.Now()
			nw, err = destFile.Write(buf[0:nr])
			stats.WriteTime += time.Since(writeStart)

			if err != nil {
				return written, fmt.Errorf("failed to write to destination: %w", err)
			}

			if nr != nw {
				return written, fmt.Errorf("short write: %w", io.ErrShortWrite)
			}

			written += int64(nw)

			if progress != nil {
				progress(int64(nw), written, sourceSize)
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return written, fmt.Errorf("failed to read from source: %w", err)
		}
	}

	return written, nil
}
