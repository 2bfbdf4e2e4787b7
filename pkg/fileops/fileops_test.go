//nolint:varnamelen // Test files use idiomatic short variable names (t, g)
package fileops_test

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/tomn/supercopy/pkg/fileops"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()

	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
}

func TestCopyFilePreservesContent(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	content := []byte("the quick brown fox jumps over the lazy dog")
	writeFile(t, src, content)

	stats, err := fileops.CopyFile(src, dst, 0, nil, nil)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(stats.BytesCopied).To(Equal(int64(len(content))))

	copied, err := os.ReadFile(dst)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(copied).To(Equal(content))
}

func TestCopyFileTinyBufferMatchesDefaultBuffer(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "big.bin")

	// 1 MiB of non-repeating-ish data
	content := make([]byte, 1024*1024)
	for i := range content {
		content[i] = byte(i * 7)
	}
	writeFile(t, src, content)

	tinyDst := filepath.Join(dir, "tiny.bin")
	defaultDst := filepath.Join(dir, "default.bin")

	_, err := fileops.CopyFile(src, tinyDst, 16, nil, nil)
	g.Expect(err).ShouldNot(HaveOccurred())

	_, err = fileops.CopyFile(src, defaultDst, 0, nil, nil)
	g.Expect(err).ShouldNot(HaveOccurred())

	tiny, err := os.ReadFile(tinyDst)
	g.Expect(err).ShouldNot(HaveOccurred())

	def, err := os.ReadFile(defaultDst)
	g.Expect(err).ShouldNot(HaveOccurred())

	// Buffer size affects only chunking, never the resulting bytes
	g.Expect(tiny).To(Equal(def))
	g.Expect(tiny).To(Equal(content))
}

func TestCopyFileProgressPerChunk(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	writeFile(t, src, []byte("0123456789")) // 10 bytes

	var chunks []int64
	var lastWritten int64

	progress := func(chunkBytes, written, total int64) {
		chunks = append(chunks, chunkBytes)
		lastWritten = written

		g.Expect(total).To(Equal(int64(10)))
		g.Expect(chunkBytes).To(BeNumerically("<=", 4))
	}

	stats, err := fileops.CopyFile(src, dst, 4, progress, nil)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(stats.BytesCopied).To(Equal(int64(10)))

	// 10 bytes through a 4-byte buffer is three chunks: 4+4+2
	g.Expect(chunks).To(HaveLen(3))
	g.Expect(lastWritten).To(Equal(int64(10)))

	var sum int64
	for _, c := range chunks {
		sum += c
	}
	g.Expect(sum).To(Equal(int64(10)))
}

func TestCopyFileMissingSource(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()

	_, err := fileops.CopyFile(filepath.Join(dir, "nope.txt"), filepath.Join(dir, "dst.txt"), 0, nil, nil)
	g.Expect(err).Should(HaveOccurred())
	g.Expect(os.IsNotExist(errors.Unwrap(err))).To(BeTrue())
}

func TestCopyFileCancelledLeavesPartialFile(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	writeFile(t, src, []byte("content"))

	cancel := make(chan struct{})
	close(cancel)

	_, err := fileops.CopyFile(src, dst, 0, nil, cancel)
	g.Expect(errors.Is(err, fileops.ErrCopyCancelled)).To(BeTrue())

	// No rollback: whatever was written stays in place
	g.Expect(dst).To(BeAnExistingFile())
}

func TestCopyFilePreservesModTime(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	writeFile(t, src, []byte("content"))

	modTime := time.Date(2021, 6, 15, 12, 30, 0, 0, time.UTC)
	g.Expect(os.Chtimes(src, modTime, modTime)).To(Succeed())

	_, err := fileops.CopyFile(src, dst, 0, nil, nil)
	g.Expect(err).ShouldNot(HaveOccurred())

	info, err := os.Stat(dst)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(info.ModTime().Equal(modTime)).To(BeTrue())
}

func TestHashFileMatchesDirectDigest(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	content := []byte("content worth hashing, long enough to span tiny buffers")
	writeFile(t, path, content)

	want := sha256.Sum256(content)

	got, err := fileops.HashFile(path, 0)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(got).To(Equal(hex.EncodeToString(want[:])))

	// Digest is independent of the streaming buffer size
	gotTiny, err := fileops.HashFile(path, 8)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(gotTiny).To(Equal(got))
}

func TestHashFileMissing(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := fileops.HashFile(filepath.Join(t.TempDir(), "missing"), 0)
	g.Expect(err).Should(HaveOccurred())
}

func TestEnsureDirIdempotent(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	g.Expect(fileops.EnsureDir(dir)).To(Succeed())
	g.Expect(fileops.EnsureDir(dir)).To(Succeed())
	g.Expect(dir).To(BeADirectory())
}
