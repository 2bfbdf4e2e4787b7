//nolint:varnamelen // Test files use idiomatic short variable names (t, g)
package copyengine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/tomn/supercopy/pkg/fileops"
)

func TestVerifyTaskDetectsCorruption(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	g.Expect(os.WriteFile(src, []byte("original content"), 0o644)).To(Succeed())
	g.Expect(os.WriteFile(dst, []byte("corrupted content"), 0o644)).To(Succeed())

	engine := New(src, dst, Options{Verify: true})
	task := &CopyTask{SourcePath: src, DestPath: dst, RelativePath: "src.txt", Kind: KindFile}

	status, err := engine.verifyTask(task)
	g.Expect(status).To(Equal(StatusVerifyMismatch))
	g.Expect(err.Error()).To(ContainSubstring("digest mismatch"))
}

func TestVerifyTaskAcceptsIdenticalFiles(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	g.Expect(os.WriteFile(src, []byte("same content"), 0o644)).To(Succeed())
	g.Expect(os.WriteFile(dst, []byte("same content"), 0o644)).To(Succeed())

	engine := New(src, dst, Options{Verify: true})
	task := &CopyTask{SourcePath: src, DestPath: dst, RelativePath: "src.txt", Kind: KindFile}

	status, err := engine.verifyTask(task)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(status).To(Equal(StatusSuccess))
}

func TestVerifyTaskUnreadableDestination(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	g.Expect(os.WriteFile(src, []byte("content"), 0o644)).To(Succeed())

	engine := New(src, dir, Options{Verify: true})
	task := &CopyTask{
		SourcePath:   src,
		DestPath:     filepath.Join(dir, "never-written.txt"),
		RelativePath: "src.txt",
		Kind:         KindFile,
	}

	// A destination that can't be read back is a transfer-level error,
	// not silent corruption.
	status, err := engine.verifyTask(task)
	g.Expect(status).To(Equal(StatusIOError))
	g.Expect(err).Should(HaveOccurred())
}

func TestClassifyCopyError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	cases := []struct {
		err  error
		want TaskStatus
	}{
		{fileops.ErrCopyCancelled, StatusCancelled},
		{fileops.ErrSizeMismatch, StatusSizeMismatch},
		{errors.New("read /src: input/output error"), StatusIOError},
	}

	for _, tc := range cases {
		status, _ := classifyCopyError(tc.err)
		g.Expect(status).To(Equal(tc.want))
	}
}
