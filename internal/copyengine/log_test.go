//nolint:varnamelen // Test files use idiomatic short variable names (t, g)
package copyengine

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
)

func TestCloseLogConcurrentWithLogging(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	logPath := filepath.Join(dir, "copy.log")

	engine := New(filepath.Join(dir, "src"), filepath.Join(dir, "dest"), Options{})
	g.Expect(engine.EnableFileLogging(logPath)).To(Succeed())

	// Workers keep logging while the log is closed out from under them.
	var wg sync.WaitGroup //nolint:varnamelen // wg is idiomatic for WaitGroup
	for worker := range 4 {
		wg.Go(func() {
			for i := range 100 {
				engine.logToFile(fmt.Sprintf("worker %d line %d", worker, i))
			}
		})
	}

	engine.CloseLog()
	wg.Wait()

	engine.logToFile("after close") // no-op once closed
	engine.CloseLog()               // idempotent

	content, err := os.ReadFile(logPath)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(string(content)).To(ContainSubstring("Copy log started"))
	g.Expect(string(content)).To(ContainSubstring("Copy log ended"))
}
