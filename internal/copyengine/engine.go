// Package copyengine implements the concurrent bulk copy engine: planning,
// the worker pool, progress tracking, optional digest verification, and the
// final run summary.
package copyengine

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/tomn/supercopy/pkg/fileops"
)

// Options configures a copy run.
type Options struct {
	Workers    int    // concurrent workers; default is the logical core count
	BufferSize int    // copy chunk size in bytes; default 1 MiB
	Verify     bool   // SHA-256 verification of every copied file
	Pattern    string // optional glob restricting which files are copied
}

// Engine runs one source-to-destination copy operation. All state is scoped to
// a single run; create a new Engine for each operation.
type Engine struct {
	SourcePath string
	DestPath   string
	Workers    int
	BufferSize int
	Verify     bool
	Pattern    string
	Progress   *Progress

	emitter EventEmitter

	dirTasks  []*CopyTask
	fileTasks []*CopyTask

	results    *resultCollector
	cancelChan chan struct{}
	cancelOnce sync.Once

	logFile *os.File
	logMu   sync.Mutex
}

// New creates an engine for one copy operation. Zero-valued options fall back
// to defaults: logical core count workers and a 1 MiB buffer.
func New(source, dest string, opts Options) *Engine {
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	bufSize := opts.BufferSize
	if bufSize < 1 {
		bufSize = fileops.DefaultBufferSize
	}

	return &Engine{
		SourcePath: source,
		DestPath:   dest,
		Workers:    workers,
		BufferSize: bufSize,
		Verify:     opts.Verify,
		Pattern:    opts.Pattern,
		results:    newResultCollector(),
		cancelChan: make(chan struct{}),
	}
}

// SetEventEmitter sets the event emitter for UI communication.
// The emitter is optional - if nil, no events will be emitted.
func (e *Engine) SetEventEmitter(emitter EventEmitter) {
	e.emitter = emitter
}

// emit sends an event if an emitter is configured.
// Safe to call even when emitter is nil.
func (e *Engine) emit(event Event) {
	if e.emitter != nil {
		e.emitter.Emit(event)
	}
}

// Cancel stops the run cooperatively: no new tasks start and in-flight copies
// abort at the next chunk boundary. Safe to call more than once and from any
// goroutine.
func (e *Engine) Cancel() {
	e.cancelOnce.Do(func() {
		close(e.cancelChan)
	})
}

// Plan walks the source tree and fixes the task list and progress totals.
// Must be called before Run. A planning error is fatal to the whole run; no
// filesystem mutation has happened by the time it is returned.
func (e *Engine) Plan() error {
	e.emit(PlanStarted{Source: e.SourcePath, Dest: e.DestPath})

	tasks, err := Plan(e.SourcePath, e.DestPath)
	if err != nil {
		return err
	}

	tasks = NewGlobFilter(e.Pattern).Apply(tasks)

	var totalBytes int64

	for _, task := range tasks {
		switch task.Kind {
		case KindDir:
			e.dirTasks = append(e.dirTasks, task)
		case KindFile:
			e.fileTasks = append(e.fileTasks, task)
			totalBytes += task.Size
		}
	}

	e.Progress = NewProgress(len(e.fileTasks), totalBytes)

	e.logToFile(fmt.Sprintf("Plan: %d files (%d bytes), %d directories, %d workers, %d byte buffer, verify=%v",
		len(e.fileTasks), totalBytes, len(e.dirTasks), e.Workers, e.BufferSize, e.Verify))

	e.emit(PlanComplete{Files: len(e.fileTasks), Dirs: len(e.dirTasks), Bytes: totalBytes})

	return nil
}

// Run executes the planned tasks and blocks until every one has resolved.
// Directory tasks run first, synchronously and in planner order, so every
// parent exists before any file task is dispatched. File tasks then fan out
// over the worker pool. Individual task failures never abort the run; they
// are recorded in the summary, which is the only place they surface.
func (e *Engine) Run() (*Summary, error) {
	if e.Progress == nil {
		err := e.Plan()
		if err != nil {
			return nil, err
		}
	}

	start := time.Now()

	e.runDirTasks()
	e.runFileTasks()

	summary := e.results.summary(len(e.fileTasks), time.Since(start))

	e.logToFile(fmt.Sprintf("Run complete: %d succeeded, %d failed, %d cancelled, %d bytes in %s",
		summary.Succeeded, len(summary.Failed), summary.Cancelled, summary.BytesCopied, summary.Elapsed))

	e.emit(RunComplete{Summary: summary})

	return summary, nil
}

// runDirTasks creates destination directories in planner order. A failed
// directory task is recorded like any other failure; file tasks beneath it
// will then fail on their own and be recorded individually.
func (e *Engine) runDirTasks() {
	for _, task := range e.dirTasks {
		if e.Cancelled() {
			return
		}

		taskStart := time.Now()

		err := fileops.EnsureDir(task.DestPath)
		if err != nil {
			e.logToFile(fmt.Sprintf("  ✗ mkdir failed: %s: %v", task.RelativePath, err))
			e.results.add(&TaskResult{
				Task:     task,
				Status:   StatusIOError,
				Err:      err,
				Duration: time.Since(taskStart),
			})
		}
	}
}

// runFileTasks drains the file tasks through a bounded worker pool.
func (e *Engine) runFileTasks() {
	if len(e.fileTasks) == 0 {
		return
	}

	jobs := make(chan *CopyTask, len(e.fileTasks))

	numWorkers := e.Workers
	numWorkers = min(numWorkers, len(e.fileTasks))
	numWorkers = max(numWorkers, 1)

	var wg sync.WaitGroup //nolint:varnamelen // wg is idiomatic for WaitGroup
	for range numWorkers {
		wg.Go(func() {
			e.worker(jobs)
		})
	}

	// Feed the queue; stop enqueuing on cancellation and let in-flight
	// tasks finish.
	go func() {
		for _, task := range e.fileTasks {
			select {
			case <-e.cancelChan:
				close(jobs)
				return
			case jobs <- task:
			}
		}

		close(jobs)
	}()

	wg.Wait()
}

// worker pulls tasks off the queue until it is empty or the run is cancelled.
func (e *Engine) worker(jobs <-chan *CopyTask) {
	for task := range jobs {
		select {
		case <-e.cancelChan:
			return
		default:
		}

		result := e.runTask(task)

		e.Progress.FileDone()
		e.results.add(result)
		e.emit(TaskComplete{Path: task.RelativePath, Status: result.Status, Err: result.Err})
	}
}

// runTask copies one file and, when requested, verifies it. Verification time
// counts toward the task duration so its cost shows up in throughput figures.
func (e *Engine) runTask(task *CopyTask) *TaskResult {
	e.emit(TaskStarted{Path: task.RelativePath, Size: task.Size})

	taskStart := time.Now()

	progress := func(chunkBytes, _, _ int64) {
		e.Progress.AddBytes(chunkBytes)
	}

	stats, err := fileops.CopyFile(task.SourcePath, task.DestPath, e.BufferSize, progress, e.cancelChan)
	if stats != nil {
		e.results.addTiming(stats.ReadTime, stats.WriteTime)
	}

	result := &TaskResult{Task: task, Status: StatusSuccess}
	if stats != nil {
		result.BytesCopied = stats.BytesCopied
	}

	if err != nil {
		result.Status, result.Err = classifyCopyError(err)
		result.Duration = time.Since(taskStart)

		e.logToFile(fmt.Sprintf("  ✗ %s: %s: %v", result.Status, task.RelativePath, err))

		return result
	}

	if e.Verify {
		result.Status, result.Err = e.verifyTask(task)
	}

	result.Duration = time.Since(taskStart)

	if result.Status == StatusSuccess {
		e.logToFile(fmt.Sprintf("  ✓ copied: %s (%d bytes)", task.RelativePath, result.BytesCopied))
	} else {
		e.logToFile(fmt.Sprintf("  ✗ %s: %s: %v", result.Status, task.RelativePath, result.Err))
	}

	return result
}

// verifyTask re-reads source and destination through the copy buffer size and
// compares SHA-256 digests. A digest difference is silent corruption, kept
// distinct from transfer-level errors.
func (e *Engine) verifyTask(task *CopyTask) (TaskStatus, error) {
	srcDigest, err := fileops.HashFile(task.SourcePath, e.BufferSize)
	if err != nil {
		return StatusIOError, fmt.Errorf("failed to digest source: %w", err)
	}

	dstDigest, err := fileops.HashFile(task.DestPath, e.BufferSize)
	if err != nil {
		return StatusIOError, fmt.Errorf("failed to digest destination: %w", err)
	}

	if srcDigest != dstDigest {
		return StatusVerifyMismatch, fmt.Errorf("digest mismatch for %s: src=%s dst=%s",
			task.RelativePath, srcDigest[:8], dstDigest[:8])
	}

	return StatusSuccess, nil
}

// Cancelled reports whether Cancel has been called.
func (e *Engine) Cancelled() bool {
	select {
	case <-e.cancelChan:
		return true
	default:
		return false
	}
}

// classifyCopyError maps a copy failure onto the task status taxonomy.
func classifyCopyError(err error) (TaskStatus, error) {
	switch {
	case errors.Is(err, fileops.ErrCopyCancelled):
		return StatusCancelled, err
	case errors.Is(err, fileops.ErrSizeMismatch):
		return StatusSizeMismatch, err
	default:
		return StatusIOError, err
	}
}

// EnableFileLogging enables timestamped logging to a file for debugging.
func (e *Engine) EnableFileLogging(logPath string) error {
	f, err := os.Create(logPath) // #nosec G304 - log path comes from the CLI flag
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	e.logMu.Lock()
	defer e.logMu.Unlock()

	e.logFile = f
	e.writeLogLine("=== Copy log started: " + time.Now().Format(time.RFC3339) + " ===")
	e.writeLogLine("Source: " + e.SourcePath)
	e.writeLogLine("Destination: " + e.DestPath)

	return nil
}

// CloseLog closes the log file if open. Safe to call while workers are still
// logging; later log calls become no-ops.
func (e *Engine) CloseLog() {
	e.logMu.Lock()
	defer e.logMu.Unlock()

	if e.logFile == nil {
		return
	}

	e.writeLogLine("=== Copy log ended: " + time.Now().Format(time.RFC3339) + " ===")
	_ = e.logFile.Close()
	e.logFile = nil
}

// logToFile writes a message to the log file (if enabled).
func (e *Engine) logToFile(message string) {
	e.logMu.Lock()
	defer e.logMu.Unlock()

	e.writeLogLine(message)
}

// writeLogLine appends one timestamped line. Callers must hold logMu.
func (e *Engine) writeLogLine(message string) {
	if e.logFile == nil {
		return
	}

	timestamp := time.Now().Format("15:04:05.000")
	_, _ = fmt.Fprintf(e.logFile, "[%s] %s\n", timestamp, message)
}
