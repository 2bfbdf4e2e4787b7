package copyengine

import (
	"sync"
	"sync/atomic"
	"time"
)

// Progress holds the shared counters every worker updates and the renderer
// reads. Bytes are the hot path (one update per chunk) and use an atomic; the
// file counters and totals sit behind the mutex. Both counters only ever grow
// during a run.
type Progress struct {
	mu         sync.RWMutex
	filesTotal int
	filesDone  int
	bytesTotal int64
	bytesDone  int64 // updated with sync/atomic
	startTime  time.Time
}

// Snapshot is a point-in-time copy of the progress counters, safe to read
// without coordination.
type Snapshot struct {
	FilesDone  int
	FilesTotal int
	BytesDone  int64
	BytesTotal int64
	Elapsed    time.Duration
}

// Rate returns the average transfer rate in bytes per second.
func (s Snapshot) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}

	return float64(s.BytesDone) / s.Elapsed.Seconds()
}

// NewProgress creates a Progress with the given totals.
func NewProgress(filesTotal int, bytesTotal int64) *Progress {
	return &Progress{
		filesTotal: filesTotal,
		bytesTotal: bytesTotal,
		startTime:  time.Now(),
	}
}

// AddBytes adds one chunk's worth of bytes. Called from every worker after
// each buffer write.
func (p *Progress) AddBytes(n int64) {
	atomic.AddInt64(&p.bytesDone, n)
}

// FileDone marks one task as finished, whatever its outcome.
func (p *Progress) FileDone() {
	p.mu.Lock()
	p.filesDone++
	p.mu.Unlock()
}

// Snapshot returns a consistent point-in-time view of the counters. It may be
// called at any cadence concurrently with worker updates.
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	snap := Snapshot{
		FilesDone:  p.filesDone,
		FilesTotal: p.filesTotal,
		BytesTotal: p.bytesTotal,
		Elapsed:    time.Since(p.startTime),
	}
	p.mu.RUnlock()

	snap.BytesDone = atomic.LoadInt64(&p.bytesDone)

	return snap
}
