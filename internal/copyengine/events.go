package copyengine

// Event is the interface implemented by all copy engine events.
type Event interface {
	isEvent()
}

// EventEmitter is the interface for emitting events.
type EventEmitter interface {
	Emit(event Event)
}

// Plan phase events

// PlanStarted is emitted when the planner begins walking the source tree.
type PlanStarted struct {
	Source string
	Dest   string
}

func (PlanStarted) isEvent() {}

// PlanComplete is emitted when planning finishes with the totals for the run.
type PlanComplete struct {
	Files int
	Dirs  int
	Bytes int64
}

func (PlanComplete) isEvent() {}

// Copy phase events

// TaskStarted is emitted when a worker picks up a file task.
type TaskStarted struct {
	Path string
	Size int64
}

func (TaskStarted) isEvent() {}

// TaskComplete is emitted when a task finishes, successfully or not.
type TaskComplete struct {
	Path   string
	Status TaskStatus
	Err    error
}

func (TaskComplete) isEvent() {}

// RunComplete is emitted once, after every task has resolved.
type RunComplete struct {
	Summary *Summary
}

func (RunComplete) isEvent() {}
