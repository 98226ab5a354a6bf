package research

// TaskState describes where a search task is in its lifecycle.
type TaskState string

const (
	// TaskPending means the node exists but its task has not started
	TaskPending TaskState = "pending"
	// TaskRunning means the search task is executing
	TaskRunning TaskState = "running"
	// TaskCompleted means the task finished and contributed its results
	TaskCompleted TaskState = "completed"
	// TaskFailed means the task failed; the failure stays local to its branch
	TaskFailed TaskState = "failed"
)

// Progress is one scheduler event. CompletedTasks and TotalTasks count
// search tasks across the whole tree; TotalTasks grows as follow-up nodes
// are spawned.
type Progress struct {
	Query          string
	Depth          int
	Breadth        int
	State          TaskState
	CompletedTasks int
	TotalTasks     int
	Err            error
}

// ProgressFunc receives scheduler events. Callbacks run on scheduler
// goroutines and must return quickly; anything slow should hand off to its
// own goroutine.
type ProgressFunc func(Progress)
