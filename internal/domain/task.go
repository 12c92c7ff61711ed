package domain

import "errors"

// TaskStatus represents the lifecycle state of a marketing task.
type TaskStatus string

// Possible task status values. Status only moves forward: a task never
// re-enters processing after leaving it.
const (
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Common validation errors for Task.
var (
	ErrEmptyTaskID           = errors.New("task ID cannot be empty")
	ErrEmptyTaskType         = errors.New("task type cannot be empty")
	ErrInvalidTaskStatus     = errors.New("invalid task status")
	ErrBackwardTaskStatus    = errors.New("task status cannot move backward")
	ErrTaskAlreadyRegistered = errors.New("task ID already registered")
)

// Result is one deliverable attached to a completed task. All content
// fields are independently optional so heterogeneous outputs (a post, a
// reel, a document bundle) share one shape.
type Result struct {
	ID           string   `json:"id"`
	Title        string   `json:"title,omitempty"`
	Body         string   `json:"body,omitempty"`
	ImagesURL    []string `json:"images_url,omitempty"`
	VideosURL    []string `json:"videos_url,omitempty"`
	DocumentsURL []string `json:"documents_url,omitempty"`
	CTA          string   `json:"cta,omitempty"`
}

// Task represents one unit of asynchronous external work created by a tool
// dispatch. The ID is assigned exactly once, at dispatch time, and never
// reused.
type Task struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Status  TaskStatus     `json:"status"`
	Args    map[string]any `json:"args"`
	Results []Result       `json:"results,omitempty"`
}

// NewTask creates a freshly dispatched task in the processing state.
func NewTask(id, taskType string, args map[string]any) (Task, error) {
	t := Task{
		ID:     id,
		Type:   taskType,
		Status: TaskStatusProcessing,
		Args:   args,
	}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Validate checks the task's structural invariants.
func (t Task) Validate() error {
	if t.ID == "" {
		return ErrEmptyTaskID
	}
	if t.Type == "" {
		return ErrEmptyTaskType
	}
	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}
	return nil
}

func isValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusProcessing, TaskStatusCompleted, TaskStatusFailed:
		return true
	}
	return false
}

// canTransition reports whether a status change is a legal forward move.
func canTransition(from, to TaskStatus) bool {
	if from == to {
		return true
	}
	return from == TaskStatusProcessing
}

// TaskPatch is a partial task record, typically written by the external
// worker that performs the actual content generation. Zero-valued fields
// are treated as absent and leave the existing value untouched.
type TaskPatch struct {
	Type    string         `json:"type,omitempty"`
	Status  TaskStatus     `json:"status,omitempty"`
	Args    map[string]any `json:"args,omitempty"`
	Results []Result       `json:"results,omitempty"`
}

// Apply merges the patch into the task field by field. Status changes are
// only honored when they move forward; a patch can never drag a completed
// or failed task back into processing.
func (t *Task) Apply(p TaskPatch) error {
	if p.Status != "" {
		if !isValidTaskStatus(p.Status) {
			return ErrInvalidTaskStatus
		}
		if !canTransition(t.Status, p.Status) {
			return ErrBackwardTaskStatus
		}
		t.Status = p.Status
	}
	if p.Type != "" {
		t.Type = p.Type
	}
	if p.Args != nil {
		t.Args = p.Args
	}
	if p.Results != nil {
		t.Results = p.Results
	}
	return nil
}

// Clone returns a deep copy of the task so callers can mutate it without
// aliasing the stored record.
func (t Task) Clone() Task {
	out := t
	if t.Args != nil {
		out.Args = make(map[string]any, len(t.Args))
		for k, v := range t.Args {
			out.Args[k] = v
		}
	}
	if t.Results != nil {
		out.Results = make([]Result, len(t.Results))
		copy(out.Results, t.Results)
	}
	return out
}
