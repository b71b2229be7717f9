package board

import "slices"

// Task board columns.
const (
	StatusBacklog    Status = "backlog"
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// DefaultInProgressLimit caps work in progress on a task board.
const DefaultInProgressLimit = 3

// TaskPriorities lists the priorities accepted on a task board.
var TaskPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Task is the payload of a task board card.
type Task struct {
	Assignee string   `json:"assignee,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

func (t Task) Clone() Task {
	t.Tags = slices.Clone(t.Tags)
	return t
}

// TaskColumns returns the task board columns with the given in-progress limit.
// A limit of zero leaves the column unbounded.
func TaskColumns(inProgressLimit int) []Column {
	return []Column{
		{Status: StatusBacklog, Title: "Backlog"},
		{Status: StatusTodo, Title: "To Do"},
		{Status: StatusInProgress, Title: "In Progress", MaxItems: inProgressLimit},
		{Status: StatusReview, Title: "Review"},
		{Status: StatusDone, Title: "Done"},
	}
}

// NewTaskBoard creates an engine with the task board columns.
func NewTaskBoard(inProgressLimit int, opts ...Option) (*Engine[Task], error) {
	return New[Task](TaskColumns(inProgressLimit), append([]Option{WithTerminal(StatusDone)}, opts...)...)
}

// TaskSummary is the statistics block of a task board.
type TaskSummary struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
	Overdue  int            `json:"overdue"`
}

func TaskStats(e *Engine[Task]) TaskSummary {
	return TaskSummary{
		Total:    e.Count(),
		ByStatus: e.CountByStatus(),
		Overdue:  e.Overdue(),
	}
}
