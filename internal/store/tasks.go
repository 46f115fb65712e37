package store

import (
	"fmt"

	"github.com/safepaws-ai/safepaws-backend/internal/docstore"
)

// Task statuses.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

// Task is one volunteer work item.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Desc        string `json:"desc"`
	AssignedTo  string `json:"assigned_to"`
	CreatedBy   string `json:"created_by"`
	Status      string `json:"status"`
	Priority    string `json:"priority"` // low | medium | high
	DueDate     string `json:"due_date,omitempty"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// NewTaskParams carries the caller-supplied fields for a new task.
type NewTaskParams struct {
	Title      string
	Desc       string
	AssignedTo string
	CreatedBy  string
	Priority   string
	DueDate    string
}

// validTaskStatus guards UpdateTaskStatus against arbitrary strings.
func validTaskStatus(status string) bool {
	switch status {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// ─── METHODS ──────────────────────────────────────────────────────────────────

// CreateTask assigns a new work item to a volunteer.
func (s *Store) CreateTask(p NewTaskParams) (Task, error) {
	t := Task{
		ID:         s.newID("TASK"),
		Title:      p.Title,
		Desc:       p.Desc,
		AssignedTo: p.AssignedTo,
		CreatedBy:  p.CreatedBy,
		Status:     TaskPending,
		Priority:   p.Priority,
		DueDate:    p.DueDate,
		CreatedAt:  s.timestamp(),
	}
	list := s.ListTasks()
	list = append(list, t)
	if err := docstore.Write(s.b, colTasks, list); err != nil {
		return Task{}, err
	}
	return t, nil
}

// ListTasks returns every task.
func (s *Store) ListTasks() []Task {
	return docstore.Read(s.b, colTasks, []Task{})
}

// TasksByAssignee returns a volunteer's tasks.
func (s *Store) TasksByAssignee(assignee string) []Task {
	out := []Task{}
	for _, t := range s.ListTasks() {
		if t.AssignedTo == assignee {
			out = append(out, t)
		}
	}
	return out
}

// UpdateTaskStatus moves a task through its lifecycle, stamping CompletedAt
// on completion.
func (s *Store) UpdateTaskStatus(id, status string) (Task, error) {
	if !validTaskStatus(status) {
		return Task{}, fmt.Errorf("store: invalid task status %q", status)
	}
	list := s.ListTasks()
	for i := range list {
		if list[i].ID != id {
			continue
		}
		list[i].Status = status
		if status == TaskCompleted {
			list[i].CompletedAt = s.timestamp()
		}
		if err := docstore.Write(s.b, colTasks, list); err != nil {
			return Task{}, err
		}
		return list[i], nil
	}
	return Task{}, ErrNotFound
}
