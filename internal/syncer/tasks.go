package syncer

import (
	"sort"
	"strings"
	"sync"

	"github.com/RichmondRamil/task-management/internal/dto"
	"github.com/RichmondRamil/task-management/internal/feed"
)

// SortOrder is the direction of a task ordering.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// priorityRank orders priorities for sorting. Higher means more urgent.
var priorityRank = map[string]int{
	"high":   3,
	"medium": 2,
	"low":    1,
}

// statusRank orders statuses by workflow position.
var statusRank = map[string]int{
	"todo":        1,
	"in_progress": 2,
	"done":        3,
}

// TaskSyncer keeps an in-memory mirror of tasks current by applying change
// feed events. Mutations issued through the same client carry a correlation
// id that is registered here first, so the feed echo of a local write is
// recognized and skipped instead of being applied twice.
type TaskSyncer struct {
	mu      sync.RWMutex
	tasks   []dto.TaskView
	pending map[string]struct{}
}

// NewTaskSyncer creates an empty task mirror.
func NewTaskSyncer() *TaskSyncer {
	return &TaskSyncer{
		pending: make(map[string]struct{}),
	}
}

// SetTasks replaces the mirror contents wholesale, typically after an
// initial fetch or a reconnect.
func (s *TaskSyncer) SetTasks(tasks []dto.TaskView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks[:0:0], tasks...)
}

// Track registers a correlation id for a mutation this client is about to
// issue. The next feed event carrying the id is treated as an echo and
// dropped.
func (s *TaskSyncer) Track(correlationID string) {
	if correlationID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[correlationID] = struct{}{}
}

// Apply folds one feed event into the mirror. It reports whether the mirror
// changed; echoes of tracked local mutations report false.
func (s *TaskSyncer) Apply(event feed.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.CorrelationID != "" {
		if _, ok := s.pending[event.CorrelationID]; ok {
			delete(s.pending, event.CorrelationID)
			return false
		}
	}

	switch event.Type {
	case feed.EventInsert:
		s.insertLocked(event.Task)
	case feed.EventUpdate:
		s.mergeLocked(event.Task)
	case feed.EventDelete:
		s.removeLocked(event.Task.ID)
	default:
		return false
	}
	return true
}

// insertLocked prepends so the newest task surfaces first, matching the
// server's created_at DESC default ordering.
func (s *TaskSyncer) insertLocked(task dto.TaskView) {
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = task
			return
		}
	}
	s.tasks = append([]dto.TaskView{task}, s.tasks...)
}

// mergeLocked overwrites the row's own fields but keeps the relation
// summaries the mirror already knows. Feed events describe the bare row;
// clobbering creator, assignee, or project with nil would blank out names
// the display still needs.
func (s *TaskSyncer) mergeLocked(task dto.TaskView) {
	for i := range s.tasks {
		if s.tasks[i].ID != task.ID {
			continue
		}
		if task.Creator == nil {
			task.Creator = s.tasks[i].Creator
		}
		if task.Assignee == nil && ptrEq(task.AssigneeID, s.tasks[i].AssigneeID) {
			task.Assignee = s.tasks[i].Assignee
		}
		if task.Project == nil && ptrEq(task.ProjectID, s.tasks[i].ProjectID) {
			task.Project = s.tasks[i].Project
		}
		s.tasks[i] = task
		return
	}
	// Update for a row we never saw, e.g. created before we subscribed.
	s.tasks = append([]dto.TaskView{task}, s.tasks...)
}

func (s *TaskSyncer) removeLocked(id uint64) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

func ptrEq(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Tasks returns a snapshot of the full mirror.
func (s *TaskSyncer) Tasks() []dto.TaskView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(s.tasks[:0:0], s.tasks...)
}

// Get returns the mirrored task with the given id.
func (s *TaskSyncer) Get(id uint64) (dto.TaskView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return s.tasks[i], true
		}
	}
	return dto.TaskView{}, false
}

// GetProjectTasks returns the mirrored tasks of one project, sorted by the
// given field. Supported fields are "priority", "due_date", "title", and
// "status"; anything else leaves the mirror order untouched.
func (s *TaskSyncer) GetProjectTasks(projectID uint64, sortField string, order SortOrder) []dto.TaskView {
	s.mu.RLock()
	filtered := make([]dto.TaskView, 0)
	for i := range s.tasks {
		if s.tasks[i].ProjectID != nil && *s.tasks[i].ProjectID == projectID {
			filtered = append(filtered, s.tasks[i])
		}
	}
	s.mu.RUnlock()

	less := taskLess(sortField)
	if less == nil {
		return filtered
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if order == SortDesc {
			i, j = j, i
		}
		return less(filtered[i], filtered[j])
	})
	return filtered
}

func taskLess(sortField string) func(a, b dto.TaskView) bool {
	switch sortField {
	case "priority":
		return func(a, b dto.TaskView) bool {
			return priorityRank[string(a.Priority)] < priorityRank[string(b.Priority)]
		}
	case "status":
		return func(a, b dto.TaskView) bool {
			return statusRank[string(a.Status)] < statusRank[string(b.Status)]
		}
	case "title":
		return func(a, b dto.TaskView) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case "due_date", "dueDate":
		// Tasks without a due date sort after every dated task.
		return func(a, b dto.TaskView) bool {
			if a.DueDate == nil {
				return false
			}
			if b.DueDate == nil {
				return true
			}
			return a.DueDate.Before(*b.DueDate)
		}
	default:
		return nil
	}
}
