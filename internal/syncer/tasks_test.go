package syncer

import (
	"testing"
	"time"

	"github.com/RichmondRamil/task-management/internal/dto"
	"github.com/RichmondRamil/task-management/internal/feed"
	"github.com/RichmondRamil/task-management/internal/models"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint64) *uint64 { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func strPtr(v string) *string { return &v }

func taskView(id uint64, title string, projectID uint64) dto.TaskView {
	return dto.TaskView{
		ID:        id,
		Title:     title,
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		ProjectID: uintPtr(projectID),
	}
}

func TestTaskSyncer_InsertPrepends(t *testing.T) {
	s := NewTaskSyncer()
	s.SetTasks([]dto.TaskView{taskView(1, "old", 7)})

	changed := s.Apply(feed.Event{Type: feed.EventInsert, Task: taskView(2, "new", 7)})
	require.True(t, changed)

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	require.EqualValues(t, 2, tasks[0].ID, "newest task should surface first")
}

func TestTaskSyncer_UpdateMergesKeepingRelations(t *testing.T) {
	s := NewTaskSyncer()

	creator := &dto.ProfileDTO{ID: 9, Email: "creator@example.com", FullName: strPtr("Creator")}
	assignee := &dto.ProfileDTO{ID: 10, Email: "assignee@example.com"}
	seeded := taskView(1, "seeded", 7)
	seeded.AssigneeID = uintPtr(10)
	seeded.Creator = creator
	seeded.Assignee = assignee
	s.SetTasks([]dto.TaskView{seeded})

	// Feed events carry the bare row; relation summaries arrive nil.
	updated := taskView(1, "retitled", 7)
	updated.AssigneeID = uintPtr(10)
	updated.Status = models.TaskStatusDone

	changed := s.Apply(feed.Event{Type: feed.EventUpdate, Task: updated})
	require.True(t, changed)

	got, ok := s.Get(1)
	require.True(t, ok)
	require.Equal(t, "retitled", got.Title)
	require.Equal(t, models.TaskStatusDone, got.Status)
	require.Equal(t, creator, got.Creator, "creator summary should survive the merge")
	require.Equal(t, assignee, got.Assignee, "assignee summary should survive the merge")
}

func TestTaskSyncer_UpdateDropsStaleAssigneeSummary(t *testing.T) {
	s := NewTaskSyncer()

	seeded := taskView(1, "seeded", 7)
	seeded.AssigneeID = uintPtr(10)
	seeded.Assignee = &dto.ProfileDTO{ID: 10}
	s.SetTasks([]dto.TaskView{seeded})

	// Reassignment: the cached summary belongs to the old assignee.
	updated := taskView(1, "seeded", 7)
	updated.AssigneeID = uintPtr(11)
	s.Apply(feed.Event{Type: feed.EventUpdate, Task: updated})

	got, ok := s.Get(1)
	require.True(t, ok)
	require.Nil(t, got.Assignee)
}

func TestTaskSyncer_DeleteRemoves(t *testing.T) {
	s := NewTaskSyncer()
	s.SetTasks([]dto.TaskView{taskView(1, "doomed", 7), taskView(2, "kept", 7)})

	changed := s.Apply(feed.Event{Type: feed.EventDelete, Task: taskView(1, "doomed", 7)})
	require.True(t, changed)

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	require.EqualValues(t, 2, tasks[0].ID)
}

func TestTaskSyncer_SuppressesLocalEcho(t *testing.T) {
	s := NewTaskSyncer()
	s.Track("mutation-42")

	event := feed.Event{
		Type:          feed.EventInsert,
		CorrelationID: "mutation-42",
		Task:          taskView(1, "mine", 7),
	}
	require.False(t, s.Apply(event), "echo of a tracked mutation must not apply")
	require.Empty(t, s.Tasks())

	// The id is consumed: a replay applies normally.
	require.True(t, s.Apply(event))
	require.Len(t, s.Tasks(), 1)
}

func TestTaskSyncer_AppliesForeignEvents(t *testing.T) {
	s := NewTaskSyncer()
	s.Track("mutation-42")

	event := feed.Event{
		Type:          feed.EventInsert,
		CorrelationID: "someone-elses-mutation",
		Task:          taskView(1, "theirs", 7),
	}
	require.True(t, s.Apply(event))
	require.Len(t, s.Tasks(), 1)
}

func TestTaskSyncer_GetProjectTasks_FiltersByProject(t *testing.T) {
	s := NewTaskSyncer()
	s.SetTasks([]dto.TaskView{
		taskView(1, "a", 7),
		taskView(2, "b", 8),
		taskView(3, "c", 7),
	})

	tasks := s.GetProjectTasks(7, "", SortAsc)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		require.EqualValues(t, 7, *task.ProjectID)
	}
}

func TestTaskSyncer_GetProjectTasks_PriorityOrder(t *testing.T) {
	s := NewTaskSyncer()

	low := taskView(1, "low", 7)
	low.Priority = models.TaskPriorityLow
	high := taskView(2, "high", 7)
	high.Priority = models.TaskPriorityHigh
	medium := taskView(3, "medium", 7)
	medium.Priority = models.TaskPriorityMedium
	s.SetTasks([]dto.TaskView{low, high, medium})

	desc := s.GetProjectTasks(7, "priority", SortDesc)
	require.Equal(t, []models.TaskPriority{
		models.TaskPriorityHigh,
		models.TaskPriorityMedium,
		models.TaskPriorityLow,
	}, []models.TaskPriority{desc[0].Priority, desc[1].Priority, desc[2].Priority})

	asc := s.GetProjectTasks(7, "priority", SortAsc)
	require.Equal(t, models.TaskPriorityLow, asc[0].Priority)
}

func TestTaskSyncer_GetProjectTasks_DueDateNullsLast(t *testing.T) {
	s := NewTaskSyncer()

	dated := taskView(1, "dated", 7)
	dated.DueDate = timePtr(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	sooner := taskView(2, "sooner", 7)
	sooner.DueDate = timePtr(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	undated := taskView(3, "undated", 7)
	s.SetTasks([]dto.TaskView{undated, dated, sooner})

	tasks := s.GetProjectTasks(7, "due_date", SortAsc)
	require.EqualValues(t, 2, tasks[0].ID)
	require.EqualValues(t, 1, tasks[1].ID)
	require.EqualValues(t, 3, tasks[2].ID, "undated tasks sort last")
}

func TestTaskSyncer_GetProjectTasks_StatusOrder(t *testing.T) {
	s := NewTaskSyncer()

	done := taskView(1, "done", 7)
	done.Status = models.TaskStatusDone
	todo := taskView(2, "todo", 7)
	inProgress := taskView(3, "wip", 7)
	inProgress.Status = models.TaskStatusInProgress
	s.SetTasks([]dto.TaskView{done, todo, inProgress})

	tasks := s.GetProjectTasks(7, "status", SortAsc)
	require.Equal(t, []models.TaskStatus{
		models.TaskStatusTodo,
		models.TaskStatusInProgress,
		models.TaskStatusDone,
	}, []models.TaskStatus{tasks[0].Status, tasks[1].Status, tasks[2].Status})
}
