package dto

import (
	"time"

	"github.com/RichmondRamil/task-management/internal/models"
)

// TaskView is the presentation form of a task. The storage schema's
// snake_case naming never leaks past this type: ToTaskView is the single
// mapping point from the canonical column form, and TaskView.Model is its
// inverse.
type TaskView struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"dueDate"`
	ProjectID   *uint64             `json:"projectId"`
	AssigneeID  *uint64             `json:"assigneeId"`
	CreatedBy   uint64              `json:"createdBy"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`

	// Denormalized relation summaries for display
	Creator  *ProfileDTO        `json:"creator,omitempty"`
	Assignee *ProfileDTO        `json:"assignee,omitempty"`
	Project  *ProjectSummaryDTO `json:"project,omitempty"`
}

// ToTaskView converts a canonical task row to its presentation view
func ToTaskView(task models.Task) TaskView {
	view := TaskView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		ProjectID:   task.ProjectID,
		AssigneeID:  task.AssigneeID,
		CreatedBy:   task.CreatedBy,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.Creator.ID != 0 {
		creator := ToProfileDTO(task.Creator)
		view.Creator = &creator
	}
	if task.Assignee != nil && task.Assignee.ID != 0 {
		assignee := ToProfileDTO(*task.Assignee)
		view.Assignee = &assignee
	}
	if task.Project != nil && task.Project.ID != 0 {
		project := ToProjectSummaryDTO(*task.Project)
		view.Project = &project
	}

	return view
}

// Model converts the view back to the canonical column form. Relation
// summaries are display-only and do not survive the reverse mapping.
func (v TaskView) Model() models.Task {
	return models.Task{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Status:      v.Status,
		Priority:    v.Priority,
		DueDate:     v.DueDate,
		ProjectID:   v.ProjectID,
		AssigneeID:  v.AssigneeID,
		CreatedBy:   v.CreatedBy,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// ToTaskViews converts a slice of tasks
func ToTaskViews(tasks []models.Task) []TaskView {
	views := make([]TaskView, len(tasks))
	for i, task := range tasks {
		views[i] = ToTaskView(task)
	}
	return views
}

// taskColumnAliases maps presentation field names to canonical columns.
// Update payloads may arrive in either convention.
var taskColumnAliases = map[string]string{
	"dueDate":    "due_date",
	"projectId":  "project_id",
	"assigneeId": "assignee_id",
	"createdBy":  "created_by",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
}

// taskUpdatableColumns is the set of columns an update may touch.
var taskUpdatableColumns = map[string]bool{
	"title":       true,
	"description": true,
	"status":      true,
	"priority":    true,
	"due_date":    true,
	"project_id":  true,
	"assignee_id": true,
	"updated_at":  true,
}

// NormalizeTaskUpdates translates a partial update payload to canonical
// column names, dropping unknown keys, and stamps updated_at when the
// caller did not supply one.
func NormalizeTaskUpdates(updates map[string]any) map[string]any {
	normalized := make(map[string]any, len(updates)+1)

	for key, value := range updates {
		if canonical, ok := taskColumnAliases[key]; ok {
			key = canonical
		}
		if !taskUpdatableColumns[key] {
			continue
		}
		normalized[key] = value
	}

	if _, ok := normalized["updated_at"]; !ok {
		normalized["updated_at"] = time.Now().UTC()
	}

	return normalized
}
