package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RichmondRamil/task-management/internal/constants"
	"github.com/RichmondRamil/task-management/internal/dto"
	"github.com/RichmondRamil/task-management/internal/feed"
	"github.com/RichmondRamil/task-management/internal/metrics"
	"github.com/RichmondRamil/task-management/internal/models"
	"github.com/RichmondRamil/task-management/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrInvalidTaskStatus      = errors.New("invalid task status")
	ErrInvalidTaskPriority    = errors.New("invalid task priority")
	ErrNotTaskCreator         = errors.New("only the task creator can perform this action")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksSuggested     = errors.New("AI did not suggest any tasks")
)

// taskRelations are the summaries attached to every task read.
var taskRelations = []string{"Creator", "Assignee", "Project"}

// TaskService handles task business logic and publishes a change feed
// event for every successful mutation.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	hub         *feed.Hub
	aiService   *AIService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, hub *feed.Hub, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		hub:         hub,
		aiService:   aiService,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ProjectID     *uint64
	Status        *models.TaskStatus
	AssigneeID    *uint64
	DueToday      bool
	SortByDueDate bool
	Page          int
	PageSize      int
}

// ListTasks returns tasks matching the provided filters, each joined with
// its creator, assignee, and project summary.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		ProjectID:     input.ProjectID,
		Status:        input.Status,
		AssigneeID:    input.AssigneeID,
		SortByDueDate: input.SortByDueDate,
		Page:          input.Page,
		PageSize:      input.PageSize,
	}

	if input.DueToday {
		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)
		filter.DueDateFrom = &startOfDay
		filter.DueDateTo = &endOfDay
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, taskRelations...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title         string
	Description   *string
	Status        models.TaskStatus
	Priority      models.TaskPriority
	DueDate       *time.Time
	ProjectID     *uint64
	AssigneeID    *uint64
	CreatedBy     uint64
	CorrelationID string
}

// CreateTask creates a task. When the draft names both a project and an
// assignee, the assignee is enrolled as a project member in the same
// transaction as the task insert.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	} else if !models.ValidTaskStatus(input.Status) {
		return nil, ErrInvalidTaskStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	} else if !models.ValidTaskPriority(input.Priority) {
		return nil, ErrInvalidTaskPriority
	}

	if input.ProjectID != nil {
		if _, err := s.projectRepo.FindByID(*input.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, fmt.Errorf("failed to find project: %w", err)
		}
	}

	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
		AssigneeID:  input.AssigneeID,
		CreatedBy:   input.CreatedBy,
	}

	if err := s.taskRepo.CreateWithMembership(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created, err := s.taskRepo.FindByID(task.ID, taskRelations...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	metrics.TaskMutations.WithLabelValues("create").Inc()
	s.publish(feed.EventInsert, input.CorrelationID, *created)

	return created, nil
}

// UpdateTask applies a partial update. The payload may use either naming
// convention; it is translated to canonical column names and stamped with
// an updated_at timestamp before the write. The single updated row is
// re-read with its relation summaries.
func (s *TaskService) UpdateTask(taskID uint64, updates map[string]any, correlationID string) (*models.Task, error) {
	normalized := dto.NormalizeTaskUpdates(updates)

	if title, ok := normalized["title"]; ok {
		titleStr, _ := title.(string)
		if strings.TrimSpace(titleStr) == "" {
			return nil, ErrTitleEmpty
		}
	}
	if status, ok := normalized["status"]; ok {
		statusStr, _ := status.(string)
		if !models.ValidTaskStatus(models.TaskStatus(statusStr)) {
			return nil, ErrInvalidTaskStatus
		}
	}
	if priority, ok := normalized["priority"]; ok {
		priorityStr, _ := priority.(string)
		if !models.ValidTaskPriority(models.TaskPriority(priorityStr)) {
			return nil, ErrInvalidTaskPriority
		}
	}

	if err := s.taskRepo.UpdateColumns(taskID, normalized); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	updated, err := s.taskRepo.FindByID(taskID, taskRelations...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	metrics.TaskMutations.WithLabelValues("update").Inc()
	s.publish(feed.EventUpdate, correlationID, *updated)

	return updated, nil
}

// DeleteTask deletes a task if the actor is the creator. When the deleted
// task was the assignee's last task in its project, the assignee's
// membership row is removed in the same transaction.
func (s *TaskService) DeleteTask(taskID, actorID uint64, correlationID string) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.CreatedBy != actorID {
		return ErrNotTaskCreator
	}

	if _, err := s.taskRepo.DeleteWithMembershipCleanup(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	metrics.TaskMutations.WithLabelValues("delete").Inc()
	s.publish(feed.EventDelete, correlationID, *task)

	return nil
}

// SuggestTasksInput represents input for AI task suggestions
type SuggestTasksInput struct {
	Text string
}

// SuggestTasks uses the AI service to extract task drafts from free text.
func (s *TaskService) SuggestTasks(ctx context.Context, input SuggestTasksInput) ([]SuggestedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	suggestions, err := s.aiService.SuggestTasksFromText(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest tasks: %w", err)
	}

	if len(suggestions) == 0 {
		return nil, ErrAINoTasksSuggested
	}
	if len(suggestions) > constants.MaxAISuggestedTasks {
		return nil, fmt.Errorf("AI suggested too many tasks (max %d)", constants.MaxAISuggestedTasks)
	}

	valid := make([]SuggestedTask, 0, len(suggestions))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, suggestion := range suggestions {
		if strings.TrimSpace(suggestion.Title) == "" {
			continue
		}

		if suggestion.DueDate != nil && suggestion.DueDate.Before(cutoff) {
			suggestion.DueDate = nil
		}
		if suggestion.Priority != "" && !models.ValidTaskPriority(suggestion.Priority) {
			suggestion.Priority = models.TaskPriorityMedium
		}

		valid = append(valid, suggestion)
	}

	if len(valid) == 0 {
		return nil, ErrAINoTasksSuggested
	}

	return valid, nil
}

func (s *TaskService) publish(eventType feed.EventType, correlationID string, task models.Task) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(feed.Event{
		Type:          eventType,
		CorrelationID: correlationID,
		Task:          dto.ToTaskView(task),
	})
}
