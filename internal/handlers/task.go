package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/RichmondRamil/task-management/internal/dto"
	"github.com/RichmondRamil/task-management/internal/middleware"
	"github.com/RichmondRamil/task-management/internal/models"
	"github.com/RichmondRamil/task-management/internal/services"
	"github.com/RichmondRamil/task-management/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// correlationHeader carries the client-chosen mutation id. Clients that
// listen on the task feed send one so they can recognize and skip the echo
// of their own writes. When absent the server mints one and echoes it back.
const correlationHeader = "X-Correlation-Id"

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func correlationID(c *gin.Context) string {
	id := c.GetHeader(correlationHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(correlationHeader, id)
	return id
}

// ListTasks handles GET /api/tasks with optional filters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	input := services.ListTasksInput{
		DueToday:      c.Query("due_today") == "true",
		SortByDueDate: c.Query("sort_by") == "due_date",
	}

	if raw := c.Query("project_id"); raw != "" {
		projectID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
			return
		}
		input.ProjectID = &projectID
	}

	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		if !models.ValidTaskStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		input.Status = &status
	}

	if raw := c.Query("assignee_id"); raw != "" {
		assigneeID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee ID"})
			return
		}
		input.AssigneeID = &assigneeID
	}

	pagination := utils.GetPaginationParams(c)
	input.Page = pagination.Page
	input.PageSize = pagination.Limit

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":      dto.ToTaskViews(tasks),
		"pagination": utils.NewPaginationResponse(pagination, total),
	})
}

// CreateTask handles POST /api/tasks. Task creation always happens inside a
// project here, so a missing project id is rejected before anything else.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title"`
		Description *string    `json:"description"`
		Status      string     `json:"status"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"dueDate"`
		ProjectID   *uint64    `json:"projectId"`
		AssigneeID  *uint64    `json:"assigneeId"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.ProjectID == nil || *req.ProjectID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No project selected"})
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Status:        models.TaskStatus(req.Status),
		Priority:      models.TaskPriority(req.Priority),
		DueDate:       req.DueDate,
		ProjectID:     req.ProjectID,
		AssigneeID:    req.AssigneeID,
		CreatedBy:     userID,
		CorrelationID: correlationID(c),
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskView(*task))
}

// GetTask handles GET /api/tasks/:id. Visibility is enforced by
// middleware.RequireTaskAccess, which also loads the task.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task := c.MustGet("task").(*models.Task)
	c.JSON(http.StatusOK, dto.ToTaskView(*task))
}

// UpdateTask handles PATCH /api/tasks/:id. The body is a partial task in
// presentation-shape field names; unknown fields are dropped rather than
// rejected.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task := c.MustGet("task").(*models.Task)

	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.taskService.UpdateTask(task.ID, updates, correlationID(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskView(*updated))
}

// DeleteTask handles DELETE /api/tasks/:id. Only the creator may delete.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	task := c.MustGet("task").(*models.Task)

	if err := h.taskService.DeleteTask(task.ID, userID, correlationID(c)); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// SuggestTasks handles POST /api/tasks/suggest.
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	type SuggestRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	suggestions, err := h.taskService.SuggestTasks(c.Request.Context(), services.SuggestTasksInput{
		Text: req.Text,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": suggestions})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired), errors.Is(err, services.ErrTitleEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
	case errors.Is(err, services.ErrInvalidTaskStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
	case errors.Is(err, services.ErrInvalidTaskPriority):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
	case errors.Is(err, services.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case errors.Is(err, services.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, services.ErrNotTaskCreator):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI suggestions are not configured"})
	case errors.Is(err, services.ErrAINoTasksSuggested):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No tasks could be extracted from the text"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
