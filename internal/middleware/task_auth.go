package middleware

import (
	"net/http"
	"strconv"

	"github.com/RichmondRamil/task-management/internal/database"
	"github.com/RichmondRamil/task-management/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireTaskAccess checks if the user has access to a task. For a task
// attached to a project, the user must be the project owner or a member;
// unattached tasks are visible to their creator and assignee.
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get task ID from URL parameter
		taskIDStr := c.Param("id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid task ID",
			})
			c.Abort()
			return
		}

		// Get current user ID
		userID, exists := GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		// Check if task exists and load relations
		var task models.Task
		if err := database.GetDB().
			Preload("Creator").
			Preload("Assignee").
			Preload("Project").
			First(&task, taskID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Task not found",
			})
			c.Abort()
			return
		}

		if !taskVisibleTo(task, userID) {
			// Return 404 instead of 403 to avoid leaking task existence
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Task not found",
			})
			c.Abort()
			return
		}

		c.Set("task", &task)
		c.Next()
	}
}

func taskVisibleTo(task models.Task, userID uint64) bool {
	if task.CreatedBy == userID {
		return true
	}
	if task.AssigneeID != nil && *task.AssigneeID == userID {
		return true
	}
	if task.ProjectID == nil {
		return false
	}

	if task.Project != nil && task.Project.OwnerID == userID {
		return true
	}

	var member models.ProjectMember
	err := database.GetDB().
		Where("project_id = ? AND user_id = ?", *task.ProjectID, userID).
		First(&member).Error
	return err == nil
}
