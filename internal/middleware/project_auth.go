package middleware

import (
	"net/http"
	"strconv"

	"github.com/RichmondRamil/task-management/internal/database"
	"github.com/RichmondRamil/task-management/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireProjectAccess checks if the user is the owner or a member of the project
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get project ID from URL parameter
		projectIDStr := c.Param("id")
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid project ID",
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

		// Check if project exists
		var project models.Project
		if err := database.GetDB().First(&project, projectID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Project not found",
			})
			c.Abort()
			return
		}

		// Owners always have access; everyone else needs a membership row
		if project.OwnerID != userID {
			var member models.ProjectMember
			err = database.GetDB().
				Where("project_id = ? AND user_id = ?", projectID, userID).
				First(&member).Error
			if err != nil {
				// Return 404 instead of 403 to avoid leaking project existence
				c.JSON(http.StatusNotFound, gin.H{
					"error": "Project not found",
				})
				c.Abort()
				return
			}
			c.Set("project_member", &member)
		}

		c.Set("project", &project)
		c.Next()
	}
}

// RequireProjectOwner checks if the user owns the project loaded by
// RequireProjectAccess
func RequireProjectOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectInterface, exists := c.Get("project")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Project access required",
			})
			c.Abort()
			return
		}

		project, ok := projectInterface.(*models.Project)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Invalid project data",
			})
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists || project.OwnerID != userID {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Forbidden",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
