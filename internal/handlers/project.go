package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/RichmondRamil/task-management/internal/dto"
	apierrors "github.com/RichmondRamil/task-management/internal/errors"
	"github.com/RichmondRamil/task-management/internal/middleware"
	"github.com/RichmondRamil/task-management/internal/models"
	"github.com/RichmondRamil/task-management/internal/services"
	"github.com/gin-gonic/gin"
)

// ProjectHandler coordinates project-related HTTP handlers. It serves two
// route families: the /api/projects REST resource and the legacy /api/project
// endpoints, which older clients still call with the project id carried in
// the body or query string.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject handles POST /api/project.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	type CreateProjectRequest struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidProjectName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Project name is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectSummaryDTO(*project))
}

// ListOwnedProjects handles GET /api/project. It returns only the projects
// the caller owns, newest first.
func (h *ProjectHandler) ListOwnedProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	projects, err := h.projectService.ListOwnedProjects(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	summaries := make([]dto.ProjectSummaryDTO, 0, len(projects))
	for _, project := range projects {
		summaries = append(summaries, dto.ToProjectSummaryDTO(project))
	}

	c.JSON(http.StatusOK, summaries)
}

// UpdateProjectByBody handles PUT /api/project, with the target id in the
// request body.
func (h *ProjectHandler) UpdateProjectByBody(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	type UpdateProjectRequest struct {
		ID          uint64  `json:"id"`
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID is required"})
		return
	}

	input := services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Status != nil {
		status := models.ProjectStatus(*req.Status)
		input.Status = &status
	}

	project, err := h.projectService.UpdateProject(req.ID, userID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotProjectOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, services.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		case errors.Is(err, services.ErrInvalidProjectName), errors.Is(err, services.ErrInvalidProjectStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectSummaryDTO(*project))
}

// DeleteProjectByQuery handles DELETE /api/project?id=.
func (h *ProjectHandler) DeleteProjectByQuery(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	projectID, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil || projectID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID is required"})
		return
	}

	if err := h.projectService.DeleteProject(projectID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotProjectOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, services.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// ListProjects handles GET /api/projects. It returns every project the
// caller can see, owned or joined, with their tasks attached.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.ListProjects(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTOs(projects))
}

// ListMemberships handles GET /api/projects/memberships. It returns the
// caller's membership rows so a client can show joined projects with role
// badges.
func (h *ProjectHandler) ListMemberships(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.projectService.ListMemberships(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch memberships")
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberDTOs(memberships))
}

// GetProject handles GET /api/projects/:id. Access is enforced by
// middleware.RequireProjectAccess, which also loads the project.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project := c.MustGet("project").(*models.Project)

	loaded, members, err := h.projectService.GetProjectWithMembers(project.ID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch project")
		return
	}

	projectDTO := dto.ToProjectDTO(*loaded)
	projectDTO.Members = dto.ToMemberDTOs(members)
	c.JSON(http.StatusOK, projectDTO)
}

// UpdateProject handles PUT /api/projects/:id.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	project := c.MustGet("project").(*models.Project)

	type UpdateProjectRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Status != nil {
		status := models.ProjectStatus(*req.Status)
		input.Status = &status
	}

	updated, err := h.projectService.UpdateProject(project.ID, userID, input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectSummaryDTO(*updated))
}

// DeleteProject handles DELETE /api/projects/:id.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	project := c.MustGet("project").(*models.Project)

	if err := h.projectService.DeleteProject(project.ID, userID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// AddMember handles POST /api/projects/:id/members.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	project := c.MustGet("project").(*models.Project)

	type AddMemberRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
		Role   string `json:"role"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role := models.RoleMember
	if req.Role != "" {
		role = models.MemberRole(req.Role)
	}

	member, err := h.projectService.AddMember(project.ID, req.UserID, role)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMemberDTO(*member))
}

// RemoveMember handles DELETE /api/projects/:id/members/:userId.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	project := c.MustGet("project").(*models.Project)

	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.projectService.RemoveMember(project.ID, userID, targetID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound), errors.Is(err, services.ErrProjectMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProfileNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotProjectOwner):
		apierrors.Forbidden(c, "Only the project owner can do this")
	case errors.Is(err, services.ErrCannotRemoveOwner):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAlreadyProjectMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidProjectName), errors.Is(err, services.ErrInvalidProjectStatus),
		errors.Is(err, services.ErrInvalidMemberRole):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
