package handlers

import (
	"net/http"

	"github.com/RichmondRamil/task-management/internal/dto"
	apierrors "github.com/RichmondRamil/task-management/internal/errors"
	"github.com/RichmondRamil/task-management/internal/middleware"
	"github.com/RichmondRamil/task-management/internal/services"
	"github.com/gin-gonic/gin"
)

// ProfileHandler coordinates profile directory handlers.
type ProfileHandler struct {
	authService *services.AuthService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(authService *services.AuthService) *ProfileHandler {
	return &ProfileHandler{
		authService: authService,
	}
}

// ListProfiles handles GET /api/profiles. The directory backs assignee
// pickers, so it returns every profile ordered by display name.
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.authService.ListProfiles()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch profiles")
		return
	}

	dtos := make([]dto.ProfileDTO, 0, len(profiles))
	for _, profile := range profiles {
		dtos = append(dtos, dto.ToProfileDTO(profile))
	}

	c.JSON(http.StatusOK, dtos)
}

// UpdateProfile handles PATCH /api/profiles/me.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateProfileRequest struct {
		FullName  *string `json:"full_name"`
		AvatarURL *string `json:"avatar_url"`
		Bio       *string `json:"bio"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.authService.UpdateProfile(userID, services.UpdateProfileInput{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*profile))
}
