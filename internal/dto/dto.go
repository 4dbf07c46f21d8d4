package dto

import (
	"time"

	"github.com/RichmondRamil/task-management/internal/models"
)

// ProfileDTO represents a profile in API responses
type ProfileDTO struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"fullName"`
	AvatarURL *string   `json:"avatarUrl"`
	Bio       *string   `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProjectSummaryDTO is the minimal project shape attached to tasks
type ProjectSummaryDTO struct {
	ID     uint64               `json:"id"`
	Name   string               `json:"name"`
	Status models.ProjectStatus `json:"status"`
}

// MemberDTO represents a project membership in API responses
type MemberDTO struct {
	ProjectID uint64             `json:"projectId"`
	UserID    uint64             `json:"userId"`
	Role      models.MemberRole  `json:"role"`
	JoinedAt  time.Time          `json:"joinedAt"`
	User      *ProfileDTO        `json:"user,omitempty"`
	Project   *ProjectSummaryDTO `json:"project,omitempty"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64               `json:"id"`
	Name        string               `json:"name"`
	Description *string              `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	OwnerID     uint64               `json:"ownerId"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	Tasks       []TaskView           `json:"tasks,omitempty"`
	Members     []MemberDTO          `json:"members,omitempty"`
}

// ToProfileDTO converts a Profile model to ProfileDTO
func ToProfileDTO(p models.Profile) ProfileDTO {
	return ProfileDTO{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		AvatarURL: p.AvatarURL,
		Bio:       p.Bio,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToProjectSummaryDTO converts a Project model to its task-attached summary
func ToProjectSummaryDTO(p models.Project) ProjectSummaryDTO {
	return ProjectSummaryDTO{
		ID:     p.ID,
		Name:   p.Name,
		Status: p.Status,
	}
}

// ToMemberDTO converts a membership row to MemberDTO
func ToMemberDTO(m models.ProjectMember) MemberDTO {
	dto := MemberDTO{
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      m.Role,
		JoinedAt:  m.JoinedAt,
	}
	if m.User.ID != 0 {
		user := ToProfileDTO(m.User)
		dto.User = &user
	}
	if m.Project.ID != 0 {
		project := ToProjectSummaryDTO(m.Project)
		dto.Project = &project
	}
	return dto
}

// ToMemberDTOs converts a slice of membership rows
func ToMemberDTOs(members []models.ProjectMember) []MemberDTO {
	dtos := make([]MemberDTO, len(members))
	for i, m := range members {
		dtos[i] = ToMemberDTO(m)
	}
	return dtos
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(p models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	if len(p.Tasks) > 0 {
		dto.Tasks = make([]TaskView, len(p.Tasks))
		for i, task := range p.Tasks {
			dto.Tasks[i] = ToTaskView(task)
		}
	}

	if len(p.Members) > 0 {
		dto.Members = make([]MemberDTO, len(p.Members))
		for i, member := range p.Members {
			dto.Members[i] = ToMemberDTO(member)
		}
	}

	return dto
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = ToProjectDTO(p)
	}
	return dtos
}
