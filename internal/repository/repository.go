package repository

import (
	"time"

	"github.com/RichmondRamil/task-management/internal/models"
)

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	// Create creates a new profile
	Create(profile *models.Profile) error

	// Upsert creates the profile unless the email is taken, reporting
	// whether a row was inserted. Concurrent signups may race on the same
	// email, so the write is idempotent on it.
	Upsert(profile *models.Profile) (bool, error)

	// Update updates a profile
	Update(profile *models.Profile) error

	// FindByID finds a profile by ID
	FindByID(id uint64) (*models.Profile, error)

	// FindByEmail finds a profile by email
	FindByEmail(email string) (*models.Profile, error)

	// List returns all profiles ordered by full name
	List() ([]models.Profile, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithOwner creates a project and its owner membership row within
	// a single transaction.
	CreateWithOwner(project *models.Project, member *models.ProjectMember) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// ListAccessible lists projects the user owns or is a member of,
	// newest first, with their tasks attached.
	ListAccessible(userID uint64) ([]models.Project, error)

	// ListOwned lists projects owned by the user
	ListOwned(userID uint64) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project and all related data
	Delete(id uint64) error

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// RemoveMember removes a member from a project
	RemoveMember(projectID, userID uint64) error

	// FindMember finds a specific project member
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembers lists all members of a project
	ListMembers(projectID uint64) ([]models.ProjectMember, error)

	// ListMembershipsByUserID lists all memberships held by a user
	ListMembershipsByUserID(userID uint64) ([]models.ProjectMember, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// CreateWithMembership creates a task and, when the task carries both a
	// project and an assignee, ensures the assignee's membership row exists.
	// Both writes happen in one transaction.
	CreateWithMembership(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// UpdateColumns applies a partial column update to a task
	UpdateColumns(id uint64, updates map[string]any) error

	// DeleteWithMembershipCleanup deletes a task and removes the assignee's
	// membership when no other task by that assignee remains in the
	// project. Returns whether the membership row was removed.
	DeleteWithMembershipCleanup(id uint64) (bool, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectIDs    []uint64
	ProjectID     *uint64
	Status        *models.TaskStatus
	AssigneeID    *uint64
	CreatedBy     *uint64
	DueDateFrom   *time.Time
	DueDateTo     *time.Time
	SortByDueDate bool
	Page          int
	PageSize      int
}
