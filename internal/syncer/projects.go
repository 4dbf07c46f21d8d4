package syncer

import (
	"sync"

	"github.com/RichmondRamil/task-management/internal/dto"
	"github.com/RichmondRamil/task-management/internal/models"
	"github.com/RichmondRamil/task-management/internal/services"
)

// ProjectSource is the slice of the project service the synchronizer needs.
type ProjectSource interface {
	ListProjects(userID uint64) ([]models.Project, error)
	CreateProject(input services.CreateProjectInput) (*models.Project, error)
	UpdateProject(projectID, actorID uint64, input services.UpdateProjectInput) (*models.Project, error)
	DeleteProject(projectID, actorID uint64) error
	AddMember(projectID, userID uint64, role models.MemberRole) (*models.ProjectMember, error)
}

// ProjectSyncer keeps an in-memory mirror of one user's projects. Unlike
// tasks, projects have no change feed; the mirror is maintained by routing
// every project mutation through the syncer itself.
type ProjectSyncer struct {
	mu       sync.RWMutex
	source   ProjectSource
	userID   uint64
	projects []dto.ProjectDTO
}

// NewProjectSyncer creates a mirror of the given user's projects. Call
// Refresh to populate it.
func NewProjectSyncer(source ProjectSource, userID uint64) *ProjectSyncer {
	return &ProjectSyncer{
		source: source,
		userID: userID,
	}
}

// Refresh replaces the mirror with the source's current state.
func (s *ProjectSyncer) Refresh() error {
	projects, err := s.source.ListProjects(s.userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.projects = dto.ToProjectDTOs(projects)
	s.mu.Unlock()
	return nil
}

// Projects returns a snapshot of the mirror.
func (s *ProjectSyncer) Projects() []dto.ProjectDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(s.projects[:0:0], s.projects...)
}

// CreateProject creates a project and prepends it to the mirror, matching
// the newest-first listing order.
func (s *ProjectSyncer) CreateProject(name string, description *string) (*dto.ProjectDTO, error) {
	project, err := s.source.CreateProject(services.CreateProjectInput{
		Name:        name,
		Description: description,
		OwnerID:     s.userID,
	})
	if err != nil {
		return nil, err
	}

	projectDTO := dto.ToProjectDTO(*project)
	s.mu.Lock()
	s.projects = append([]dto.ProjectDTO{projectDTO}, s.projects...)
	s.mu.Unlock()
	return &projectDTO, nil
}

// UpdateProject applies a partial update and refetches the listing. A
// refetch is simpler than merging here: updates can change fields the
// listing is ordered or filtered on.
func (s *ProjectSyncer) UpdateProject(projectID uint64, input services.UpdateProjectInput) error {
	if _, err := s.source.UpdateProject(projectID, s.userID, input); err != nil {
		return err
	}
	return s.Refresh()
}

// DeleteProject deletes a project and drops it from the mirror.
func (s *ProjectSyncer) DeleteProject(projectID uint64) error {
	if err := s.source.DeleteProject(projectID, s.userID); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.projects {
		if s.projects[i].ID == projectID {
			s.projects = append(s.projects[:i], s.projects[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// AddMember enrolls a user in a project and refetches the listing so the
// mirror picks up the new membership.
func (s *ProjectSyncer) AddMember(projectID, userID uint64, role models.MemberRole) error {
	if _, err := s.source.AddMember(projectID, userID, role); err != nil {
		return err
	}
	return s.Refresh()
}
