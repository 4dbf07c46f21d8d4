package repository

import (
	"errors"
	"time"

	"github.com/RichmondRamil/task-management/internal/database"
	"github.com/RichmondRamil/task-management/internal/models"
	"github.com/RichmondRamil/task-management/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// CreateWithMembership creates the task and ensures the assignee's
// membership row in one transaction. The membership insert and the task
// insert succeed or fail together.
func (r *GormTaskRepository) CreateWithMembership(task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if task.AssigneeID != nil && task.ProjectID != nil {
			var member models.ProjectMember
			err := tx.Where("project_id = ? AND user_id = ?", *task.ProjectID, *task.AssigneeID).
				First(&member).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				member = models.ProjectMember{
					ProjectID: *task.ProjectID,
					UserID:    *task.AssigneeID,
					Role:      models.RoleMember,
					JoinedAt:  time.Now(),
				}
				if err := tx.Create(&member).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
		}

		return tx.Create(task).Error
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination, joined with their
// creator, assignee, and project summaries.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if len(filter.ProjectIDs) > 0 {
		query = query.Where("tasks.project_id IN ?", filter.ProjectIDs)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.AssigneeID != nil {
		query = query.Where("tasks.assignee_id = ?", *filter.AssigneeID)
	}
	if filter.CreatedBy != nil {
		query = query.Where("tasks.created_by = ?", *filter.CreatedBy)
	}
	if filter.DueDateFrom != nil {
		query = query.Where("tasks.due_date >= ?", *filter.DueDateFrom)
	}
	if filter.DueDateTo != nil {
		query = query.Where("tasks.due_date < ?", *filter.DueDateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	if filter.SortByDueDate {
		listQuery = listQuery.Order("CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC")
	} else {
		listQuery = listQuery.Order("tasks.created_at DESC")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.
		Preload("Creator").
		Preload("Assignee").
		Preload("Project").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// UpdateColumns applies a partial column update to a task
func (r *GormTaskRepository) UpdateColumns(id uint64, updates map[string]any) error {
	result := r.db.Model(&models.Task{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteWithMembershipCleanup deletes the task and conditionally removes
// the assignee's membership, all inside one transaction so a concurrent
// task creation cannot interleave between the count and the delete.
func (r *GormTaskRepository) DeleteWithMembershipCleanup(id uint64) (bool, error) {
	removedMembership := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Task{}, id).Error; err != nil {
			return err
		}

		if task.AssigneeID == nil || task.ProjectID == nil {
			return nil
		}

		var remaining int64
		if err := tx.Model(&models.Task{}).
			Where("project_id = ? AND assignee_id = ? AND id <> ?", *task.ProjectID, *task.AssigneeID, id).
			Count(&remaining).Error; err != nil {
			return err
		}

		if remaining > 0 {
			return nil
		}

		var member models.ProjectMember
		if err := tx.Where("project_id = ? AND user_id = ?", *task.ProjectID, *task.AssigneeID).
			First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		// The owner membership row is created with the project and must
		// survive task churn.
		if member.Role == models.RoleOwner {
			return nil
		}

		if err := tx.Where("project_id = ? AND user_id = ?", *task.ProjectID, *task.AssigneeID).
			Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		removedMembership = true

		return nil
	})

	return removedMembership, err
}
