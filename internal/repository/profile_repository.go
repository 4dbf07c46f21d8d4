package repository

import (
	"github.com/RichmondRamil/task-management/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProfileRepository is a GORM implementation of ProfileRepository
type GormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &GormProfileRepository{db: db}
}

// Create creates a new profile
func (r *GormProfileRepository) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// Update updates a profile
func (r *GormProfileRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

// Upsert creates the profile unless its email is already registered. It
// reports whether a row was inserted, so concurrent signups racing on the
// same email resolve to exactly one created profile instead of an error.
func (r *GormProfileRepository) Upsert(profile *models.Profile) (bool, error) {
	result := r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(profile)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindByID finds a profile by ID
func (r *GormProfileRepository) FindByID(id uint64) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByEmail finds a profile by email
func (r *GormProfileRepository) FindByEmail(email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns all profiles ordered by full name
func (r *GormProfileRepository) List() ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.Order("full_name ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
