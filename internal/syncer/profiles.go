package syncer

import (
	"sync"

	"github.com/RichmondRamil/task-management/internal/dto"
	"github.com/RichmondRamil/task-management/internal/models"
)

// ProfileSource is the slice of the auth service the directory needs.
type ProfileSource interface {
	ListProfiles() ([]models.Profile, error)
}

// ProfileDirectory caches the profile listing that backs assignee pickers
// and member displays. Profiles change rarely, so the cache is refreshed
// explicitly rather than invalidated.
type ProfileDirectory struct {
	mu       sync.RWMutex
	source   ProfileSource
	profiles []dto.ProfileDTO
	byID     map[uint64]dto.ProfileDTO
}

// NewProfileDirectory creates an empty directory. Call Refresh to populate.
func NewProfileDirectory(source ProfileSource) *ProfileDirectory {
	return &ProfileDirectory{
		source: source,
		byID:   make(map[uint64]dto.ProfileDTO),
	}
}

// Refresh reloads the directory from the source.
func (d *ProfileDirectory) Refresh() error {
	profiles, err := d.source.ListProfiles()
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.profiles = make([]dto.ProfileDTO, 0, len(profiles))
	d.byID = make(map[uint64]dto.ProfileDTO, len(profiles))
	for _, profile := range profiles {
		profileDTO := dto.ToProfileDTO(profile)
		d.profiles = append(d.profiles, profileDTO)
		d.byID[profileDTO.ID] = profileDTO
	}
	d.mu.Unlock()
	return nil
}

// Profiles returns a snapshot of the directory, ordered by display name.
func (d *ProfileDirectory) Profiles() []dto.ProfileDTO {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append(d.profiles[:0:0], d.profiles...)
}

// Lookup returns the cached profile with the given id.
func (d *ProfileDirectory) Lookup(id uint64) (dto.ProfileDTO, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	profile, ok := d.byID[id]
	return profile, ok
}
