package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RichmondRamil/task-management/internal/constants"
	"github.com/RichmondRamil/task-management/internal/models"
	"github.com/RichmondRamil/task-management/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrEmailRequired        = errors.New("email is required")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	profileRepo repository.ProfileRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(profileRepo repository.ProfileRepository) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
	}
}

// SignupInput represents the required information to create a new account.
type SignupInput struct {
	Email    string
	Password string
	FullName *string
}

// Signup creates a new profile with a hashed password.
func (s *AuthService) Signup(input SignupInput) (*models.Profile, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.profileRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	profile := &models.Profile{
		Email:        email,
		PasswordHash: string(hashedPassword),
		FullName:     input.FullName,
	}

	// The FindByEmail check above races with concurrent signups; the
	// insert is idempotent on email and settles who won.
	created, err := s.profileRepo.Upsert(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	if !created {
		return nil, ErrEmailTaken
	}

	return profile, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated profile.
func (s *AuthService) Login(input LoginInput) (*models.Profile, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	profile, err := s.profileRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return profile, nil
}

// GetProfile retrieves a profile by ID.
func (s *AuthService) GetProfile(id uint64) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return profile, nil
}

// UpdateProfileInput holds the mutable profile fields.
type UpdateProfileInput struct {
	FullName  *string
	AvatarURL *string
	Bio       *string
}

// UpdateProfile updates the caller's own profile.
func (s *AuthService) UpdateProfile(id uint64, input UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.GetProfile(id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		profile.FullName = input.FullName
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = input.AvatarURL
	}
	if input.Bio != nil {
		profile.Bio = input.Bio
	}

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

// ListProfiles returns the profile directory for assignee lookups.
func (s *AuthService) ListProfiles() ([]models.Profile, error) {
	profiles, err := s.profileRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}
