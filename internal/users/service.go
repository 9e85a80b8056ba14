package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
)

const (
	maxNameLen = 80
	maxBioLen  = 500
)

// Service exposes profile reads and updates for the signed-in user.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error)
}

// UpdateProfileInput holds optional profile mutations. Nil fields are left
// untouched.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	City      *string
	Bio       *string
	AvatarURL *string
}

type service struct {
	repo *Repository
}

// NewService constructs a users service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if input.FirstName != nil {
		name := strings.TrimSpace(*input.FirstName)
		if err := validateName(name, "first_name"); err != nil {
			return nil, err
		}
		user.FirstName = name
	}
	if input.LastName != nil {
		name := strings.TrimSpace(*input.LastName)
		if err := validateName(name, "last_name"); err != nil {
			return nil, err
		}
		user.LastName = name
	}
	if input.Phone != nil {
		user.Phone = normalizeOptional(*input.Phone)
	}
	if input.City != nil {
		user.City = normalizeOptional(*input.City)
	}
	if input.Bio != nil {
		bio := strings.TrimSpace(*input.Bio)
		if len(bio) > maxBioLen {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("bio exceeds %d characters", maxBioLen))
		}
		user.Bio = normalizeOptional(bio)
	}
	if input.AvatarURL != nil {
		user.AvatarURL = normalizeOptional(*input.AvatarURL)
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update user")
	}
	return FromModel(updated), nil
}

func validateName(value, field string) error {
	if value == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
	}
	if len(value) > maxNameLen {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s exceeds %d characters", field, maxNameLen))
	}
	return nil
}

func normalizeOptional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
