package ngos

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	"github.com/sharehub-app/sharehub-backend/pkg/enums"
	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
	"github.com/sharehub-app/sharehub-backend/pkg/geo"
	"github.com/sharehub-app/sharehub-backend/pkg/pagination"
)

const (
	maxNameLen        = 120
	maxDescriptionLen = 2000
	maxMissionLen     = 1000
)

// RegisterInput carries the fields for a new organization profile.
type RegisterInput struct {
	Name          string
	Description   string
	Mission       *string
	Website       *string
	ContactEmail  string
	ContactPhone  *string
	Address       *string
	City          *string
	Latitude      *float64
	Longitude     *float64
	AcceptedKinds []string
}

// UpdateInput carries a partial organization edit. Nil fields are
// left untouched.
type UpdateInput struct {
	Name          *string
	Description   *string
	Mission       *string
	Website       *string
	ContactEmail  *string
	ContactPhone  *string
	Address       *string
	City          *string
	Latitude      *float64
	Longitude     *float64
	ClearCoords   bool
	AcceptedKinds []string
}

// ListInput narrows the public directory listing.
type ListInput struct {
	AcceptedKind string
	VerifiedOnly bool
	City         string
	Viewer       *geo.Point
	Pagination   pagination.Params
}

// Service exposes the NGO directory operations.
type Service interface {
	Register(ctx context.Context, ownerID uuid.UUID, input RegisterInput) (*NGODTO, error)
	Update(ctx context.Context, userID, ngoID uuid.UUID, input UpdateInput) (*NGODTO, error)
	Get(ctx context.Context, ngoID uuid.UUID, viewer *geo.Point) (*NGODTO, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*NGODTO, error)
	List(ctx context.Context, input ListInput) (*NGOListResult, error)
	SetVerified(ctx context.Context, ngoID uuid.UUID, verified bool) (*NGODTO, error)
	RequestDonation(ctx context.Context, ngoOwnerID, itemID uuid.UUID) error
}

type itemLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type notifier interface {
	DonationRequested(ctx context.Context, item *models.Item, ngoName string) error
}

// ServiceParams bundles the service dependencies.
type ServiceParams struct {
	Repo     *Repository
	ItemRepo itemLoader
	UserRepo userLoader
	Notifier notifier
}

type service struct {
	repo     *Repository
	items    itemLoader
	users    userLoader
	notifier notifier
}

// NewService validates the dependencies and builds the NGO service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ngo repository is required")
	}
	if params.ItemRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "item repository is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository is required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifier is required")
	}
	return &service{repo: params.Repo, items: params.ItemRepo, users: params.UserRepo, notifier: params.Notifier}, nil
}

func (s *service) Register(ctx context.Context, ownerID uuid.UUID, input RegisterInput) (*NGODTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner is required")
	}
	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load account")
	}
	if owner.Role != enums.UserRoleNGO {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only ngo accounts can register an organization")
	}
	if _, err := s.repo.FindByOwner(ctx, owner.ID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "account already has an organization")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup organization")
	}

	row, err := buildNGO(owner.ID, input)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create organization")
	}
	dto := NewNGODTO(created, nil)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, userID, ngoID uuid.UUID, input UpdateInput) (*NGODTO, error) {
	row, err := s.loadOwned(ctx, userID, ngoID)
	if err != nil {
		return nil, err
	}
	if err := applyUpdate(row, input); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update organization")
	}
	dto := NewNGODTO(updated, nil)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, ngoID uuid.UUID, viewer *geo.Point) (*NGODTO, error) {
	row, err := s.load(ctx, ngoID)
	if err != nil {
		return nil, err
	}
	dto := NewNGODTO(row, viewer)
	return &dto, nil
}

func (s *service) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*NGODTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	row, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "organization not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup organization")
	}
	dto := NewNGODTO(row, nil)
	return &dto, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*NGOListResult, error) {
	if input.AcceptedKind != "" {
		if _, err := enums.ParseItemCategory(input.AcceptedKind); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown accepted kind")
		}
	}
	if input.Viewer != nil && !input.Viewer.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "viewer location is out of range")
	}

	rows, total, err := s.repo.List(ctx, listQuery{
		AcceptedKind: input.AcceptedKind,
		VerifiedOnly: input.VerifiedOnly,
		City:         strings.TrimSpace(input.City),
		Pagination:   input.Pagination,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list organizations")
	}

	result := &NGOListResult{
		NGOs: make([]NGODTO, 0, len(rows)),
		Meta: pagination.NewMeta(input.Pagination, total),
	}
	for i := range rows {
		result.NGOs = append(result.NGOs, NewNGODTO(&rows[i], input.Viewer))
	}
	return result, nil
}

func (s *service) SetVerified(ctx context.Context, ngoID uuid.UUID, verified bool) (*NGODTO, error) {
	row, err := s.load(ctx, ngoID)
	if err != nil {
		return nil, err
	}
	if row.Verified != verified {
		if err := s.repo.SetVerified(ctx, ngoID, verified); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set verified")
		}
		row.Verified = verified
	}
	dto := NewNGODTO(row, nil)
	return &dto, nil
}

func (s *service) RequestDonation(ctx context.Context, ngoOwnerID, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	org, err := s.repo.FindByOwner(ctx, ngoOwnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "account has no organization")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup organization")
	}
	if !org.Verified {
		return pkgerrors.New(pkgerrors.CodeForbidden, "organization is not verified")
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load listing")
	}
	if item.ListingType != enums.ListingTypeDonate {
		return pkgerrors.New(pkgerrors.CodeValidation, "listing is not a donation")
	}
	if item.Status != enums.ItemStatusActive {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "listing is no longer available")
	}
	if item.OwnerID == ngoOwnerID {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot request your own listing")
	}

	if err := s.notifier.DonationRequested(ctx, item, org.Name); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "notify owner")
	}
	return nil
}

func (s *service) load(ctx context.Context, ngoID uuid.UUID) (*models.NGO, error) {
	if ngoID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "organization id is required")
	}
	row, err := s.repo.FindByID(ctx, ngoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "organization not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load organization")
	}
	return row, nil
}

func (s *service) loadOwned(ctx context.Context, userID, ngoID uuid.UUID) (*models.NGO, error) {
	row, err := s.load(ctx, ngoID)
	if err != nil {
		return nil, err
	}
	if row.OwnerID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not the organization owner")
	}
	return row, nil
}

func buildNGO(ownerID uuid.UUID, input RegisterInput) (*models.NGO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxNameLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must be between 1 and 120 characters")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" || len(description) > maxDescriptionLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description must be between 1 and 2000 characters")
	}
	email := strings.ToLower(strings.TrimSpace(input.ContactEmail))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact email is required")
	}
	kinds, err := normalizeKinds(input.AcceptedKinds)
	if err != nil {
		return nil, err
	}
	if err := validateCoords(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}
	if input.Mission != nil && len(*input.Mission) > maxMissionLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mission must be at most 1000 characters")
	}

	return &models.NGO{
		OwnerID:       ownerID,
		Name:          name,
		Description:   description,
		Mission:       input.Mission,
		Website:       input.Website,
		ContactEmail:  email,
		ContactPhone:  input.ContactPhone,
		Address:       input.Address,
		City:          input.City,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		AcceptedKinds: kinds,
	}, nil
}

func applyUpdate(row *models.NGO, input UpdateInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" || len(name) > maxNameLen {
			return pkgerrors.New(pkgerrors.CodeValidation, "name must be between 1 and 120 characters")
		}
		row.Name = name
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" || len(description) > maxDescriptionLen {
			return pkgerrors.New(pkgerrors.CodeValidation, "description must be between 1 and 2000 characters")
		}
		row.Description = description
	}
	if input.Mission != nil {
		if len(*input.Mission) > maxMissionLen {
			return pkgerrors.New(pkgerrors.CodeValidation, "mission must be at most 1000 characters")
		}
		row.Mission = input.Mission
	}
	if input.Website != nil {
		row.Website = input.Website
	}
	if input.ContactEmail != nil {
		email := strings.ToLower(strings.TrimSpace(*input.ContactEmail))
		if email == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "contact email is required")
		}
		row.ContactEmail = email
	}
	if input.ContactPhone != nil {
		row.ContactPhone = input.ContactPhone
	}
	if input.Address != nil {
		row.Address = input.Address
	}
	if input.City != nil {
		row.City = input.City
	}
	if input.ClearCoords {
		row.Latitude = nil
		row.Longitude = nil
	} else if input.Latitude != nil || input.Longitude != nil {
		if err := validateCoords(input.Latitude, input.Longitude); err != nil {
			return err
		}
		row.Latitude = input.Latitude
		row.Longitude = input.Longitude
	}
	if input.AcceptedKinds != nil {
		kinds, err := normalizeKinds(input.AcceptedKinds)
		if err != nil {
			return err
		}
		row.AcceptedKinds = kinds
	}
	return nil
}

func normalizeKinds(kinds []string) ([]string, error) {
	seen := make(map[string]struct{}, len(kinds))
	out := make([]string, 0, len(kinds))
	for _, raw := range kinds {
		kind, err := enums.ParseItemCategory(strings.TrimSpace(raw))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown accepted kind")
		}
		if _, dup := seen[kind.String()]; dup {
			continue
		}
		seen[kind.String()] = struct{}{}
		out = append(out, kind.String())
	}
	return out, nil
}

func validateCoords(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return pkgerrors.New(pkgerrors.CodeValidation, "latitude and longitude must be provided together")
	}
	if lat == nil {
		return nil
	}
	if !(geo.Point{Lat: *lat, Lng: *lng}).Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "coordinates are out of range")
	}
	return nil
}
