package admin

import (
	"context"

	"github.com/google/uuid"

	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	"github.com/sharehub-app/sharehub-backend/pkg/enums"
	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
	"github.com/sharehub-app/sharehub-backend/pkg/pagination"
)

// DashboardStats is the snapshot served on the admin dashboard.
type DashboardStats struct {
	TotalUsers     int64            `json:"total_users"`
	TotalItems     int64            `json:"total_items"`
	ItemsByStatus  map[string]int64 `json:"items_by_status"`
	TotalNGOs      int64            `json:"total_ngos"`
	ActiveListings int64            `json:"active_listings"`
}

type userStore interface {
	Count(ctx context.Context) (int64, error)
	SetActive(ctx context.Context, userID uuid.UUID, active bool) error
	List(ctx context.Context, params pagination.Params) ([]models.User, int64, error)
}

type itemStore interface {
	CountByStatus(ctx context.Context) (map[enums.ItemStatus]int64, error)
}

type ngoStore interface {
	Count(ctx context.Context) (int64, error)
}

// UserRow is the moderation view of an account.
type UserRow struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
}

// UsersPage is one page of the moderation account list.
type UsersPage struct {
	Users []UserRow       `json:"users"`
	Meta  pagination.Meta `json:"meta"`
}

// Service exposes the admin dashboard and moderation operations.
type Service interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	ListUsers(ctx context.Context, params pagination.Params) (*UsersPage, error)
	SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error
}

// ServiceParams bundles the stores the admin service reads from.
type ServiceParams struct {
	Users userStore
	Items itemStore
	NGOs  ngoStore
}

type service struct {
	users userStore
	items itemStore
	ngos  ngoStore
}

// NewService validates the dependencies and builds the admin service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user store is required")
	}
	if params.Items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "item store is required")
	}
	if params.NGOs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ngo store is required")
	}
	return &service{users: params.Users, items: params.Items, ngos: params.NGOs}, nil
}

func (s *service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}
	byStatus, err := s.items.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count items")
	}
	ngos, err := s.ngos.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count organizations")
	}

	stats := &DashboardStats{
		TotalUsers:    users,
		TotalNGOs:     ngos,
		ItemsByStatus: make(map[string]int64, len(byStatus)),
	}
	for status, count := range byStatus {
		stats.ItemsByStatus[status.String()] = count
		stats.TotalItems += count
	}
	stats.ActiveListings = byStatus[enums.ItemStatusActive]
	return stats, nil
}

func (s *service) ListUsers(ctx context.Context, params pagination.Params) (*UsersPage, error) {
	rows, total, err := s.users.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	page := &UsersPage{
		Users: make([]UserRow, 0, len(rows)),
		Meta:  pagination.NewMeta(params, total),
	}
	for i := range rows {
		page.Users = append(page.Users, newUserRow(&rows[i]))
	}
	return page, nil
}

func newUserRow(row *models.User) UserRow {
	return UserRow{
		ID:        row.ID,
		Email:     row.Email,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Role:      row.Role.String(),
		IsActive:  row.IsActive,
	}
}

func (s *service) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set user active")
	}
	return nil
}
