package admin

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	"github.com/sharehub-app/sharehub-backend/pkg/enums"
	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
	"github.com/sharehub-app/sharehub-backend/pkg/pagination"
)

type stubUserStore struct {
	count     int64
	rows      []models.User
	total     int64
	activated map[uuid.UUID]bool
}

func (s *stubUserStore) Count(context.Context) (int64, error) { return s.count, nil }

func (s *stubUserStore) SetActive(_ context.Context, userID uuid.UUID, active bool) error {
	if s.activated == nil {
		s.activated = map[uuid.UUID]bool{}
	}
	s.activated[userID] = active
	return nil
}

func (s *stubUserStore) List(context.Context, pagination.Params) ([]models.User, int64, error) {
	return s.rows, s.total, nil
}

type stubItemStore struct {
	byStatus map[enums.ItemStatus]int64
}

func (s *stubItemStore) CountByStatus(context.Context) (map[enums.ItemStatus]int64, error) {
	return s.byStatus, nil
}

type stubNGOStore struct {
	count int64
}

func (s *stubNGOStore) Count(context.Context) (int64, error) { return s.count, nil }

func newTestService(t *testing.T, users *stubUserStore, items *stubItemStore, ngos *stubNGOStore) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Users: users, Items: items, NGOs: ngos})
	require.NoError(t, err)
	return svc
}

func TestServiceDashboard(t *testing.T) {
	svc := newTestService(t,
		&stubUserStore{count: 42},
		&stubItemStore{byStatus: map[enums.ItemStatus]int64{
			enums.ItemStatusActive: 10,
			enums.ItemStatusSold:   3,
		}},
		&stubNGOStore{count: 5},
	)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(42), stats.TotalUsers)
	require.Equal(t, int64(13), stats.TotalItems)
	require.Equal(t, int64(10), stats.ActiveListings)
	require.Equal(t, int64(5), stats.TotalNGOs)
	require.Equal(t, int64(3), stats.ItemsByStatus["sold"])
}

func TestServiceListUsers(t *testing.T) {
	users := &stubUserStore{
		rows: []models.User{
			{Email: "a@sharehub.pk", FirstName: "Ayesha", Role: enums.UserRoleMember, IsActive: true},
		},
		total: 30,
	}
	svc := newTestService(t, users, &stubItemStore{}, &stubNGOStore{})

	page, err := svc.ListUsers(context.Background(), pagination.Params{Page: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	require.Equal(t, "a@sharehub.pk", page.Users[0].Email)
	require.Equal(t, "member", page.Users[0].Role)
	require.Equal(t, 3, page.Meta.TotalPages)
}

func TestServiceSetUserActive(t *testing.T) {
	users := &stubUserStore{}
	svc := newTestService(t, users, &stubItemStore{}, &stubNGOStore{})

	t.Run("rejects missing id", func(t *testing.T) {
		err := svc.SetUserActive(context.Background(), uuid.Nil, false)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("suspends the account", func(t *testing.T) {
		userID := uuid.New()
		require.NoError(t, svc.SetUserActive(context.Background(), userID, false))
		require.False(t, users.activated[userID])
	})
}
