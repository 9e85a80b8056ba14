package favorites

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
)

type stubItemLoader struct {
	rows map[uuid.UUID]*models.Item
}

func (s *stubItemLoader) FindByID(_ context.Context, id uuid.UUID) (*models.Item, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

type recordingNotifier struct {
	favorited []uuid.UUID
}

func (r *recordingNotifier) ItemFavorited(_ context.Context, item *models.Item) error {
	r.favorited = append(r.favorited, item.ID)
	return nil
}

func TestServiceAddValidations(t *testing.T) {
	ownerID := uuid.New()
	itemID := uuid.New()
	loader := &stubItemLoader{rows: map[uuid.UUID]*models.Item{
		itemID: {ID: itemID, OwnerID: ownerID},
	}}
	svc, err := NewService(ServiceParams{
		FavoritesRepo: NewRepository(nil),
		ItemRepo:      loader,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	t.Run("missingItemID", func(t *testing.T) {
		err := svc.Add(context.Background(), uuid.New(), uuid.Nil)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknownItem", func(t *testing.T) {
		err := svc.Add(context.Background(), uuid.New(), uuid.New())
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})

	t.Run("ownListing", func(t *testing.T) {
		err := svc.Add(context.Background(), ownerID, itemID)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestServiceRemoveRequiresItemID(t *testing.T) {
	svc, err := NewService(ServiceParams{
		FavoritesRepo: NewRepository(nil),
		ItemRepo:      &stubItemLoader{},
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	err = svc.Remove(context.Background(), uuid.New(), uuid.Nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewServiceRequiresDeps(t *testing.T) {
	if _, err := NewService(ServiceParams{ItemRepo: &stubItemLoader{}}); err == nil {
		t.Fatal("expected error without favorites repo")
	}
	if _, err := NewService(ServiceParams{FavoritesRepo: NewRepository(nil)}); err == nil {
		t.Fatal("expected error without item repo")
	}
}
