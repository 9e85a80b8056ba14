package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
	paginationpkg "github.com/sharehub-app/sharehub-backend/pkg/pagination"
)

type fakeRepository struct {
	created       []*models.Notification
	listFn        func(ctx context.Context, params listNotificationsParams) ([]models.Notification, int64, error)
	markReadFn    func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	markAllReadFn func(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, notification *models.Notification) error {
	f.created = append(f.created, notification)
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, 0, nil
}

func (f *fakeRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(f.created)), nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, userID, notificationID, now)
	}
	return notificationMarkResult{}, nil
}

func (f *fakeRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	if f.markAllReadFn != nil {
		return f.markAllReadFn(ctx, userID, now)
	}
	return 0, nil
}

func newServiceWithRepo(repo Repository) Service {
	svc, _ := NewService(repo)
	return svc
}

func TestService_List(t *testing.T) {
	userID := uuid.New()
	rows := []models.Notification{
		{ID: uuid.New(), UserID: userID, CreatedAt: time.Now()},
		{ID: uuid.New(), UserID: userID, CreatedAt: time.Now().Add(-time.Hour)},
	}

	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listNotificationsParams) ([]models.Notification, int64, error) {
			if params.UserID != userID {
				t.Fatalf("unexpected user id %s", params.UserID)
			}
			if !params.UnreadOnly {
				t.Fatal("expected unread-only query")
			}
			return rows, 25, nil
		},
	}
	svc := newServiceWithRepo(repo)

	result, err := svc.List(context.Background(), ListParams{
		UserID:     userID,
		Pagination: paginationpkg.Params{Page: 1, Limit: 2},
		UnreadOnly: true,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Meta.TotalItems != 25 {
		t.Fatalf("expected total 25, got %d", result.Meta.TotalItems)
	}
	if result.Meta.TotalPages != 13 {
		t.Fatalf("expected 13 pages, got %d", result.Meta.TotalPages)
	}
}

func TestService_ListRequiresUser(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})

	_, err := svc.List(context.Background(), ListParams{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_MarkRead(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := &fakeRepository{
			markReadFn: func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
				return notificationMarkResult{Updated: true, Found: true}, nil
			},
		}
		svc := newServiceWithRepo(repo)
		if err := svc.MarkRead(context.Background(), uuid.New(), uuid.New()); err != nil {
			t.Fatalf("mark read: %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		repo := &fakeRepository{
			markReadFn: func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
				return notificationMarkResult{}, nil
			},
		}
		svc := newServiceWithRepo(repo)
		err := svc.MarkRead(context.Background(), uuid.New(), uuid.New())
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})

	t.Run("repoError", func(t *testing.T) {
		repo := &fakeRepository{
			markReadFn: func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
				return notificationMarkResult{}, errors.New("boom")
			},
		}
		svc := newServiceWithRepo(repo)
		err := svc.MarkRead(context.Background(), uuid.New(), uuid.New())
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
			t.Fatalf("expected dependency error, got %v", err)
		}
	})
}

func TestService_MarkAllRead(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
			return 7, nil
		},
	}
	svc := newServiceWithRepo(repo)

	count, err := svc.MarkAllRead(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	if count != 7 {
		t.Fatalf("expected 7 updated rows, got %d", count)
	}
}

func TestEmitterItemFavorited(t *testing.T) {
	repo := &fakeRepository{}
	emitter, err := NewEmitter(repo)
	if err != nil {
		t.Fatalf("build emitter: %v", err)
	}

	ownerID := uuid.New()
	row := &models.Item{ID: uuid.New(), OwnerID: ownerID, Title: "Warm Blanket"}
	if err := emitter.ItemFavorited(context.Background(), row); err != nil {
		t.Fatalf("emit: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(repo.created))
	}
	created := repo.created[0]
	if created.UserID != ownerID {
		t.Fatalf("notification must target the owner, got %s", created.UserID)
	}
	if created.Link == nil || *created.Link != "/items/"+row.ID.String() {
		t.Fatalf("unexpected link %v", created.Link)
	}
}

func TestEmitterItemStatusChangedSkipsOwner(t *testing.T) {
	repo := &fakeRepository{}
	emitter, _ := NewEmitter(repo)

	ownerID := uuid.New()
	watcher := uuid.New()
	row := &models.Item{ID: uuid.New(), OwnerID: ownerID, Title: "Bookshelf"}

	if err := emitter.ItemStatusChanged(context.Background(), row, []uuid.UUID{ownerID, watcher}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(repo.created))
	}
	if repo.created[0].UserID != watcher {
		t.Fatalf("expected watcher notification, got %s", repo.created[0].UserID)
	}
}
