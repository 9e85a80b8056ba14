package item

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	"github.com/sharehub-app/sharehub-backend/pkg/enums"
	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
	"github.com/sharehub-app/sharehub-backend/pkg/geo"
)

func TestValidatePrice(t *testing.T) {
	price := decimal.NewFromInt(25)
	negative := decimal.NewFromInt(-1)

	t.Run("sellRequiresPrice", func(t *testing.T) {
		err := validatePrice(enums.ListingTypeSell, nil)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("sellRejectsNegative", func(t *testing.T) {
		err := validatePrice(enums.ListingTypeSell, &negative)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("sellAcceptsPrice", func(t *testing.T) {
		if err := validatePrice(enums.ListingTypeSell, &price); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("donateRejectsPrice", func(t *testing.T) {
		err := validatePrice(enums.ListingTypeDonate, &price)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("exchangeWithoutPrice", func(t *testing.T) {
		if err := validatePrice(enums.ListingTypeExchange, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestValidateCoords(t *testing.T) {
	lat := 31.5204
	lng := 74.3587
	badLat := 95.0

	t.Run("bothPresent", func(t *testing.T) {
		if err := validateCoords(&lat, &lng); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("bothAbsent", func(t *testing.T) {
		if err := validateCoords(nil, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("latOnly", func(t *testing.T) {
		if err := validateCoords(&lat, nil); err == nil {
			t.Fatal("expected validation error for lone latitude")
		}
	})

	t.Run("outOfRange", func(t *testing.T) {
		if err := validateCoords(&badLat, &lng); err == nil {
			t.Fatal("expected validation error for latitude out of range")
		}
	})
}

func TestApplyUpdateToItem(t *testing.T) {
	price := decimal.NewFromInt(40)
	row := &models.Item{
		Title:       "old title",
		Description: "old description",
		ListingType: enums.ListingTypeSell,
		Price:       &price,
		Latitude:    floatPtr(31.5),
		Longitude:   floatPtr(74.3),
	}

	title := "  New Title  "
	description := "refreshed description"
	donate := enums.ListingTypeDonate
	input := UpdateItemInput{
		Title:       &title,
		Description: &description,
		ListingType: &donate,
		ClearPrice:  true,
		ClearCoords: true,
	}

	if err := applyUpdateToItem(row, input); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if row.Title != "New Title" {
		t.Fatalf("expected trimmed title, got %q", row.Title)
	}
	if row.Description != description {
		t.Fatalf("expected description %q, got %q", description, row.Description)
	}
	if row.ListingType != enums.ListingTypeDonate {
		t.Fatalf("expected donate listing type, got %s", row.ListingType)
	}
	if row.Price != nil {
		t.Fatal("expected price cleared")
	}
	if row.Latitude != nil || row.Longitude != nil {
		t.Fatal("expected coordinates cleared")
	}
}

func TestApplyUpdateToItemRejectsEmptyTitle(t *testing.T) {
	row := &models.Item{Title: "keeps", Description: "keeps"}
	empty := "   "
	err := applyUpdateToItem(row, UpdateItemInput{Title: &empty})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if row.Title != "keeps" {
		t.Fatalf("title must be unchanged on error, got %q", row.Title)
	}
}

func TestNewItemDTOAnnotatesDistance(t *testing.T) {
	row := &models.Item{
		Title:       "bike",
		Description: "city bike",
		Category:    enums.ItemCategoryOther,
		ListingType: enums.ListingTypeSell,
		Condition:   enums.ItemConditionGood,
		Status:      enums.ItemStatusActive,
		Latitude:    floatPtr(31.4697),
		Longitude:   floatPtr(74.2728),
	}
	viewer := &geo.Point{Lat: 31.5204, Lng: 74.3587}

	dto := NewItemDTO(row, viewer)
	if dto.DistanceKm == nil {
		t.Fatal("expected distance annotation")
	}
	if *dto.DistanceKm < 9.0 || *dto.DistanceKm > 11.0 {
		t.Fatalf("unexpected distance %v km", *dto.DistanceKm)
	}

	noCoords := NewItemDTO(&models.Item{Status: enums.ItemStatusActive}, viewer)
	if noCoords.DistanceKm != nil {
		t.Fatal("expected no distance without item coordinates")
	}

	noViewer := NewItemDTO(row, nil)
	if noViewer.DistanceKm != nil {
		t.Fatal("expected no distance without viewer position")
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

type stubViewCounter struct{}

func (stubViewCounter) Flush(context.Context, uuid.UUID) (int64, error) { return 0, nil }
func (stubViewCounter) Record(context.Context, uuid.UUID) error         { return nil }

type stubWatcherSource struct {
	ids []uuid.UUID
}

func (s stubWatcherSource) WatcherIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return s.ids, nil
}

type recordingStatusNotifier struct {
	item     *models.Item
	watchers []uuid.UUID
}

func (n *recordingStatusNotifier) ItemStatusChanged(_ context.Context, item *models.Item, watcherIDs []uuid.UUID) error {
	n.item = item
	n.watchers = watcherIDs
	return nil
}

func TestSetStatusNotifiesWatchers(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	defer tx.Rollback()

	ctx := context.Background()
	owner := mustCreateTestUser(t, tx)
	row := mustCreateTestItem(t, tx, owner.ID, nil)

	watcher := uuid.New()
	notifier := &recordingStatusNotifier{}
	svc, err := NewService(NewRepository(tx), stubViewCounter{},
		WithStatusNotifier(notifier, stubWatcherSource{ids: []uuid.UUID{watcher}}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	updated, err := svc.SetStatus(ctx, owner.ID, row.ID, enums.ItemStatusReserved)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if updated.Status != enums.ItemStatusReserved.String() {
		t.Fatalf("unexpected status %q", updated.Status)
	}
	if notifier.item == nil || notifier.item.ID != row.ID {
		t.Fatalf("expected notification for item %s", row.ID)
	}
	if len(notifier.watchers) != 1 || notifier.watchers[0] != watcher {
		t.Fatalf("unexpected watchers %v", notifier.watchers)
	}
}
