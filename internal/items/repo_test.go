package item

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	"github.com/sharehub-app/sharehub-backend/pkg/enums"
	"github.com/sharehub-app/sharehub-backend/pkg/geo"
	"github.com/sharehub-app/sharehub-backend/pkg/search"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("SHAREHUB_DB_DSN")
	if dsn == "" {
		t.Skip("SHAREHUB_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func mustCreateTestUser(t *testing.T, tx *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("sh_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		FirstName:    "Repo",
		LastName:     "Tester",
		Role:         enums.UserRoleMember,
		IsActive:     true,
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateTestItem(t *testing.T, tx *gorm.DB, ownerID uuid.UUID, mutate func(*models.Item)) *models.Item {
	t.Helper()
	price := decimal.NewFromInt(50)
	row := &models.Item{
		OwnerID:     ownerID,
		Title:       "Test Item",
		Description: "A perfectly usable test item",
		Category:    enums.ItemCategoryOther,
		ListingType: enums.ListingTypeSell,
		Condition:   enums.ItemConditionGood,
		Price:       &price,
		Images:      []string{},
		Status:      enums.ItemStatusActive,
	}
	if mutate != nil {
		mutate(row)
	}
	if err := tx.Create(row).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	return row
}

func TestRepositoryListFilters(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	defer tx.Rollback()

	ctx := context.Background()
	repo := NewRepository(tx)
	owner := mustCreateTestUser(t, tx)

	mustCreateTestItem(t, tx, owner.ID, func(row *models.Item) {
		row.Title = "Winter Jacket"
		row.Category = enums.ItemCategoryClothes
	})
	mustCreateTestItem(t, tx, owner.ID, func(row *models.Item) {
		row.Title = "Algebra Textbook"
		row.Category = enums.ItemCategoryBooks
		row.ListingType = enums.ListingTypeDonate
		row.Price = nil
	})
	mustCreateTestItem(t, tx, owner.ID, func(row *models.Item) {
		row.Title = "Removed Lamp"
		row.Status = enums.ItemStatusRemoved
	})

	t.Run("categoryFacet", func(t *testing.T) {
		filters := search.Filters{Categories: []enums.ItemCategory{enums.ItemCategoryBooks}}
		rows, total, err := repo.List(ctx, listQuery{
			Filters:  filters,
			Statuses: []enums.ItemStatus{enums.ItemStatusActive},
		})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if total != 1 || len(rows) != 1 {
			t.Fatalf("expected 1 book, got total=%d rows=%d", total, len(rows))
		}
		if rows[0].Title != "Algebra Textbook" {
			t.Fatalf("unexpected row %q", rows[0].Title)
		}
	})

	t.Run("statusExcluded", func(t *testing.T) {
		rows, total, err := repo.List(ctx, listQuery{
			Filters:  search.Default(),
			Statuses: []enums.ItemStatus{enums.ItemStatusActive, enums.ItemStatusReserved},
		})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if total != 2 {
			t.Fatalf("expected 2 active items, got %d", total)
		}
		for _, row := range rows {
			if row.Status == enums.ItemStatusRemoved {
				t.Fatalf("removed item leaked into results")
			}
		}
	})

	t.Run("textSearch", func(t *testing.T) {
		filters := search.Filters{Query: "jacket"}
		rows, total, err := repo.List(ctx, listQuery{
			Filters:  filters,
			Statuses: []enums.ItemStatus{enums.ItemStatusActive},
		})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if total != 1 || rows[0].Title != "Winter Jacket" {
			t.Fatalf("expected the jacket, got total=%d", total)
		}
	})
}

func TestRepositoryListRadius(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	defer tx.Rollback()

	ctx := context.Background()
	repo := NewRepository(tx)
	owner := mustCreateTestUser(t, tx)

	// roughly 10 km from the viewer
	mustCreateTestItem(t, tx, owner.ID, func(row *models.Item) {
		row.Title = "Near Item"
		row.Latitude = floatPtr(31.4697)
		row.Longitude = floatPtr(74.2728)
	})
	// several hundred km away
	mustCreateTestItem(t, tx, owner.ID, func(row *models.Item) {
		row.Title = "Far Item"
		row.Latitude = floatPtr(33.6844)
		row.Longitude = floatPtr(73.0479)
	})
	// no coordinates at all
	mustCreateTestItem(t, tx, owner.ID, func(row *models.Item) {
		row.Title = "Nowhere Item"
	})

	viewer := &geo.Point{Lat: 31.5204, Lng: 74.3587}
	filters := search.Filters{RadiusKm: 25}
	rows, total, err := repo.List(ctx, listQuery{
		Filters:  filters,
		Viewer:   viewer,
		Statuses: []enums.ItemStatus{enums.ItemStatusActive},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected only the near item, got total=%d rows=%d", total, len(rows))
	}
	if rows[0].Title != "Near Item" {
		t.Fatalf("unexpected row %q", rows[0].Title)
	}
}

func TestRepositoryListNearestFirst(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	defer tx.Rollback()

	ctx := context.Background()
	repo := NewRepository(tx)
	owner := mustCreateTestUser(t, tx)

	mustCreateTestItem(t, tx, owner.ID, func(row *models.Item) {
		row.Title = "Farther Item"
		row.Latitude = floatPtr(31.5925)
		row.Longitude = floatPtr(74.3095)
	})
	mustCreateTestItem(t, tx, owner.ID, func(row *models.Item) {
		row.Title = "Closest Item"
		row.Latitude = floatPtr(31.5204)
		row.Longitude = floatPtr(74.3587)
	})

	viewer := &geo.Point{Lat: 31.5204, Lng: 74.3587}
	rows, _, err := repo.List(ctx, listQuery{
		Filters:      search.Filters{RadiusKm: 25},
		Viewer:       viewer,
		Statuses:     []enums.ItemStatus{enums.ItemStatusActive},
		NearestFirst: true,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected both items in range, got %d", len(rows))
	}
	if rows[0].Title != "Closest Item" || rows[1].Title != "Farther Item" {
		t.Fatalf("unexpected order: %q then %q", rows[0].Title, rows[1].Title)
	}
}

func TestRepositoryAddViews(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	defer tx.Rollback()

	ctx := context.Background()
	repo := NewRepository(tx)
	owner := mustCreateTestUser(t, tx)
	row := mustCreateTestItem(t, tx, owner.ID, nil)

	if err := repo.AddViews(ctx, row.ID, 5); err != nil {
		t.Fatalf("add views: %v", err)
	}
	if err := repo.AddViews(ctx, row.ID, 0); err != nil {
		t.Fatalf("add zero views: %v", err)
	}

	reloaded, err := repo.FindByID(ctx, row.ID)
	if err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if reloaded.ViewsCount != 5 {
		t.Fatalf("expected 5 views, got %d", reloaded.ViewsCount)
	}
}
