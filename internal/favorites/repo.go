package favorites

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	"github.com/sharehub-app/sharehub-backend/pkg/pagination"
)

// Repository encapsulates favorites persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a favorite and ignores duplicates, so saving twice is a no-op.
func (r *Repository) Add(ctx context.Context, userID, itemID uuid.UUID) error {
	if userID == uuid.Nil || itemID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO favorites (user_id, item_id) VALUES (?, ?) ON CONFLICT (user_id, item_id) DO NOTHING`, userID, itemID).
		Error
}

// Remove deletes the user-item favorite if it exists.
func (r *Repository) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Delete(&models.Favorite{}).
		Error
}

// ListItems returns a page of the user's saved listings, most recently saved
// first, along with the total count.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Item, []time.Time, int64, error) {
	params = params.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Count(&total).
		Error; err != nil {
		return nil, nil, 0, err
	}

	var favorites []models.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&favorites).
		Error; err != nil {
		return nil, nil, 0, err
	}
	if len(favorites) == 0 {
		return nil, nil, total, nil
	}

	itemIDs := make([]uuid.UUID, 0, len(favorites))
	for _, fav := range favorites {
		itemIDs = append(itemIDs, fav.ItemID)
	}

	var items []models.Item
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id IN ?", itemIDs).
		Find(&items).
		Error; err != nil {
		return nil, nil, 0, err
	}

	byID := make(map[uuid.UUID]models.Item, len(items))
	for _, row := range items {
		byID[row.ID] = row
	}

	ordered := make([]models.Item, 0, len(favorites))
	savedAt := make([]time.Time, 0, len(favorites))
	for _, fav := range favorites {
		row, ok := byID[fav.ItemID]
		if !ok {
			continue
		}
		ordered = append(ordered, row)
		savedAt = append(savedAt, fav.CreatedAt)
	}
	return ordered, savedAt, total, nil
}

// ListItemIDs returns every item ID the user has saved.
func (r *Repository) ListItemIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("item_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// WatcherIDs returns every user ID that saved the item.
func (r *Repository) WatcherIDs(ctx context.Context, itemID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("item_id = ?", itemID).
		Pluck("user_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CountForItem returns how many users saved the item.
func (r *Repository) CountForItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("item_id = ?", itemID).
		Count(&count).
		Error
	return count, err
}
