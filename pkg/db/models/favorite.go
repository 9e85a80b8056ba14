package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite links a user to a saved item.
type Favorite struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:favorites_user_id_idx;uniqueIndex:favorites_user_item_key"`
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;not null;index:favorites_item_id_idx;uniqueIndex:favorites_user_item_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
