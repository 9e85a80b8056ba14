package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/sharehub-app/sharehub-backend/pkg/enums"
)

// Item is a marketplace listing. Price is null for donate/exchange posts,
// coordinates are null when the owner skipped location entry.
type Item struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     uuid.UUID           `gorm:"column:owner_id;type:uuid;not null;index:items_owner_id_idx"`
	Title       string              `gorm:"type:text;not null"`
	Description string              `gorm:"type:text;not null"`
	Category    enums.ItemCategory  `gorm:"column:category;type:text;not null;index:items_category_idx"`
	ListingType enums.ListingType   `gorm:"column:listing_type;type:text;not null;index:items_listing_type_idx"`
	Condition   enums.ItemCondition `gorm:"column:item_condition;type:text;not null"`
	Price       *decimal.Decimal    `gorm:"column:price;type:numeric(12,2)"`
	Address     *string             `gorm:"column:address"`
	Latitude    *float64            `gorm:"column:latitude"`
	Longitude   *float64            `gorm:"column:longitude"`
	Images      pq.StringArray      `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Status      enums.ItemStatus    `gorm:"column:status;type:text;not null;default:'active';index:items_status_idx"`
	ViewsCount  int64               `gorm:"column:views_count;not null;default:0"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Owner *User `gorm:"foreignKey:OwnerID"`
}
