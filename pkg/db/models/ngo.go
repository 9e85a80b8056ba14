package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// NGO is a verified organization that can receive donated items.
type NGO struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID       uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index:ngos_owner_id_idx"`
	Name          string         `gorm:"type:text;not null"`
	Description   string         `gorm:"type:text;not null"`
	Mission       *string        `gorm:"column:mission"`
	Website       *string        `gorm:"column:website"`
	ContactEmail  string         `gorm:"column:contact_email;not null"`
	ContactPhone  *string        `gorm:"column:contact_phone"`
	Address       *string        `gorm:"column:address"`
	City          *string        `gorm:"column:city"`
	Latitude      *float64       `gorm:"column:latitude"`
	Longitude     *float64       `gorm:"column:longitude"`
	AcceptedKinds pq.StringArray `gorm:"column:accepted_kinds;type:text[];not null;default:ARRAY[]::text[]"`
	Verified      bool           `gorm:"column:verified;not null;default:false"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
