package item

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	"github.com/sharehub-app/sharehub-backend/pkg/geo"
	"github.com/sharehub-app/sharehub-backend/pkg/pagination"
)

// ItemDTO represents the listing payload returned to clients.
type ItemDTO struct {
	ID          uuid.UUID        `json:"id"`
	OwnerID     uuid.UUID        `json:"owner_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	ListingType string           `json:"listing_type"`
	Condition   string           `json:"condition"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Address     *string          `json:"address,omitempty"`
	Latitude    *float64         `json:"latitude,omitempty"`
	Longitude   *float64         `json:"longitude,omitempty"`
	Images      []string         `json:"images"`
	Status      string           `json:"status"`
	ViewsCount  int64            `json:"views_count"`
	DistanceKm  *float64         `json:"distance_km,omitempty"`
	Owner       *OwnerDTO        `json:"owner,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// OwnerDTO exposes the minimal poster identity shown on a listing.
type OwnerDTO struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	City      *string   `json:"city,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

// ItemListResult pairs a page of listings with its pagination metadata.
type ItemListResult struct {
	Items []ItemDTO       `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// NewItemDTO maps an item row to its API payload. When the viewer's position
// is known and the listing carries coordinates, the straight line distance is
// annotated on the result.
func NewItemDTO(row *models.Item, viewer *geo.Point) *ItemDTO {
	if row == nil {
		return nil
	}

	dto := &ItemDTO{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Title:       row.Title,
		Description: row.Description,
		Category:    row.Category.String(),
		ListingType: row.ListingType.String(),
		Condition:   row.Condition.String(),
		Price:       row.Price,
		Address:     row.Address,
		Latitude:    row.Latitude,
		Longitude:   row.Longitude,
		Images:      append([]string(nil), row.Images...),
		Status:      row.Status.String(),
		ViewsCount:  row.ViewsCount,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if dto.Images == nil {
		dto.Images = []string{}
	}

	if viewer != nil {
		if target, ok := geo.FromPtr(row.Latitude, row.Longitude); ok {
			if km, ok := geo.Distance(*viewer, target); ok {
				dto.DistanceKm = &km
			}
		}
	}

	if row.Owner != nil {
		dto.Owner = &OwnerDTO{
			ID:        row.Owner.ID,
			FirstName: row.Owner.FirstName,
			LastName:  row.Owner.LastName,
			City:      row.Owner.City,
			AvatarURL: row.Owner.AvatarURL,
		}
	}

	return dto
}
