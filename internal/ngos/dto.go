package ngos

import (
	"time"

	"github.com/google/uuid"

	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	"github.com/sharehub-app/sharehub-backend/pkg/geo"
	"github.com/sharehub-app/sharehub-backend/pkg/pagination"
)

// NGODTO is the wire shape for an organization profile.
type NGODTO struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Mission       *string   `json:"mission,omitempty"`
	Website       *string   `json:"website,omitempty"`
	ContactEmail  string    `json:"contact_email"`
	ContactPhone  *string   `json:"contact_phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	City          *string   `json:"city,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	AcceptedKinds []string  `json:"accepted_kinds"`
	Verified      bool      `json:"verified"`
	DistanceKm    *float64  `json:"distance_km,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NGOListResult wraps one directory page with its pagination meta.
type NGOListResult struct {
	NGOs []NGODTO        `json:"ngos"`
	Meta pagination.Meta `json:"meta"`
}

// NewNGODTO maps a model row to its wire shape. When the viewer's
// location is known and the organization has coordinates, the DTO
// carries the distance between the two.
func NewNGODTO(row *models.NGO, viewer *geo.Point) NGODTO {
	dto := NGODTO{
		ID:            row.ID,
		OwnerID:       row.OwnerID,
		Name:          row.Name,
		Description:   row.Description,
		Mission:       row.Mission,
		Website:       row.Website,
		ContactEmail:  row.ContactEmail,
		ContactPhone:  row.ContactPhone,
		Address:       row.Address,
		City:          row.City,
		Latitude:      row.Latitude,
		Longitude:     row.Longitude,
		AcceptedKinds: append([]string{}, row.AcceptedKinds...),
		Verified:      row.Verified,
		CreatedAt:     row.CreatedAt,
	}
	if viewer != nil {
		if at, ok := geo.FromPtr(row.Latitude, row.Longitude); ok {
			if km, ok := geo.Distance(*viewer, at); ok {
				dto.DistanceKm = &km
			}
		}
	}
	return dto
}
