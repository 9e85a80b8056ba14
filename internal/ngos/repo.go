package ngos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	"github.com/sharehub-app/sharehub-backend/pkg/pagination"
)

// Repository exposes NGO persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an NGO repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new organization row.
func (r *Repository) Create(ctx context.Context, row *models.NGO) (*models.NGO, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// FindByID loads an organization by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.NGO, error) {
	var row models.NGO
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByOwner returns the organization registered by the user, if any.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.NGO, error) {
	var row models.NGO
	if err := r.db.WithContext(ctx).First(&row, "owner_id = ?", ownerID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update persists the full organization row.
func (r *Repository) Update(ctx context.Context, row *models.NGO) (*models.NGO, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// SetVerified flips the admin verification flag.
func (r *Repository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	return r.db.WithContext(ctx).
		Model(&models.NGO{}).
		Where("id = ?", id).
		UpdateColumn("verified", verified).
		Error
}

// listQuery narrows the public directory listing.
type listQuery struct {
	AcceptedKind string
	VerifiedOnly bool
	City         string
	Pagination   pagination.Params
}

// List pages over the directory, verified organizations first.
func (r *Repository) List(ctx context.Context, query listQuery) ([]models.NGO, int64, error) {
	params := query.Pagination.Normalize()

	qb := r.db.WithContext(ctx).Model(&models.NGO{})
	if query.VerifiedOnly {
		qb = qb.Where("verified = ?", true)
	}
	if query.AcceptedKind != "" {
		qb = qb.Where("? = ANY(accepted_kinds)", query.AcceptedKind)
	}
	if query.City != "" {
		qb = qb.Where("LOWER(city) = LOWER(?)", query.City)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.NGO
	err := qb.
		Order("verified DESC").
		Order("name ASC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Count returns the total number of registered organizations.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.NGO{}).Count(&total).Error
	return total, err
}
