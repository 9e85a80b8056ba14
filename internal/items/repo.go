package item

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	"github.com/sharehub-app/sharehub-backend/pkg/enums"
	"github.com/sharehub-app/sharehub-backend/pkg/geo"
	"github.com/sharehub-app/sharehub-backend/pkg/search"
)

// Haversine over the row's coordinates, parameterized on the viewer's
// latitude, longitude, latitude again, then the radius bound in km.
const distanceWithinClause = `latitude IS NOT NULL AND longitude IS NOT NULL AND ` +
	`6371 * acos(LEAST(1.0, cos(radians(?)) * cos(radians(latitude)) * cos(radians(longitude) - radians(?)) + sin(radians(?)) * sin(radians(latitude)))) <= ?`

// listQuery carries everything the listing query needs beyond the raw filters.
type listQuery struct {
	Filters      search.Filters
	Viewer       *geo.Point
	OwnerID      *uuid.UUID
	Statuses     []enums.ItemStatus
	NearestFirst bool
}

// Repository wires together item persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new item row.
func (r *Repository) Create(ctx context.Context, row *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// FindByID loads the item with its owner preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var row models.Item
	if err := r.db.WithContext(ctx).Preload("Owner").First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update persists the full item row.
func (r *Repository) Update(ctx context.Context, row *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes an item by ID. Favorites, conversations, and messages follow
// through FK cascades.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Item{}).Error
}

// AddViews bumps the persisted view counter by delta.
func (r *Repository) AddViews(ctx context.Context, id uuid.UUID, delta int64) error {
	if delta <= 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", delta)).
		Error
}

// List executes the listing query: facet filters, text search, radius bound,
// ordering, and the offset page window, returning rows plus the total count.
func (r *Repository) List(ctx context.Context, query listQuery) ([]models.Item, int64, error) {
	filters := query.Filters.Normalize()

	qb := r.db.WithContext(ctx).Model(&models.Item{})

	if query.OwnerID != nil {
		qb = qb.Where("owner_id = ?", *query.OwnerID)
	}
	if len(query.Statuses) > 0 {
		qb = qb.Where("status IN ?", query.Statuses)
	}

	if len(filters.Categories) > 0 {
		qb = qb.Where("category IN ?", filters.Categories)
	}
	if filters.ListingType.IsValid() {
		qb = qb.Where("listing_type = ?", filters.ListingType)
	}
	if filters.Condition.IsValid() {
		qb = qb.Where("item_condition = ?", filters.Condition)
	}
	if filters.MinPrice != nil {
		qb = qb.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		qb = qb.Where("price <= ?", *filters.MaxPrice)
	}
	if text := strings.TrimSpace(filters.Query); text != "" {
		pattern := "%" + strings.ToLower(text) + "%"
		qb = qb.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if filters.RadiusKm > 0 && query.Viewer != nil {
		qb = qb.Where(distanceWithinClause, query.Viewer.Lat, query.Viewer.Lng, query.Viewer.Lat, filters.RadiusKm)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params := filters.Pagination()
	rows := make([]models.Item, 0, params.Limit)
	if query.NearestFirst && query.Viewer != nil {
		qb = qb.Order(distanceOrderClause(*query.Viewer))
	}
	err := qb.
		Preload("Owner").
		Order(orderClause(filters)).
		Order("id " + filters.Order.String()).
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CountByStatus groups listing counts per lifecycle status.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.ItemStatus]int64, error) {
	type statusCount struct {
		Status enums.ItemStatus
		Count  int64
	}
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.ItemStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// distanceOrderClause inlines the viewer's coordinates: GORM's Order only
// takes plain SQL, and a validated geo.Point renders to bare numerals.
func distanceOrderClause(viewer geo.Point) string {
	lat := strconv.FormatFloat(viewer.Lat, 'f', -1, 64)
	lng := strconv.FormatFloat(viewer.Lng, 'f', -1, 64)
	return "6371 * acos(LEAST(1.0, cos(radians(" + lat + ")) * cos(radians(latitude)) * " +
		"cos(radians(longitude) - radians(" + lng + ")) + sin(radians(" + lat + ")) * sin(radians(latitude)))) ASC"
}

func orderClause(filters search.Filters) string {
	column := filters.SortBy.Column()
	clause := column + " " + filters.Order.String()
	if column == "price" {
		// price is null for donate and exchange listings
		clause += " NULLS LAST"
	}
	return clause
}
