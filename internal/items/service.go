package item

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	"github.com/sharehub-app/sharehub-backend/pkg/enums"
	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
	"github.com/sharehub-app/sharehub-backend/pkg/geo"
	"github.com/sharehub-app/sharehub-backend/pkg/pagination"
	"github.com/sharehub-app/sharehub-backend/pkg/search"
)

const (
	maxTitleLen       = 140
	maxDescriptionLen = 5000
	maxImages         = 8
)

// Service exposes listing management and discovery operations.
type Service interface {
	CreateItem(ctx context.Context, ownerID uuid.UUID, input CreateItemInput) (*ItemDTO, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, userID uuid.UUID, isAdmin bool, itemID uuid.UUID) error
	GetItem(ctx context.Context, itemID uuid.UUID, viewer *geo.Point) (*ItemDTO, error)
	ListItems(ctx context.Context, input ListItemsInput) (*ItemListResult, error)
	ListOwnItems(ctx context.Context, ownerID uuid.UUID, filters search.Filters) (*ItemListResult, error)
	SetStatus(ctx context.Context, userID, itemID uuid.UUID, status enums.ItemStatus) (*ItemDTO, error)
	RecordView(ctx context.Context, itemID uuid.UUID) error
}

// CreateItemInput holds the validated payload to create a listing.
type CreateItemInput struct {
	Title       string
	Description string
	Category    enums.ItemCategory
	ListingType enums.ListingType
	Condition   enums.ItemCondition
	Price       *decimal.Decimal
	Address     *string
	Latitude    *float64
	Longitude   *float64
	Images      []string
}

// UpdateItemInput holds optional mutation values for a listing.
type UpdateItemInput struct {
	Title       *string
	Description *string
	Category    *enums.ItemCategory
	ListingType *enums.ListingType
	Condition   *enums.ItemCondition
	Price       *decimal.Decimal
	ClearPrice  bool
	Address     *string
	Latitude    *float64
	Longitude   *float64
	ClearCoords bool
	Images      *[]string
}

// ListItemsInput is the public browse query: filters plus the viewer's
// position when known.
type ListItemsInput struct {
	Filters search.Filters
	Viewer  *geo.Point
	// NearestFirst orders rows by distance to the viewer before the
	// requested sort. Requires a viewer position.
	NearestFirst bool
}

type viewCounter interface {
	Flush(ctx context.Context, itemID uuid.UUID) (int64, error)
	Record(ctx context.Context, itemID uuid.UUID) error
}

type watcherSource interface {
	WatcherIDs(ctx context.Context, itemID uuid.UUID) ([]uuid.UUID, error)
}

type statusNotifier interface {
	ItemStatusChanged(ctx context.Context, item *models.Item, watcherIDs []uuid.UUID) error
}

// service implements the item service.
type service struct {
	repo     *Repository
	views    viewCounter
	watchers watcherSource
	notifier statusNotifier
}

// ServiceOption configures optional service behavior.
type ServiceOption func(*service)

// WithStatusNotifier makes status transitions notify everyone who saved
// the listing.
func WithStatusNotifier(notifier statusNotifier, watchers watcherSource) ServiceOption {
	return func(s *service) {
		if notifier != nil && watchers != nil {
			s.notifier = notifier
			s.watchers = watchers
		}
	}
}

// NewService constructs an item service instance.
func NewService(repo *Repository, views viewCounter, opts ...ServiceOption) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if views == nil {
		return nil, fmt.Errorf("view counter required")
	}
	svc := &service{repo: repo, views: views}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// CreateItem validates and persists a new listing owned by ownerID.
func (s *service) CreateItem(ctx context.Context, ownerID uuid.UUID, input CreateItemInput) (*ItemDTO, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if !input.ListingType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid listing_type")
	}
	if !input.Condition.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid condition")
	}
	if err := validatePrice(input.ListingType, input.Price); err != nil {
		return nil, err
	}
	if err := validateCoords(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}
	if len(input.Images) > maxImages {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("at most %d images allowed", maxImages))
	}

	row := &models.Item{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Category:    input.Category,
		ListingType: input.ListingType,
		Condition:   input.Condition,
		Price:       input.Price,
		Address:     input.Address,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Images:      append([]string{}, input.Images...),
		Status:      enums.ItemStatusActive,
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert item")
	}
	return NewItemDTO(created, nil), nil
}

// UpdateItem applies partial changes to a listing owned by userID.
func (s *service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	row, err := s.loadOwned(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if row.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "listing is closed and cannot be edited")
	}

	if err := applyUpdateToItem(row, input); err != nil {
		return nil, err
	}
	if err := validatePrice(row.ListingType, row.Price); err != nil {
		return nil, err
	}
	if err := validateCoords(row.Latitude, row.Longitude); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item")
	}
	return NewItemDTO(updated, nil), nil
}

// DeleteItem removes a listing. Admins may delete any listing, members only
// their own.
func (s *service) DeleteItem(ctx context.Context, userID uuid.UUID, isAdmin bool, itemID uuid.UUID) error {
	row, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if !isAdmin && row.OwnerID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "item does not belong to user")
	}

	if err := s.repo.Delete(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}
	return nil
}

// GetItem returns one listing, folding any buffered view counts into the
// persisted total so the detail page shows fresh numbers.
func (s *service) GetItem(ctx context.Context, itemID uuid.UUID, viewer *geo.Point) (*ItemDTO, error) {
	row, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	pending, err := s.views.Flush(ctx, itemID)
	if err == nil && pending > 0 {
		if err := s.repo.AddViews(ctx, itemID, pending); err == nil {
			row.ViewsCount += pending
		}
	}

	return NewItemDTO(row, viewer), nil
}

// ListItems runs the public browse query.
func (s *service) ListItems(ctx context.Context, input ListItemsInput) (*ItemListResult, error) {
	filters := input.Filters.Normalize()
	if !filters.PriceRangeValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_price cannot exceed max_price")
	}
	if filters.RadiusKm > 0 && input.Viewer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "radius filtering requires lat and lng")
	}
	if input.NearestFirst && input.Viewer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nearby listing requires lat and lng")
	}
	if input.Viewer != nil && !input.Viewer.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coordinates")
	}

	rows, total, err := s.repo.List(ctx, listQuery{
		Filters:      filters,
		Viewer:       input.Viewer,
		Statuses:     []enums.ItemStatus{enums.ItemStatusActive, enums.ItemStatusReserved},
		NearestFirst: input.NearestFirst,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list items")
	}
	return buildListResult(rows, total, filters.Pagination(), input.Viewer), nil
}

// ListOwnItems lists the caller's listings in every status.
func (s *service) ListOwnItems(ctx context.Context, ownerID uuid.UUID, filters search.Filters) (*ItemListResult, error) {
	filters = filters.Normalize()
	if !filters.PriceRangeValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_price cannot exceed max_price")
	}

	rows, total, err := s.repo.List(ctx, listQuery{
		Filters: filters,
		OwnerID: &ownerID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list own items")
	}
	return buildListResult(rows, total, filters.Pagination(), nil), nil
}

// SetStatus transitions a listing through its lifecycle. Terminal listings
// stay closed.
func (s *service) SetStatus(ctx context.Context, userID, itemID uuid.UUID, status enums.ItemStatus) (*ItemDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	row, err := s.loadOwned(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if row.Status == status {
		return NewItemDTO(row, nil), nil
	}
	if row.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "listing is already closed")
	}

	row.Status = status
	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item status")
	}

	// best effort: a failed notification never fails the transition
	if s.notifier != nil && s.watchers != nil {
		if watcherIDs, watchErr := s.watchers.WatcherIDs(ctx, updated.ID); watchErr == nil && len(watcherIDs) > 0 {
			_ = s.notifier.ItemStatusChanged(ctx, updated, watcherIDs)
		}
	}
	return NewItemDTO(updated, nil), nil
}

// RecordView buffers one view for the item. The count reaches the items table
// on the next detail read.
func (s *service) RecordView(ctx context.Context, itemID uuid.UUID) error {
	if err := s.views.Record(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record view")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, userID, itemID uuid.UUID) (*models.Item, error) {
	row, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if row.OwnerID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "item does not belong to user")
	}
	return row, nil
}

func buildListResult(rows []models.Item, total int64, params pagination.Params, viewer *geo.Point) *ItemListResult {
	items := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *NewItemDTO(&rows[i], viewer))
	}
	return &ItemListResult{
		Items: items,
		Meta:  pagination.NewMeta(params, total),
	}
}

func validateTitle(title string) error {
	if title == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if len(title) > maxTitleLen {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("title exceeds %d characters", maxTitleLen))
	}
	return nil
}

func validateDescription(description string) error {
	if description == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if len(description) > maxDescriptionLen {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("description exceeds %d characters", maxDescriptionLen))
	}
	return nil
}

func validatePrice(listingType enums.ListingType, price *decimal.Decimal) error {
	if listingType.RequiresPrice() {
		if price == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "price is required for sell listings")
		}
		if price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
		}
		return nil
	}
	if price != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "price is only allowed on sell listings")
	}
	return nil
}

func validateCoords(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return pkgerrors.New(pkgerrors.CodeValidation, "lat and lng must be provided together")
	}
	if lat == nil {
		return nil
	}
	if point, ok := geo.FromPtr(lat, lng); !ok || !point.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid coordinates")
	}
	return nil
}

func applyUpdateToItem(row *models.Item, input UpdateItemInput) error {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if err := validateTitle(title); err != nil {
			return err
		}
		row.Title = title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if err := validateDescription(description); err != nil {
			return err
		}
		row.Description = description
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		row.Category = *input.Category
	}
	if input.ListingType != nil {
		if !input.ListingType.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid listing_type")
		}
		row.ListingType = *input.ListingType
	}
	if input.Condition != nil {
		if !input.Condition.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid condition")
		}
		row.Condition = *input.Condition
	}
	if input.ClearPrice {
		row.Price = nil
	} else if input.Price != nil {
		row.Price = input.Price
	}
	if input.Address != nil {
		row.Address = input.Address
	}
	if input.ClearCoords {
		row.Latitude = nil
		row.Longitude = nil
	} else {
		if input.Latitude != nil {
			row.Latitude = input.Latitude
		}
		if input.Longitude != nil {
			row.Longitude = input.Longitude
		}
	}
	if input.Images != nil {
		if len(*input.Images) > maxImages {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("at most %d images allowed", maxImages))
		}
		row.Images = append([]string{}, *input.Images...)
	}
	return nil
}
