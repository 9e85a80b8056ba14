package favorites

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	item "github.com/sharehub-app/sharehub-backend/internal/items"
	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
	"github.com/sharehub-app/sharehub-backend/pkg/pagination"
)

// FavoriteDTO wraps the saved listing with the moment it was saved.
type FavoriteDTO struct {
	Item    item.ItemDTO `json:"item"`
	SavedAt time.Time    `json:"saved_at"`
}

// FavoritesPageDTO is one page of the user's saved listings.
type FavoritesPageDTO struct {
	Favorites []FavoriteDTO   `json:"favorites"`
	Meta      pagination.Meta `json:"meta"`
}

type itemLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

type notifier interface {
	ItemFavorited(ctx context.Context, item *models.Item) error
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	FavoritesRepo *Repository
	ItemRepo      itemLoader
	Notifier      notifier
}

// Service exposes business rules for saved listings.
type Service interface {
	Add(ctx context.Context, userID, itemID uuid.UUID) error
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (FavoritesPageDTO, error)
	ListIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type service struct {
	repo     *Repository
	items    itemLoader
	notifier notifier
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.FavoritesRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorites repo is required")
	}
	if params.ItemRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item repo is required")
	}
	return &service{
		repo:     params.FavoritesRepo,
		items:    params.ItemRepo,
		notifier: params.Notifier,
	}, nil
}

// Add saves the item for the user. Saving an already saved item is a no-op,
// and owners cannot save their own listings.
func (s *service) Add(ctx context.Context, userID, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	row, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if row.OwnerID == userID {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot favorite your own listing")
	}

	if err := s.repo.Add(ctx, userID, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert favorite")
	}

	if s.notifier != nil {
		// best effort
		_ = s.notifier.ItemFavorited(ctx, row)
	}
	return nil
}

// Remove drops the favorite if present.
func (s *service) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if err := s.repo.Remove(ctx, userID, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete favorite")
	}
	return nil
}

// List returns a page of the user's saved listings.
func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (FavoritesPageDTO, error) {
	rows, savedAt, total, err := s.repo.ListItems(ctx, userID, params)
	if err != nil {
		return FavoritesPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list favorites")
	}

	favorites := make([]FavoriteDTO, 0, len(rows))
	for i := range rows {
		favorites = append(favorites, FavoriteDTO{
			Item:    *item.NewItemDTO(&rows[i], nil),
			SavedAt: savedAt[i],
		})
	}
	return FavoritesPageDTO{
		Favorites: favorites,
		Meta:      pagination.NewMeta(params, total),
	}, nil
}

// ListIDs returns every saved item ID so clients can mark listing cards.
func (s *service) ListIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.repo.ListItemIDs(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list favorite ids")
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}
