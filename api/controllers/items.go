package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/sharehub-app/sharehub-backend/api/middleware"
	"github.com/sharehub-app/sharehub-backend/api/responses"
	"github.com/sharehub-app/sharehub-backend/api/validators"
	item "github.com/sharehub-app/sharehub-backend/internal/items"
	"github.com/sharehub-app/sharehub-backend/pkg/enums"
	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
	"github.com/sharehub-app/sharehub-backend/pkg/logger"
	"github.com/sharehub-app/sharehub-backend/pkg/search"
)

type createItemRequest struct {
	Title       string   `json:"title" validate:"required,max=140"`
	Description string   `json:"description" validate:"required,max=5000"`
	Category    string   `json:"category" validate:"required"`
	ListingType string   `json:"listing_type" validate:"required"`
	Condition   string   `json:"condition" validate:"required"`
	Price       *string  `json:"price,omitempty"`
	Address     *string  `json:"address,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Images      []string `json:"images,omitempty"`
}

type updateItemRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,max=140"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category    *string   `json:"category,omitempty"`
	ListingType *string   `json:"listing_type,omitempty"`
	Condition   *string   `json:"condition,omitempty"`
	Price       *string   `json:"price,omitempty"`
	ClearPrice  bool      `json:"clear_price,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	ClearCoords bool      `json:"clear_coords,omitempty"`
	Images      *[]string `json:"images,omitempty"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListItems serves the public browse and search surface. All filters
// arrive as query parameters, unknown values fall back to defaults.
func ListItems(svc item.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}
		viewer, err := viewerPoint(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters := search.ParseValues(r.URL.Query())
		result, err := svc.ListItems(r.Context(), item.ListItemsInput{Filters: filters, Viewer: viewer})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// SearchItems is the dedicated text-search surface. It behaves like
// ListItems but rejects requests without a search term.
func SearchItems(svc item.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}
		viewer, err := viewerPoint(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters := search.ParseValues(r.URL.Query())
		if filters.Query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "search term is required"))
			return
		}
		result, err := svc.ListItems(r.Context(), item.ListItemsInput{Filters: filters, Viewer: viewer})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// NearbyItems lists listings around the caller's position, nearest first.
// Coordinates are required; the radius defaults to the cap when absent.
func NearbyItems(svc item.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}
		viewer, err := viewerPoint(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if viewer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "lat and lng are required"))
			return
		}
		filters := search.ParseValues(r.URL.Query())
		if filters.RadiusKm <= 0 {
			filters.RadiusKm = search.MaxRadiusKm
		}
		result, err := svc.ListItems(r.Context(), item.ListItemsInput{
			Filters:      filters,
			Viewer:       viewer,
			NearestFirst: true,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetItem(svc item.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}
		itemID, err := uuidParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		viewer, err := viewerPoint(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetItem(r.Context(), itemID, viewer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		// detail views feed the popularity sort
		_ = svc.RecordView(r.Context(), itemID)
		responses.WriteSuccess(w, dto)
	}
}

func CreateItem(svc item.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req createItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := buildCreateInput(req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.CreateItem(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func UpdateItem(svc item.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := uuidParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := buildUpdateInput(req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.UpdateItem(r.Context(), userID, itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func DeleteItem(svc item.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := uuidParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		isAdmin := middleware.RoleFromContext(r.Context()) == string(enums.UserRoleAdmin)
		if err := svc.DeleteItem(r.Context(), userID, isAdmin, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func SetItemStatus(svc item.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := uuidParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req setStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseItemStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}
		dto, err := svc.SetStatus(r.Context(), userID, itemID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// ListOwnItems returns the caller's listings across every status.
func ListOwnItems(svc item.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters := search.ParseValues(r.URL.Query())
		result, err := svc.ListOwnItems(r.Context(), userID, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func buildCreateInput(req createItemRequest) (item.CreateItemInput, error) {
	category, err := enums.ParseItemCategory(req.Category)
	if err != nil {
		return item.CreateItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}
	listingType, err := enums.ParseListingType(req.ListingType)
	if err != nil {
		return item.CreateItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid listing type")
	}
	condition, err := enums.ParseItemCondition(req.Condition)
	if err != nil {
		return item.CreateItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition")
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return item.CreateItemInput{}, err
	}
	return item.CreateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		ListingType: listingType,
		Condition:   condition,
		Price:       price,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Images:      req.Images,
	}, nil
}

func buildUpdateInput(req updateItemRequest) (item.UpdateItemInput, error) {
	input := item.UpdateItemInput{
		Title:       req.Title,
		Description: req.Description,
		ClearPrice:  req.ClearPrice,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ClearCoords: req.ClearCoords,
		Images:      req.Images,
	}
	if req.Category != nil {
		category, err := enums.ParseItemCategory(*req.Category)
		if err != nil {
			return item.UpdateItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = &category
	}
	if req.ListingType != nil {
		listingType, err := enums.ParseListingType(*req.ListingType)
		if err != nil {
			return item.UpdateItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid listing type")
		}
		input.ListingType = &listingType
	}
	if req.Condition != nil {
		condition, err := enums.ParseItemCondition(*req.Condition)
		if err != nil {
			return item.UpdateItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition")
		}
		input.Condition = &condition
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return item.UpdateItemInput{}, err
	}
	input.Price = price
	return input, nil
}

func parsePrice(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	return &value, nil
}
