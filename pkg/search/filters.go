package search

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sharehub-app/sharehub-backend/pkg/enums"
	"github.com/sharehub-app/sharehub-backend/pkg/pagination"
)

// Wire parameter names shared by the listing endpoints and the API client.
const (
	ParamCategory    = "category"
	ParamListingType = "listing_type"
	ParamCondition   = "condition"
	ParamMinPrice    = "min_price"
	ParamMaxPrice    = "max_price"
	ParamSearch      = "search"
	ParamSortBy      = "sort_by"
	ParamOrder       = "order"
	ParamRadius      = "radius"
	ParamPage        = "page"
	ParamLimit       = "limit"
)

// Defaults for fields omitted from the wire form.
const (
	DefaultSortBy = enums.SortFieldCreatedAt
	DefaultOrder  = enums.SortOrderDesc
	// MaxRadiusKm caps the nearby-search radius; 0 disables it.
	MaxRadiusKm = 100
)

// Filters is the typed search intent behind every listing query: which facets
// are active, how results are ordered, and which page window is requested.
// The zero value of each field means "facet disabled".
type Filters struct {
	Categories  []enums.ItemCategory
	ListingType enums.ListingType
	Condition   enums.ItemCondition
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Query       string
	SortBy      enums.SortField
	Order       enums.SortOrder
	RadiusKm    float64
	Page        int
	Limit       int
}

// Default returns the filter state of a freshly opened listing view.
func Default() Filters {
	return Filters{
		SortBy: DefaultSortBy,
		Order:  DefaultOrder,
		Page:   1,
		Limit:  pagination.DefaultLimit,
	}
}

// ParseValues hydrates filters from a query string. Missing, malformed, or
// out-of-enum values fall back to their defaults; this never fails, so a
// hand-edited or stale URL still yields a usable view.
func ParseValues(values url.Values) Filters {
	f := Default()
	if values == nil {
		return f
	}

	for _, raw := range values[ParamCategory] {
		for _, part := range strings.Split(raw, ",") {
			category, err := enums.ParseItemCategory(strings.TrimSpace(part))
			if err != nil {
				continue
			}
			f.Categories = appendUniqueCategory(f.Categories, category)
		}
	}

	if parsed, err := enums.ParseListingType(strings.TrimSpace(values.Get(ParamListingType))); err == nil {
		f.ListingType = parsed
	}
	if parsed, err := enums.ParseItemCondition(strings.TrimSpace(values.Get(ParamCondition))); err == nil {
		f.Condition = parsed
	}

	f.MinPrice = parsePrice(values.Get(ParamMinPrice))
	f.MaxPrice = parsePrice(values.Get(ParamMaxPrice))
	f.Query = strings.TrimSpace(values.Get(ParamSearch))

	if parsed, err := enums.ParseSortField(strings.TrimSpace(values.Get(ParamSortBy))); err == nil {
		f.SortBy = parsed
	}
	if parsed, err := enums.ParseSortOrder(strings.TrimSpace(values.Get(ParamOrder))); err == nil {
		f.Order = parsed
	}

	if raw := strings.TrimSpace(values.Get(ParamRadius)); raw != "" {
		if radius, err := strconv.ParseFloat(raw, 64); err == nil {
			f.RadiusKm = clampRadius(radius)
		}
	}
	if raw := strings.TrimSpace(values.Get(ParamPage)); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			f.Page = page
		}
	}
	if raw := strings.TrimSpace(values.Get(ParamLimit)); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			f.Limit = pagination.NormalizeLimit(limit)
		}
	}

	return f
}

// Values serializes the filters to their wire form, omitting every field that
// equals its default so URLs stay minimal and stable under comparison. The
// all-default state serializes to an empty query string.
func (f Filters) Values() url.Values {
	values := url.Values{}

	for _, category := range f.Categories {
		if category.IsValid() {
			values.Add(ParamCategory, category.String())
		}
	}
	if f.ListingType.IsValid() {
		values.Set(ParamListingType, f.ListingType.String())
	}
	if f.Condition.IsValid() {
		values.Set(ParamCondition, f.Condition.String())
	}
	if f.MinPrice != nil {
		values.Set(ParamMinPrice, f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		values.Set(ParamMaxPrice, f.MaxPrice.String())
	}
	if query := strings.TrimSpace(f.Query); query != "" {
		values.Set(ParamSearch, query)
	}
	if f.SortBy.IsValid() && f.SortBy != DefaultSortBy {
		values.Set(ParamSortBy, f.SortBy.String())
	}
	if f.Order.IsValid() && f.Order != DefaultOrder {
		values.Set(ParamOrder, f.Order.String())
	}
	if f.RadiusKm > 0 {
		values.Set(ParamRadius, strconv.FormatFloat(clampRadius(f.RadiusKm), 'f', -1, 64))
	}
	if f.Page > 1 {
		values.Set(ParamPage, strconv.Itoa(f.Page))
	}
	if f.Limit > 0 && f.Limit != pagination.DefaultLimit {
		values.Set(ParamLimit, strconv.Itoa(pagination.NormalizeLimit(f.Limit)))
	}

	return values
}

// Encode renders the filters as a canonical query string.
func (f Filters) Encode() string {
	return f.Values().Encode()
}

// Normalize clamps the numeric knobs into their supported ranges.
func (f Filters) Normalize() Filters {
	f.Query = strings.TrimSpace(f.Query)
	f.RadiusKm = clampRadius(f.RadiusKm)
	if !f.SortBy.IsValid() {
		f.SortBy = DefaultSortBy
	}
	if !f.Order.IsValid() {
		f.Order = DefaultOrder
	}
	f.Page = pagination.NormalizePage(f.Page)
	f.Limit = pagination.NormalizeLimit(f.Limit)
	return f
}

// Pagination returns the page window the filters request.
func (f Filters) Pagination() pagination.Params {
	return pagination.Params{Page: f.Page, Limit: f.Limit}.Normalize()
}

// HasPriceRange reports whether either price bound is active.
func (f Filters) HasPriceRange() bool {
	return f.MinPrice != nil || f.MaxPrice != nil
}

// PriceRangeValid reports whether min <= max when both bounds are present.
// Bounds are accepted individually, so a single bound is always valid.
func (f Filters) PriceRangeValid() bool {
	if f.MinPrice == nil || f.MaxPrice == nil {
		return true
	}
	return !f.MinPrice.GreaterThan(*f.MaxPrice)
}

// FacetsEqual reports whether two filter states select the same result set,
// ignoring the page number. Categories are compared as sets.
func (f Filters) FacetsEqual(other Filters) bool {
	f = f.Normalize()
	other = other.Normalize()
	if !categorySetsEqual(f.Categories, other.Categories) {
		return false
	}
	if f.ListingType != other.ListingType || f.Condition != other.Condition {
		return false
	}
	if !pricePtrEqual(f.MinPrice, other.MinPrice) || !pricePtrEqual(f.MaxPrice, other.MaxPrice) {
		return false
	}
	return f.Query == other.Query &&
		f.SortBy == other.SortBy &&
		f.Order == other.Order &&
		f.RadiusKm == other.RadiusKm &&
		f.Limit == other.Limit
}

// Apply transitions from a previous filter state to next, resetting the page
// back to 1 whenever any facet changed: a new filter invalidates the old page
// position.
func Apply(prev, next Filters) Filters {
	if !prev.FacetsEqual(next) {
		next.Page = 1
	}
	return next.Normalize()
}

func appendUniqueCategory(categories []enums.ItemCategory, category enums.ItemCategory) []enums.ItemCategory {
	for _, existing := range categories {
		if existing == category {
			return categories
		}
	}
	return append(categories, category)
}

func categorySetsEqual(a, b []enums.ItemCategory) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[enums.ItemCategory]struct{}, len(a))
	for _, category := range a {
		seen[category] = struct{}{}
	}
	for _, category := range b {
		if _, ok := seen[category]; !ok {
			return false
		}
	}
	return true
}

func pricePtrEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func parsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil || parsed.IsNegative() {
		return nil
	}
	return &parsed
}

func clampRadius(radius float64) float64 {
	if radius < 0 || radius != radius {
		return 0
	}
	if radius > MaxRadiusKm {
		return MaxRadiusKm
	}
	return radius
}
