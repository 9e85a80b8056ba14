package enums

import "fmt"

// SortField names the columns a listing query may order by.
type SortField string

const (
	SortFieldCreatedAt SortField = "created_at"
	SortFieldPrice     SortField = "price"
	SortFieldTitle     SortField = "title"
	SortFieldViews     SortField = "views"
)

var validSortFields = []SortField{
	SortFieldCreatedAt,
	SortFieldPrice,
	SortFieldTitle,
	SortFieldViews,
}

// String implements fmt.Stringer.
func (f SortField) String() string {
	return string(f)
}

// IsValid reports whether the value is a known SortField.
func (f SortField) IsValid() bool {
	for _, candidate := range validSortFields {
		if candidate == f {
			return true
		}
	}
	return false
}

// Column maps the sort field onto the items table column.
func (f SortField) Column() string {
	if f == SortFieldViews {
		return "views_count"
	}
	return string(f)
}

// ParseSortField converts raw input into a SortField.
func ParseSortField(value string) (SortField, error) {
	for _, candidate := range validSortFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort field %q", value)
}

// SortOrder is the direction applied to the active sort field.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// String implements fmt.Stringer.
func (o SortOrder) String() string {
	return string(o)
}

// IsValid reports whether the value is a known SortOrder.
func (o SortOrder) IsValid() bool {
	return o == SortOrderAsc || o == SortOrderDesc
}

// ParseSortOrder converts raw input into a SortOrder, accepting either case.
func ParseSortOrder(value string) (SortOrder, error) {
	switch value {
	case "ASC", "asc":
		return SortOrderAsc, nil
	case "DESC", "desc":
		return SortOrderDesc, nil
	}
	return "", fmt.Errorf("invalid sort order %q", value)
}
