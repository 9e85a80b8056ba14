package enums

import "fmt"

// ListingType represents the transactional nature of an item post.
type ListingType string

const (
	ListingTypeSell     ListingType = "sell"
	ListingTypeDonate   ListingType = "donate"
	ListingTypeExchange ListingType = "exchange"
)

var validListingTypes = []ListingType{
	ListingTypeSell,
	ListingTypeDonate,
	ListingTypeExchange,
}

// String implements fmt.Stringer.
func (t ListingType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ListingType.
func (t ListingType) IsValid() bool {
	for _, candidate := range validListingTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// RequiresPrice reports whether listings of this type carry a price.
func (t ListingType) RequiresPrice() bool {
	return t == ListingTypeSell
}

// ParseListingType converts raw input into a ListingType.
func ParseListingType(value string) (ListingType, error) {
	for _, candidate := range validListingTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing type %q", value)
}
