package enums

import "fmt"

// ItemStatus tracks the lifecycle of a listing.
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusReserved ItemStatus = "reserved"
	ItemStatusDonated  ItemStatus = "donated"
	ItemStatusSold     ItemStatus = "sold"
	ItemStatusRemoved  ItemStatus = "removed"
)

var validItemStatuses = []ItemStatus{
	ItemStatusActive,
	ItemStatusReserved,
	ItemStatusDonated,
	ItemStatusSold,
	ItemStatusRemoved,
}

// String implements fmt.Stringer.
func (s ItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ItemStatus.
func (s ItemStatus) IsValid() bool {
	for _, candidate := range validItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the listing can no longer transition.
func (s ItemStatus) IsTerminal() bool {
	return s == ItemStatusDonated || s == ItemStatusSold || s == ItemStatusRemoved
}

// ParseItemStatus converts raw input into an ItemStatus.
func ParseItemStatus(value string) (ItemStatus, error) {
	for _, candidate := range validItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item status %q", value)
}
