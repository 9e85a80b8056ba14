package enums

import "fmt"

// ItemCategory represents the canonical listing categories supported by the marketplace.
type ItemCategory string

const (
	ItemCategoryClothes     ItemCategory = "clothes"
	ItemCategoryBooks       ItemCategory = "books"
	ItemCategoryRation      ItemCategory = "ration"
	ItemCategoryElectronics ItemCategory = "electronics"
	ItemCategoryFurniture   ItemCategory = "furniture"
	ItemCategoryOther       ItemCategory = "other"
)

var validItemCategories = []ItemCategory{
	ItemCategoryClothes,
	ItemCategoryBooks,
	ItemCategoryRation,
	ItemCategoryElectronics,
	ItemCategoryFurniture,
	ItemCategoryOther,
}

// ItemCategories returns the full set of supported categories.
func ItemCategories() []ItemCategory {
	out := make([]ItemCategory, len(validItemCategories))
	copy(out, validItemCategories)
	return out
}

// String implements fmt.Stringer.
func (c ItemCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ItemCategory.
func (c ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseItemCategory converts raw input into an ItemCategory.
func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}
