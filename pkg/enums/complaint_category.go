package enums

import "fmt"

// ComplaintCategory describes the kind of civic problem being reported.
type ComplaintCategory string

const (
	ComplaintCategoryRoad        ComplaintCategory = "road"
	ComplaintCategoryGarbage     ComplaintCategory = "garbage"
	ComplaintCategoryWater       ComplaintCategory = "water"
	ComplaintCategoryDrainage    ComplaintCategory = "drainage"
	ComplaintCategoryStreetlight ComplaintCategory = "streetlight"
	ComplaintCategoryOther       ComplaintCategory = "other"
)

var validComplaintCategories = []ComplaintCategory{
	ComplaintCategoryRoad,
	ComplaintCategoryGarbage,
	ComplaintCategoryWater,
	ComplaintCategoryDrainage,
	ComplaintCategoryStreetlight,
	ComplaintCategoryOther,
}

// String implements fmt.Stringer.
func (c ComplaintCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ComplaintCategory.
func (c ComplaintCategory) IsValid() bool {
	for _, candidate := range validComplaintCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseComplaintCategory converts raw input into a ComplaintCategory.
func ParseComplaintCategory(value string) (ComplaintCategory, error) {
	for _, candidate := range validComplaintCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid complaint category %q", value)
}
