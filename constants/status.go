package constants

// Listing status
const (
	ListingStatusDraft     = "draft"
	ListingStatusPublished = "published"
)

// Listing type (nearby search, reviews)
const (
	ListingTypeStay = "stay"
	ListingTypeFood = "food"
)

// Amenity type
const (
	AmenityTypeStay = "stay"
	AmenityTypeFood = "food"
	AmenityTypeBoth = "both"
)
