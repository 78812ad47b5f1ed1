package services

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"platform/constants"
	"platform/dto"

	"gorm.io/gorm"
)

const EarthRadiusKm = 6371.0

// Haversine computes the great-circle distance in kilometers between two
// points, matching the SQL expression used by the browse queries.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	cosine := math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Cos(rad(lng2-lng1)) +
		math.Sin(rad(lat1))*math.Sin(rad(lat2))
	// Guard acos against rounding drift outside [-1, 1].
	cosine = math.Max(-1, math.Min(1, cosine))
	return EarthRadiusKm * math.Acos(cosine)
}

// distanceExpr is the haversine great-circle distance in SQL against the
// given table alias. Rows with null latitude/longitude evaluate to NULL and
// fail any <= comparison, which excludes them from distance-filtered queries.
// Bind order: lat, lng, lat.
func distanceExpr(alias string) string {
	return `(6371 * acos(
		cos(radians(?)) * cos(radians(` + alias + `.latitude)) *
		cos(radians(` + alias + `.longitude) - radians(?)) +
		sin(radians(?)) * sin(radians(` + alias + `.latitude))
	))`
}

// ImagePathOrder is one parsed (path, order) pair from a grouped image
// aggregate.
type ImagePathOrder struct {
	Path  string
	Order int
}

// ParseImageData splits a grouped "path:order,path:order" aggregate into
// ordered entries. An empty string yields an empty collection; entries
// without an order default to 0.
func ParseImageData(data string) []ImagePathOrder {
	entries := []ImagePathOrder{}
	if strings.TrimSpace(data) == "" {
		return entries
	}
	for _, part := range strings.Split(data, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		path := part
		order := 0
		if idx := strings.LastIndex(part, ":"); idx >= 0 {
			path = strings.TrimSpace(part[:idx])
			if n, err := strconv.Atoi(strings.TrimSpace(part[idx+1:])); err == nil {
				order = n
			}
		}
		if path == "" {
			continue
		}
		entries = append(entries, ImagePathOrder{Path: path, Order: order})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Order < entries[j].Order })
	return entries
}

// ParseImagePaths splits a grouped "path,path" aggregate, dropping anything
// after a stray colon so order suffixes never leak into filenames.
func ParseImagePaths(data string) []string {
	paths := []string{}
	if strings.TrimSpace(data) == "" {
		return paths
	}
	for _, part := range strings.Split(data, ",") {
		clean := strings.TrimSpace(strings.SplitN(part, ":", 2)[0])
		if clean != "" {
			paths = append(paths, clean)
		}
	}
	return paths
}

// ParseAmenityIDs splits a grouped "1,2,3" aggregate into ids, skipping
// malformed entries.
func ParseAmenityIDs(data string) []int {
	ids := []int{}
	if strings.TrimSpace(data) == "" {
		return ids
	}
	for _, part := range strings.Split(data, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			ids = append(ids, n)
		}
	}
	return ids
}

// ParseAvailabilityData splits a grouped "date price is_available" aggregate
// (comma between rows, space inside a row) into availability entries. The
// price column already carries the per-date override or the stay's base
// price, so no fallback happens here.
func ParseAvailabilityData(data string) []dto.AvailabilityEntry {
	entries := []dto.AvailabilityEntry{}
	if strings.TrimSpace(data) == "" {
		return entries
	}
	for _, part := range strings.Split(data, ",") {
		fields := strings.Fields(part)
		if len(fields) != 3 {
			continue
		}
		price, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		avail, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		entries = append(entries, dto.AvailabilityEntry{
			Date:          fields[0],
			IsAvailable:   avail != 0,
			PriceOverride: &price,
		})
	}
	return entries
}

// MediaResolver is what the aggregation layer needs from the media store:
// existence checks and public URLs for stored filenames.
type MediaResolver interface {
	Exists(filename string) bool
	URLFor(filename string) string
}

// ResolveImages turns parsed (path, order) pairs into response entries,
// silently dropping paths whose file no longer exists in the media store.
func ResolveImages(entries []ImagePathOrder, media MediaResolver) []dto.ImageEntry {
	images := []dto.ImageEntry{}
	for _, e := range entries {
		if !media.Exists(e.Path) {
			continue
		}
		images = append(images, dto.ImageEntry{URL: media.URLFor(e.Path), Order: e.Order})
	}
	return images
}

// ResolvePaths is ResolveImages for aggregates without a declared order; the
// underlying row order is kept.
func ResolvePaths(paths []string, media MediaResolver) []dto.ImageEntry {
	images := []dto.ImageEntry{}
	for i, p := range paths {
		if !media.Exists(p) {
			continue
		}
		images = append(images, dto.ImageEntry{URL: media.URLFor(p), Order: i})
	}
	return images
}

// PublicStayRow is one row of the public stays browse query, child
// collections folded into delimited aggregates.
type PublicStayRow struct {
	ID            uint
	HostID        uint
	Title         string
	Description   string
	LocationName  string
	Address       string
	Zipcode       string
	City          string
	State         string
	PricePerNight float64
	MaxGuests     int
	Bedrooms      int
	Bathrooms     int
	Status        string
	Latitude      *float64
	Longitude     *float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	HostName      string
	HostImage     string
	Rating        float64
	ReviewCount   int
	ImageData     string
	AmenityData   string
	Distance      *float64
}

// HostStayRow is one row of the host stays queries, including the
// availability aggregate.
type HostStayRow struct {
	ID               uint
	HostID           uint
	Title            string
	Description      string
	LocationName     string
	Address          string
	Zipcode          string
	City             string
	State            string
	PricePerNight    float64
	MaxGuests        int
	Bedrooms         int
	Bathrooms        int
	Status           string
	Latitude         *float64
	Longitude        *float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ImageData        string
	AmenityData      string
	AvailabilityData string
}

// FoodExperienceRow is one row of the public food-experience queries.
type FoodExperienceRow struct {
	ID              uint
	HostID          uint
	Title           string
	Description     string
	MenuDescription string
	LocationName    string
	PricePerPerson  float64
	CuisineType     string
	Address         string
	Zipcode         string
	City            string
	State           string
	Latitude        *float64
	Longitude       *float64
	Status          string
	Duration        string
	MaxGuests       int
	Language        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	HostName        string
	HostImage       string
	Rating          float64
	ReviewCount     int
	ImagePaths      string
}

// QueryPublicStays runs the published-stays browse with all filters applied
// in SQL. Amenity filtering is AND semantics: a stay qualifies only when it
// carries every requested amenity name.
func QueryPublicStays(db *gorm.DB, f dto.SearchFilters) ([]PublicStayRow, error) {
	minPrice, maxPrice := 0.0, 1000.0
	if f.MinPrice != nil {
		minPrice = *f.MinPrice
	}
	if f.MaxPrice != nil {
		maxPrice = *f.MaxPrice
	}
	minGuests := 1
	if f.MinGuests != nil {
		minGuests = *f.MinGuests
	}

	query := `
		SELECT s.id, s.host_id, s.title, s.description, s.location_name,
			s.address, s.zipcode, s.city, s.state, s.price_per_night,
			s.max_guests, s.bedrooms, s.bathrooms, s.status,
			s.latitude, s.longitude, s.created_at, s.updated_at,
			u.name AS host_name, COALESCE(u.image, '') AS host_image,
			COALESCE(AVG(r.rating), 0) AS rating,
			COUNT(DISTINCT r.id) AS review_count,
			COALESCE(string_agg(DISTINCT si.image_path || ':' || si.display_order, ','), '') AS image_data,
			COALESCE(string_agg(DISTINCT a.name, ','), '') AS amenity_data`
	args := []interface{}{}

	hasCenter := f.Lat != nil && f.Lng != nil
	if hasCenter {
		query += `,
			` + distanceExpr("s") + ` AS distance`
		args = append(args, *f.Lat, *f.Lng, *f.Lat)
	}

	query += `
		FROM stays s
		JOIN users u ON s.host_id = u.id
		LEFT JOIN reviews r ON s.id = r.stay_id
		LEFT JOIN stay_images si ON s.id = si.stay_id
		LEFT JOIN stay_amenities sa ON s.id = sa.stay_id
		LEFT JOIN amenities a ON sa.amenity_id = a.id
		WHERE s.status = ?
		AND s.price_per_night BETWEEN ? AND ?
		AND s.max_guests >= ?`
	args = append(args, constants.ListingStatusPublished, minPrice, maxPrice, minGuests)

	if f.Zipcode != "" {
		query += `
		AND s.zipcode = ?`
		args = append(args, f.Zipcode)
	}

	if len(f.Amenities) > 0 {
		query += `
		AND (SELECT COUNT(DISTINCT fa.name) FROM stay_amenities fsa
			JOIN amenities fa ON fsa.amenity_id = fa.id
			WHERE fsa.stay_id = s.id AND fa.name IN ?) = ?`
		args = append(args, f.Amenities, len(f.Amenities))
	}

	query += `
		GROUP BY s.id, u.name, u.image`

	if hasCenter {
		radius := 10.0
		if f.Radius != nil {
			radius = *f.Radius
		}
		query += `
		HAVING ` + distanceExpr("s") + ` <= ?`
		args = append(args, *f.Lat, *f.Lng, *f.Lat, radius)
	}

	switch f.Sort {
	case "price_asc":
		query += `
		ORDER BY s.price_per_night ASC`
	case "price_desc":
		query += `
		ORDER BY s.price_per_night DESC`
	case "rating_desc":
		query += `
		ORDER BY rating DESC`
	case "distance_asc":
		if hasCenter {
			query += `
		ORDER BY distance ASC`
		} else {
			query += `
		ORDER BY s.created_at DESC`
		}
	default:
		query += `
		ORDER BY s.created_at DESC`
	}

	var rows []PublicStayRow
	err := db.Raw(query, args...).Scan(&rows).Error
	return rows, err
}

// QueryFeaturedStays returns the curated landing rail: published stays
// flagged featured, newest first. The browse price and guest defaults do not
// apply here, a featured stay qualifies at any price.
func QueryFeaturedStays(db *gorm.DB, limit int) ([]PublicStayRow, error) {
	var rows []PublicStayRow
	err := db.Raw(`
		SELECT s.id, s.host_id, s.title, s.description, s.location_name,
			s.address, s.zipcode, s.city, s.state, s.price_per_night,
			s.max_guests, s.bedrooms, s.bathrooms, s.status,
			s.latitude, s.longitude, s.created_at, s.updated_at,
			u.name AS host_name, COALESCE(u.image, '') AS host_image,
			COALESCE(AVG(r.rating), 0) AS rating,
			COUNT(DISTINCT r.id) AS review_count,
			COALESCE(string_agg(DISTINCT si.image_path || ':' || si.display_order, ','), '') AS image_data,
			COALESCE(string_agg(DISTINCT a.name, ','), '') AS amenity_data
		FROM stays s
		JOIN users u ON s.host_id = u.id
		LEFT JOIN reviews r ON s.id = r.stay_id
		LEFT JOIN stay_images si ON s.id = si.stay_id
		LEFT JOIN stay_amenities sa ON s.id = sa.stay_id
		LEFT JOIN amenities a ON sa.amenity_id = a.id
		WHERE s.status = ? AND s.is_featured = TRUE
		GROUP BY s.id, u.name, u.image
		ORDER BY s.created_at DESC
		LIMIT ?`, constants.ListingStatusPublished, limit).Scan(&rows).Error
	return rows, err
}

// QueryHostStays returns every stay of a host with child collections folded
// into grouped aggregates, newest first.
func QueryHostStays(db *gorm.DB, hostID uint) ([]HostStayRow, error) {
	var rows []HostStayRow
	err := db.Raw(`
		SELECT s.id, s.host_id, s.title, s.description, s.location_name,
			s.address, s.zipcode, s.city, s.state, s.price_per_night,
			s.max_guests, s.bedrooms, s.bathrooms, s.status,
			s.latitude, s.longitude, s.created_at, s.updated_at,
			COALESCE(string_agg(DISTINCT si.image_path || ':' || si.display_order, ','), '') AS image_data,
			COALESCE(string_agg(DISTINCT sa.amenity_id::text, ','), '') AS amenity_data,
			'' AS availability_data
		FROM stays s
		LEFT JOIN stay_images si ON s.id = si.stay_id
		LEFT JOIN stay_amenities sa ON s.id = sa.stay_id
		WHERE s.host_id = ?
		GROUP BY s.id
		ORDER BY s.created_at DESC`, hostID).Scan(&rows).Error
	return rows, err
}

// QueryHostStay returns one stay of a host, or an empty slice when the stay
// does not exist or belongs to someone else — callers answer both the same
// way. The availability aggregate folds the price fallback in SQL.
func QueryHostStay(db *gorm.DB, hostID, stayID uint) ([]HostStayRow, error) {
	var rows []HostStayRow
	err := db.Raw(`
		SELECT s.id, s.host_id, s.title, s.description, s.location_name,
			s.address, s.zipcode, s.city, s.state, s.price_per_night,
			s.max_guests, s.bedrooms, s.bathrooms, s.status,
			s.latitude, s.longitude, s.created_at, s.updated_at,
			COALESCE(string_agg(DISTINCT si.image_path || ':' || si.display_order, ','), '') AS image_data,
			COALESCE(string_agg(DISTINCT sa.amenity_id::text, ','), '') AS amenity_data,
			COALESCE(string_agg(DISTINCT to_char(sav.date, 'YYYY-MM-DD') || ' ' ||
				COALESCE(sav.price_override, s.price_per_night) || ' ' ||
				(CASE WHEN sav.is_available THEN 1 ELSE 0 END), ','), '') AS availability_data
		FROM stays s
		LEFT JOIN stay_images si ON s.id = si.stay_id
		LEFT JOIN stay_amenities sa ON s.id = sa.stay_id
		LEFT JOIN stay_availability sav ON s.id = sav.stay_id
		WHERE s.id = ? AND s.host_id = ?
		GROUP BY s.id`, stayID, hostID).Scan(&rows).Error
	return rows, err
}

// QueryPublicFoodExperiences runs the published food-experience browse.
func QueryPublicFoodExperiences(db *gorm.DB, zipcode, cuisine, sortKey string) ([]FoodExperienceRow, error) {
	query := `
		SELECT fe.id, fe.host_id, fe.title, fe.description, fe.menu_description,
			fe.location_name, fe.price_per_person, fe.cuisine_type,
			fe.address, fe.zipcode, fe.city, fe.state,
			fe.latitude, fe.longitude, fe.status, fe.duration,
			fe.max_guests, fe.language, fe.created_at, fe.updated_at,
			COALESCE(u.name, 'Unknown Host') AS host_name,
			COALESCE(u.image, '') AS host_image,
			COALESCE(AVG(r.rating), 0) AS rating,
			COUNT(DISTINCT r.id) AS review_count,
			COALESCE(string_agg(DISTINCT fei.image_path, ','), '') AS image_paths
		FROM food_experiences fe
		LEFT JOIN users u ON fe.host_id = u.id
		LEFT JOIN reviews r ON fe.id = r.experience_id
		LEFT JOIN food_experience_images fei ON fe.id = fei.experience_id
		WHERE fe.status = ?`
	args := []interface{}{constants.ListingStatusPublished}

	if zipcode != "" {
		query += `
		AND fe.zipcode = ?`
		args = append(args, zipcode)
	}
	if cuisine != "" {
		query += `
		AND fe.cuisine_type = ?`
		args = append(args, cuisine)
	}

	query += `
		GROUP BY fe.id, u.name, u.image`

	switch sortKey {
	case "price_asc":
		query += `
		ORDER BY fe.price_per_person ASC`
	case "price_desc":
		query += `
		ORDER BY fe.price_per_person DESC`
	default:
		query += `
		ORDER BY rating DESC`
	}

	var rows []FoodExperienceRow
	err := db.Raw(query, args...).Scan(&rows).Error
	return rows, err
}

// QueryNearbyListings merges published food experiences and stays within
// radius kilometers of a center point, each source sorted by distance.
// Listings without coordinates never qualify.
func QueryNearbyListings(db *gorm.DB, lat, lng, radius float64) ([]dto.NearbyListing, error) {
	var food []dto.NearbyListing
	err := db.Raw(`
		SELECT fe.id, fe.title, 'food' AS type, fe.latitude, fe.longitude,
			`+distanceExpr("fe")+` AS distance
		FROM food_experiences fe
		WHERE fe.status = ?
		AND fe.latitude IS NOT NULL AND fe.longitude IS NOT NULL
		AND `+distanceExpr("fe")+` <= ?
		ORDER BY distance`,
		lat, lng, lat, constants.ListingStatusPublished, lat, lng, lat, radius).Scan(&food).Error
	if err != nil {
		return nil, err
	}

	var stays []dto.NearbyListing
	err = db.Raw(`
		SELECT s.id, s.title, 'stay' AS type, s.latitude, s.longitude,
			`+distanceExpr("s")+` AS distance
		FROM stays s
		WHERE s.status = ?
		AND s.latitude IS NOT NULL AND s.longitude IS NOT NULL
		AND `+distanceExpr("s")+` <= ?
		ORDER BY distance`,
		lat, lng, lat, constants.ListingStatusPublished, lat, lng, lat, radius).Scan(&stays).Error
	if err != nil {
		return nil, err
	}

	return append(food, stays...), nil
}
