package services

import (
	"math"
	"testing"

	"platform/dto"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestHaversine(t *testing.T) {
	// Same point.
	assert.InDelta(t, 0, Haversine(40.7128, -74.0060, 40.7128, -74.0060), 0.001)

	// New York to Los Angeles, roughly 3936 km.
	d := Haversine(40.7128, -74.0060, 34.0522, -118.2437)
	assert.InDelta(t, 3936, d, 30)

	// Symmetric.
	assert.InDelta(t, d, Haversine(34.0522, -118.2437, 40.7128, -74.0060), 0.001)

	// Antipodal points stay finite thanks to the acos clamp.
	half := EarthRadiusKm * math.Pi
	assert.InDelta(t, half, Haversine(0, 0, 0, 180), 1)
}

func TestParseImageData(t *testing.T) {
	assert.Empty(t, ParseImageData(""))
	assert.Empty(t, ParseImageData("   "))

	entries := ParseImageData("b.jpg:1,a.jpg:0")
	require.Len(t, entries, 2)
	assert.Equal(t, "a.jpg", entries[0].Path)
	assert.Equal(t, 0, entries[0].Order)
	assert.Equal(t, "b.jpg", entries[1].Path)

	// Missing order defaults to 0 and keeps declared position.
	entries = ParseImageData("first.jpg,second.jpg:2")
	require.Len(t, entries, 2)
	assert.Equal(t, "first.jpg", entries[0].Path)
	assert.Equal(t, "second.jpg", entries[1].Path)

	// Stray empty segments are dropped.
	entries = ParseImageData("a.jpg:0,,b.jpg:1,")
	assert.Len(t, entries, 2)
}

func TestParseImagePaths(t *testing.T) {
	assert.Empty(t, ParseImagePaths(""))
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, ParseImagePaths("a.jpg,b.jpg"))
	// Order suffixes never leak into filenames.
	assert.Equal(t, []string{"a.jpg"}, ParseImagePaths("a.jpg:3"))
}

func TestParseAmenityIDs(t *testing.T) {
	assert.Empty(t, ParseAmenityIDs(""))
	assert.Equal(t, []int{1, 2, 3}, ParseAmenityIDs("1, 2,3"))
	assert.Equal(t, []int{4}, ParseAmenityIDs("4,wifi"))
}

func TestParseAvailabilityData(t *testing.T) {
	assert.Empty(t, ParseAvailabilityData(""))

	entries := ParseAvailabilityData("2026-09-01 120 1,2026-09-02 95.5 0")
	require.Len(t, entries, 2)
	assert.Equal(t, "2026-09-01", entries[0].Date)
	assert.True(t, entries[0].IsAvailable)
	require.NotNil(t, entries[0].PriceOverride)
	assert.Equal(t, 120.0, *entries[0].PriceOverride)

	assert.Equal(t, "2026-09-02", entries[1].Date)
	assert.False(t, entries[1].IsAvailable)
	assert.Equal(t, 95.5, *entries[1].PriceOverride)

	// Malformed triples are skipped.
	entries = ParseAvailabilityData("2026-09-01 abc 1,2026-09-03 80 1")
	require.Len(t, entries, 1)
	assert.Equal(t, "2026-09-03", entries[0].Date)
}

type fakeMedia struct {
	present map[string]bool
}

func (f fakeMedia) Exists(filename string) bool { return f.present[filename] }
func (f fakeMedia) URLFor(filename string) string {
	return "/uploads/" + filename
}

func TestResolveImagesDropsMissingFiles(t *testing.T) {
	media := fakeMedia{present: map[string]bool{"a.jpg": true}}

	images := ResolveImages([]ImagePathOrder{
		{Path: "a.jpg", Order: 0},
		{Path: "gone.jpg", Order: 1},
	}, media)
	require.Len(t, images, 1)
	assert.Equal(t, "/uploads/a.jpg", images[0].URL)

	// Empty input resolves to an empty, non-nil collection.
	assert.NotNil(t, ResolveImages(nil, media))
	assert.Empty(t, ResolveImages(nil, media))
}

func TestResolvePaths(t *testing.T) {
	media := fakeMedia{present: map[string]bool{"a.jpg": true, "b.jpg": true}}
	images := ResolvePaths([]string{"a.jpg", "missing.jpg", "b.jpg"}, media)
	require.Len(t, images, 2)
	assert.Equal(t, "/uploads/a.jpg", images[0].URL)
	assert.Equal(t, "/uploads/b.jpg", images[1].URL)
}

func stayRowColumns() []string {
	return []string{"id", "title", "price_per_night", "max_guests", "status",
		"host_name", "host_image", "rating", "review_count", "image_data", "amenity_data"}
}

func TestQueryPublicStaysDefaults(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("FROM stays s").
		WithArgs("published", 0.0, 1000.0, 1).
		WillReturnRows(sqlmock.NewRows(stayRowColumns()).
			AddRow(1, "Loft", 150.0, 2, "published", "Ana", "", 4.5, 3, "a.jpg:0", "WiFi"))

	rows, err := QueryPublicStays(db, dto.SearchFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Loft", rows[0].Title)
	assert.Equal(t, 4.5, rows[0].Rating)
	assert.Nil(t, rows[0].Distance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryPublicStaysAmenityFilter(t *testing.T) {
	db, mock := newMockDB(t)

	minPrice, maxPrice := 50.0, 300.0
	// Every requested amenity must match, so the subquery compares against
	// the full requested count.
	mock.ExpectQuery(`COUNT\(DISTINCT fa.name\)`).
		WithArgs("published", minPrice, maxPrice, 1, "94110", "WiFi", "Kitchen", 2).
		WillReturnRows(sqlmock.NewRows(stayRowColumns()))

	_, err := QueryPublicStays(db, dto.SearchFilters{
		MinPrice:  &minPrice,
		MaxPrice:  &maxPrice,
		Zipcode:   "94110",
		Amenities: []string{"WiFi", "Kitchen"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryPublicStaysDistanceFilter(t *testing.T) {
	db, mock := newMockDB(t)

	lat, lng, radius := 37.77, -122.42, 5.0
	mock.ExpectQuery(`HAVING`).
		WithArgs(lat, lng, lat, "published", 0.0, 1000.0, 1, lat, lng, lat, radius).
		WillReturnRows(sqlmock.NewRows(append(stayRowColumns(), "distance")).
			AddRow(7, "Nearby loft", 90.0, 2, "published", "Ben", "", 0.0, 0, "", "", 1.2).
			AddRow(8, "Also nearby", 110.0, 4, "published", "Cee", "", 0.0, 0, "", "", 2.8))

	rows, err := QueryPublicStays(db, dto.SearchFilters{
		Lat: &lat, Lng: &lng, Radius: &radius, Sort: "distance_asc",
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Distance)
	assert.InDelta(t, 1.2, *rows[0].Distance, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryFeaturedStaysSkipsBrowseDefaults(t *testing.T) {
	db, mock := newMockDB(t)

	// The featured rail filters on the flag only; the browse price and guest
	// defaults must not appear as bind args.
	mock.ExpectQuery(`is_featured = TRUE`).
		WithArgs("published", 4).
		WillReturnRows(sqlmock.NewRows(stayRowColumns()).
			AddRow(7, "Penthouse", 1500.0, 6, "published", "Ana", "", 5.0, 1, "", ""))

	rows, err := QueryFeaturedStays(db, 4)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1500.0, rows[0].PricePerNight)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryHostStayScopedToOwner(t *testing.T) {
	db, mock := newMockDB(t)

	// A stay that exists but belongs to someone else comes back empty, the
	// same as a missing stay.
	mock.ExpectQuery("FROM stays s").
		WithArgs(9, 42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

	rows, err := QueryHostStay(db, 42, 9)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryNearbyListingsMergesFoodFirst(t *testing.T) {
	db, mock := newMockDB(t)

	lat, lng, radius := 37.77, -122.42, 10.0
	mock.ExpectQuery("FROM food_experiences fe").
		WithArgs(lat, lng, lat, "published", lat, lng, lat, radius).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "type", "latitude", "longitude", "distance"}).
			AddRow(3, "Tamale night", "food", 37.76, -122.41, 1.2))
	mock.ExpectQuery("FROM stays s").
		WithArgs(lat, lng, lat, "published", lat, lng, lat, radius).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "type", "latitude", "longitude", "distance"}).
			AddRow(5, "Mission loft", "stay", 37.75, -122.43, 2.8))

	listings, err := QueryNearbyListings(db, lat, lng, radius)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "food", listings[0].Type)
	assert.Equal(t, "stay", listings[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
