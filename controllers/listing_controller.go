package controllers

import (
	"strconv"
	"strings"
	"time"

	"platform/config"
	"platform/constants"
	"platform/dto"
	"platform/models"
	"platform/response"
	"platform/services"
	"platform/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	amenityCacheTTL  = time.Hour
	featuredCacheTTL = 10 * time.Minute

	featuredStayLimit = 4
	featuredFoodLimit = 6
)

// foodCategories is the static browse rail of the food landing page.
var foodCategories = []dto.FoodCategory{
	{ID: "home-dining", Title: "Home dining", Description: "Share a home-cooked meal at the host's table", Image: "/static/categories/home-dining.jpg"},
	{ID: "cooking-class", Title: "Cooking classes", Description: "Learn the host's recipes hands-on", Image: "/static/categories/cooking-class.jpg"},
	{ID: "food-tour", Title: "Food tours", Description: "Eat your way through the host's neighborhood", Image: "/static/categories/food-tour.jpg"},
	{ID: "tasting", Title: "Tastings", Description: "Guided tastings of local specialties", Image: "/static/categories/tasting.jpg"},
}

func queryFloat(c *gin.Context, name string) (*float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &f, true
}

func queryInt(c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// parseSearchFilters reads the browse filters off the query string. Malformed
// numerics answer 400 with the parameter name before any query runs.
func parseSearchFilters(c *gin.Context) (dto.SearchFilters, bool) {
	var f dto.SearchFilters
	var ok bool

	for name, dst := range map[string]**float64{
		"min_price": &f.MinPrice,
		"max_price": &f.MaxPrice,
		"lat":       &f.Lat,
		"lng":       &f.Lng,
		"radius":    &f.Radius,
	} {
		if *dst, ok = queryFloat(c, name); !ok {
			response.BadRequest(c, "invalid "+name)
			return f, false
		}
	}
	if f.MinGuests, ok = queryInt(c, "min_guests"); !ok {
		response.BadRequest(c, "invalid min_guests")
		return f, false
	}

	if raw := c.Query("amenities"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				f.Amenities = append(f.Amenities, part)
			}
		}
	}
	f.Zipcode = c.Query("zipcode")
	f.Query = c.Query("q")
	f.Sort = c.Query("sort")
	return f, true
}

func buildPublicStayResponse(row services.PublicStayRow) dto.PublicStayResponse {
	amenities := []string{}
	for _, part := range strings.Split(row.AmenityData, ",") {
		if part = strings.TrimSpace(part); part != "" {
			amenities = append(amenities, part)
		}
	}

	resp := dto.PublicStayResponse{
		ID:            row.ID,
		Title:         row.Title,
		Description:   row.Description,
		LocationName:  row.LocationName,
		PricePerNight: row.PricePerNight,
		Status:        row.Status,
		Zipcode:       row.Zipcode,
		City:          row.City,
		State:         row.State,
		Distance:      row.Distance,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		Details: dto.StayDetails{
			Bedrooms:  row.Bedrooms,
			Bathrooms: row.Bathrooms,
			MaxGuests: row.MaxGuests,
			Location:  row.LocationName,
		},
		Host: dto.HostInfo{
			Name:    row.HostName,
			Image:   row.HostImage,
			Rating:  row.Rating,
			Reviews: row.ReviewCount,
		},
		Images:    services.ResolveImages(services.ParseImageData(row.ImageData), Media),
		Amenities: amenities,
	}
	if row.Latitude != nil {
		resp.Latitude = *row.Latitude
	}
	if row.Longitude != nil {
		resp.Longitude = *row.Longitude
	}
	return resp
}

func buildPublicFoodExperienceResponse(row services.FoodExperienceRow) dto.PublicFoodExperienceResponse {
	resp := dto.PublicFoodExperienceResponse{
		ID:             row.ID,
		Title:          row.Title,
		Description:    row.Description,
		PricePerPerson: row.PricePerPerson,
		CuisineType:    row.CuisineType,
		LocationName:   row.LocationName,
		Zipcode:        row.Zipcode,
		City:           row.City,
		State:          row.State,
		Images:         services.ResolvePaths(services.ParseImagePaths(row.ImagePaths), Media),
		Host: dto.HostInfo{
			Name:    row.HostName,
			Image:   row.HostImage,
			Rating:  row.Rating,
			Reviews: row.ReviewCount,
		},
	}
	if row.Latitude != nil {
		resp.Latitude = *row.Latitude
	}
	if row.Longitude != nil {
		resp.Longitude = *row.Longitude
	}
	return resp
}

// GetPublicStays is the published-stays browse. Filters the session sent
// earlier are merged underneath the current request via the X-Session-ID key,
// and a `q` term reranks results by fuzzy title match.
func GetPublicStays(c *gin.Context) {
	filters, ok := parseSearchFilters(c)
	if !ok {
		return
	}

	sessionID := c.GetString("sessionId")
	if sessionID != "" && config.RedisClient != nil {
		if old, err := services.GetLastFilters(config.Ctx, config.RedisClient, sessionID); err == nil {
			filters = *services.MergeFilters(old, &filters)
		}
		if err := services.SaveLastFilters(config.Ctx, config.RedisClient, sessionID, &filters); err != nil {
			Log.Debug("saving filters for session %s: %v", sessionID, err)
		}
	}

	rows, err := services.QueryPublicStays(config.DB, filters)
	if err != nil {
		response.ServerError(c, err)
		return
	}
	if filters.Query != "" {
		rows = services.RankByTitle(filters.Query, rows)
	}

	stays := make([]dto.PublicStayResponse, 0, len(rows))
	for _, row := range rows {
		stays = append(stays, buildPublicStayResponse(row))
	}
	response.SuccessWithTotal(c, stays, len(stays))
}

// GetPublicFoodExperiences is the published food-experience browse. An
// unknown cuisine value snaps to the closest known cuisine type.
func GetPublicFoodExperiences(c *gin.Context) {
	zipcode := c.Query("zipcode")
	cuisine := c.Query("cuisine")
	sortKey := c.Query("sort")

	if cuisine != "" {
		var known []string
		err := config.DB.Model(&models.FoodExperience{}).
			Where("status = ?", constants.ListingStatusPublished).
			Distinct().
			Pluck("cuisine_type", &known).Error
		if err == nil && len(known) > 0 {
			cuisine = services.ClosestCuisine(cuisine, known)
		}
	}

	rows, err := services.QueryPublicFoodExperiences(config.DB, zipcode, cuisine, sortKey)
	if err != nil {
		response.ServerError(c, err)
		return
	}

	exps := make([]dto.PublicFoodExperienceResponse, 0, len(rows))
	for _, row := range rows {
		exps = append(exps, buildPublicFoodExperienceResponse(row))
	}
	response.SuccessWithTotal(c, exps, len(exps))
}

// GetFoodExperienceDetail returns one published food experience with its
// host and rating block.
func GetFoodExperienceDetail(c *gin.Context) {
	expID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid food experience id")
		return
	}

	var exp models.FoodExperience
	err = config.DB.Where("id = ? AND status = ?", expID, constants.ListingStatusPublished).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order")
		}).
		Preload("Host").
		First(&exp).Error
	if err == gorm.ErrRecordNotFound {
		response.NotFound(c, "Food experience not found")
		return
	}
	if err != nil {
		response.ServerError(c, err)
		return
	}

	var rating struct {
		Rating  float64
		Reviews int
	}
	config.DB.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS rating, COUNT(id) AS reviews").
		Where("experience_id = ?", exp.ID).
		Scan(&rating)

	images := []dto.ImageEntry{}
	for _, img := range exp.Images {
		if !Media.Exists(img.ImagePath) {
			continue
		}
		images = append(images, dto.ImageEntry{URL: Media.URLFor(img.ImagePath), Order: img.DisplayOrder})
	}

	includes := []string{}
	for _, line := range strings.Split(exp.MenuDescription, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			includes = append(includes, line)
		}
	}

	response.Success(c, dto.FoodExperienceDetailResponse{
		ID:              exp.ID,
		Title:           exp.Title,
		Description:     exp.Description,
		MenuDescription: exp.MenuDescription,
		PricePerPerson:  exp.PricePerPerson,
		CuisineType:     exp.CuisineType,
		Images:          images,
		Host: dto.HostInfo{
			Name:    exp.Host.Name,
			Image:   exp.Host.Image,
			Rating:  rating.Rating,
			Reviews: rating.Reviews,
		},
		Details: dto.FoodExperienceDetails{
			Duration:  exp.Duration,
			GroupSize: "Up to " + strconv.Itoa(exp.MaxGuests) + " guests",
			Includes:  includes,
			Language:  exp.Language,
			Location:  exp.LocationName,
		},
	})
}

// GetAmenities returns the amenity catalog grouped by category, filtered by
// listing type and cached in redis.
func GetAmenities(c *gin.Context) {
	amenityType := c.DefaultQuery("type", constants.AmenityTypeBoth)
	if err := validator.ValidateAmenityType(amenityType); err != nil {
		response.BadRequest(c, "type must be stay, food or both")
		return
	}

	cacheKey := "amenities:" + amenityType
	grouped := map[string][]dto.AmenityOption{}
	if config.RedisClient != nil {
		if err := services.GetFromRedis(config.Ctx, config.RedisClient, cacheKey, &grouped); err == nil && len(grouped) > 0 {
			response.Success(c, grouped)
			return
		}
	}

	query := config.DB.Order("category, name")
	if amenityType != constants.AmenityTypeBoth {
		query = query.Where("type = ? OR type = ?", amenityType, constants.AmenityTypeBoth)
	}
	var amenities []models.Amenity
	if err := query.Find(&amenities).Error; err != nil {
		response.ServerError(c, err)
		return
	}

	for _, a := range amenities {
		grouped[a.Category] = append(grouped[a.Category], dto.AmenityOption{
			ID:   strconv.FormatUint(uint64(a.ID), 10),
			Name: a.Name,
		})
	}

	if config.RedisClient != nil {
		if err := services.SetToRedis(config.Ctx, config.RedisClient, cacheKey, grouped, amenityCacheTTL); err != nil {
			Log.Debug("caching amenities: %v", err)
		}
	}
	response.Success(c, grouped)
}

// GetFoodCategories returns the static food category rail.
func GetFoodCategories(c *gin.Context) {
	response.Success(c, foodCategories)
}

// GetFeaturedStays returns the curated published stays for the landing page,
// cached briefly in redis.
func GetFeaturedStays(c *gin.Context) {
	var cached []dto.PublicStayResponse
	if config.RedisClient != nil {
		if err := services.GetFromRedis(config.Ctx, config.RedisClient, "featured:stays", &cached); err == nil && len(cached) > 0 {
			response.SuccessWithTotal(c, cached, len(cached))
			return
		}
	}

	rows, err := services.QueryFeaturedStays(config.DB, featuredStayLimit)
	if err != nil {
		response.ServerError(c, err)
		return
	}

	stays := []dto.PublicStayResponse{}
	for _, row := range rows {
		stays = append(stays, buildPublicStayResponse(row))
	}

	if config.RedisClient != nil && len(stays) > 0 {
		if err := services.SetToRedis(config.Ctx, config.RedisClient, "featured:stays", stays, featuredCacheTTL); err != nil {
			Log.Debug("caching featured stays: %v", err)
		}
	}
	response.SuccessWithTotal(c, stays, len(stays))
}

// GetFeaturedFood returns the best-rated published food experiences for the
// landing page, cached briefly in redis.
func GetFeaturedFood(c *gin.Context) {
	var cached []dto.PublicFoodExperienceResponse
	if config.RedisClient != nil {
		if err := services.GetFromRedis(config.Ctx, config.RedisClient, "featured:food", &cached); err == nil && len(cached) > 0 {
			response.SuccessWithTotal(c, cached, len(cached))
			return
		}
	}

	rows, err := services.QueryPublicFoodExperiences(config.DB, "", "", "")
	if err != nil {
		response.ServerError(c, err)
		return
	}

	// The food rail is the top of the rating-sorted published browse, not an
	// is_featured curation.
	exps := []dto.PublicFoodExperienceResponse{}
	for _, row := range rows {
		exps = append(exps, buildPublicFoodExperienceResponse(row))
		if len(exps) == featuredFoodLimit {
			break
		}
	}

	if config.RedisClient != nil && len(exps) > 0 {
		if err := services.SetToRedis(config.Ctx, config.RedisClient, "featured:food", exps, featuredCacheTTL); err != nil {
			Log.Debug("caching featured food: %v", err)
		}
	}
	response.SuccessWithTotal(c, exps, len(exps))
}

// GetNearbyListings merges published stays and food experiences within
// radius kilometers of a center point.
func GetNearbyListings(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		response.BadRequest(c, "invalid lat")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		response.BadRequest(c, "invalid lng")
		return
	}
	radius := 10.0
	if raw := c.Query("radius"); raw != "" {
		if radius, err = strconv.ParseFloat(raw, 64); err != nil {
			response.BadRequest(c, "invalid radius")
			return
		}
	}

	listings, err := services.QueryNearbyListings(config.DB, lat, lng, radius)
	if err != nil {
		response.ServerError(c, err)
		return
	}
	response.SuccessWithTotal(c, listings, len(listings))
}
