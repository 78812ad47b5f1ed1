package controllers

import (
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"

	"platform/config"
	"platform/constants"
	"platform/dto"
	"platform/errors"
	"platform/middleware"
	"platform/models"
	"platform/response"
	"platform/services"
	"platform/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const stayNotFoundMessage = "Stay not found or unauthorized"

// parseFloatField parses a numeric form value, naming the field on failure so
// a malformed value fails the whole write with a usable message.
func parseFloatField(value, name string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return f, nil
}

func parseIntField(value, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return n, nil
}

// parseAmenityList accepts a JSON array of ids or a comma-separated list.
func parseAmenityList(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []int{}, nil
	}
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err == nil {
		return ids, nil
	}
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid amenities")
		}
		ids = append(ids, n)
	}
	return ids, nil
}

// parseAvailabilityList parses a JSON array of calendar entries.
func parseAvailabilityList(raw string) ([]dto.AvailabilityEntry, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []dto.AvailabilityEntry{}, nil
	}
	var entries []dto.AvailabilityEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("invalid availability")
	}
	for _, e := range entries {
		if err := validator.ValidateAvailabilityDate(e.Date); err != nil {
			return nil, fmt.Errorf("invalid availability date %s", e.Date)
		}
	}
	return entries, nil
}

// imageFilenames reduces a comma-separated list of URLs or filenames to bare
// stored filenames, in declared order.
func imageFilenames(raw string) []string {
	names := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		names = append(names, path.Base(part))
	}
	return names
}

// replaceStayImages swaps the stay's image rows for the given filenames.
// Insert failures are logged and swallowed so one bad path never fails the
// listing write.
func replaceStayImages(tx *gorm.DB, stayID uint, filenames []string) error {
	if err := tx.Where("stay_id = ?", stayID).Delete(&models.StayImage{}).Error; err != nil {
		return err
	}
	for i, name := range filenames {
		img := models.StayImage{StayID: stayID, ImagePath: name, DisplayOrder: i}
		if err := tx.Create(&img).Error; err != nil {
			Log.Error("stay %d: inserting image %s: %v", stayID, name, err)
		}
	}
	return nil
}

func replaceStayAmenities(tx *gorm.DB, stayID uint, amenityIDs []int) error {
	if err := tx.Exec("DELETE FROM stay_amenities WHERE stay_id = ?", stayID).Error; err != nil {
		return err
	}
	for _, id := range amenityIDs {
		err := tx.Exec("INSERT INTO stay_amenities (stay_id, amenity_id) VALUES (?, ?)", stayID, id).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func replaceStayAvailability(tx *gorm.DB, stayID uint, entries []dto.AvailabilityEntry) error {
	if err := tx.Where("stay_id = ?", stayID).Delete(&models.StayAvailability{}).Error; err != nil {
		return err
	}
	for _, e := range entries {
		row := models.StayAvailability{
			StayID:        stayID,
			Date:          e.Date,
			IsAvailable:   e.IsAvailable,
			PriceOverride: e.PriceOverride,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func buildHostStayResponse(row services.HostStayRow) dto.HostStayResponse {
	resp := dto.HostStayResponse{
		ID:            row.ID,
		Title:         row.Title,
		Description:   row.Description,
		LocationName:  row.LocationName,
		PricePerNight: row.PricePerNight,
		MaxGuests:     row.MaxGuests,
		Bedrooms:      row.Bedrooms,
		Bathrooms:     row.Bathrooms,
		Status:        row.Status,
		Address:       row.Address,
		Zipcode:       row.Zipcode,
		City:          row.City,
		State:         row.State,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		Images:        services.ResolveImages(services.ParseImageData(row.ImageData), Media),
		Amenities:     services.ParseAmenityIDs(row.AmenityData),
		Availability:  services.ParseAvailabilityData(row.AvailabilityData),
	}
	if row.Latitude != nil {
		resp.Latitude = *row.Latitude
	}
	if row.Longitude != nil {
		resp.Longitude = *row.Longitude
	}
	return resp
}

// CreateStay creates a stay for the authenticated host, child collections
// written in the same transaction as the row itself.
func CreateStay(c *gin.Context) {
	hostID := middleware.CurrentUserID(c)

	var form dto.StayForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, "invalid form payload")
		return
	}

	stay := models.Stay{
		HostID:       hostID,
		Title:        strings.TrimSpace(form.Title),
		Description:  strings.TrimSpace(form.Description),
		LocationName: strings.TrimSpace(form.LocationName),
		Address:      form.Address,
		Zipcode:      form.Zipcode,
		City:         form.City,
		State:        form.State,
		Status:       constants.ListingStatusDraft,
		MaxGuests:    1,
	}
	if form.Status != "" {
		stay.Status = form.Status
	}

	price, err := parseFloatField(form.PricePerNight, "price_per_night")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	stay.PricePerNight = price

	if form.MaxGuests != "" {
		if stay.MaxGuests, err = parseIntField(form.MaxGuests, "max_guests"); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}
	if form.Bedrooms != "" {
		if stay.Bedrooms, err = parseIntField(form.Bedrooms, "bedrooms"); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}
	if form.Bathrooms != "" {
		if stay.Bathrooms, err = parseIntField(form.Bathrooms, "bathrooms"); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}
	if form.Latitude != "" {
		lat, err := parseFloatField(form.Latitude, "latitude")
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		stay.Latitude = &lat
	}
	if form.Longitude != "" {
		lng, err := parseFloatField(form.Longitude, "longitude")
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		stay.Longitude = &lng
	}

	if err := validator.ValidateStay(&stay); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	amenityIDs, err := parseAmenityList(form.Amenities)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	availability, err := parseAvailabilityList(form.Availability)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&stay).Error; err != nil {
			return err
		}
		if err := replaceStayAmenities(tx, stay.ID, amenityIDs); err != nil {
			return err
		}
		if err := replaceStayAvailability(tx, stay.ID, availability); err != nil {
			return err
		}
		return replaceStayImages(tx, stay.ID, imageFilenames(form.Images))
	})
	if err != nil {
		response.ServerError(c, err)
		return
	}

	rows, err := services.QueryHostStay(config.DB, hostID, stay.ID)
	if err != nil || len(rows) == 0 {
		response.Created(c, gin.H{"id": stay.ID})
		return
	}
	response.Created(c, buildHostStayResponse(rows[0]))
}

// GetHostStays lists every stay of the authenticated host, newest first.
func GetHostStays(c *gin.Context) {
	hostID := middleware.CurrentUserID(c)

	rows, err := services.QueryHostStays(config.DB, hostID)
	if err != nil {
		response.ServerError(c, err)
		return
	}

	stays := make([]dto.HostStayResponse, 0, len(rows))
	for _, row := range rows {
		stays = append(stays, buildHostStayResponse(row))
	}
	response.SuccessWithTotal(c, stays, len(stays))
}

// GetHostStay returns one stay of the authenticated host, availability
// calendar included.
func GetHostStay(c *gin.Context) {
	hostID := middleware.CurrentUserID(c)

	stayID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid stay id")
		return
	}

	rows, err := services.QueryHostStay(config.DB, hostID, uint(stayID))
	if err != nil {
		response.ServerError(c, err)
		return
	}
	if len(rows) == 0 {
		response.NotFound(c, stayNotFoundMessage)
		return
	}
	response.Success(c, buildHostStayResponse(rows[0]))
}

// UpdateStay applies the supplied form fields to a stay the caller owns.
// Omitted fields are left untouched; a supplied empty child set clears it.
// The ownership predicate sits in the write's WHERE so a non-owner gets the
// same shape as a missing stay.
func UpdateStay(c *gin.Context) {
	hostID := middleware.CurrentUserID(c)

	stayID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid stay id")
		return
	}

	updates := map[string]interface{}{}
	for _, field := range []string{"title", "description", "location_name", "address", "zipcode", "city", "state"} {
		if v, ok := c.GetPostForm(field); ok {
			updates[field] = strings.TrimSpace(v)
		}
	}
	if v, ok := c.GetPostForm("price_per_night"); ok {
		price, err := parseFloatField(v, "price_per_night")
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if price < 0 {
			response.ValidationError(c, "price_per_night must not be negative")
			return
		}
		updates["price_per_night"] = price
	}
	for _, field := range []string{"max_guests", "bedrooms", "bathrooms"} {
		if v, ok := c.GetPostForm(field); ok {
			n, err := parseIntField(v, field)
			if err != nil {
				response.BadRequest(c, err.Error())
				return
			}
			updates[field] = n
		}
	}
	if v, ok := c.GetPostForm("status"); ok {
		candidate := models.Stay{Status: v}
		if err := candidate.ValidateStatus(); err != nil {
			response.ValidationError(c, err.Error())
			return
		}
		updates["status"] = v
	}
	if v, ok := c.GetPostForm("latitude"); ok {
		if v == "" {
			updates["latitude"] = nil
		} else {
			lat, err := parseFloatField(v, "latitude")
			if err != nil {
				response.BadRequest(c, err.Error())
				return
			}
			updates["latitude"] = lat
		}
	}
	if v, ok := c.GetPostForm("longitude"); ok {
		if v == "" {
			updates["longitude"] = nil
		} else {
			lng, err := parseFloatField(v, "longitude")
			if err != nil {
				response.BadRequest(c, err.Error())
				return
			}
			updates["longitude"] = lng
		}
	}

	rawAmenities, hasAmenities := c.GetPostForm("amenities")
	var amenityIDs []int
	if hasAmenities {
		if amenityIDs, err = parseAmenityList(rawAmenities); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}
	rawAvailability, hasAvailability := c.GetPostForm("availability")
	var availability []dto.AvailabilityEntry
	if hasAvailability {
		if availability, err = parseAvailabilityList(rawAvailability); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}
	rawImages, hasImages := c.GetPostForm("images")

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var owned int64
		if err := tx.Model(&models.Stay{}).
			Where("id = ? AND host_id = ?", stayID, hostID).
			Count(&owned).Error; err != nil {
			return err
		}
		if owned == 0 {
			return errors.ErrListingNotFound
		}

		if len(updates) > 0 {
			res := tx.Model(&models.Stay{}).
				Where("id = ? AND host_id = ?", stayID, hostID).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errors.ErrListingNotFound
			}
		}

		if hasAmenities {
			if err := replaceStayAmenities(tx, uint(stayID), amenityIDs); err != nil {
				return err
			}
		}
		if hasAvailability {
			if err := replaceStayAvailability(tx, uint(stayID), availability); err != nil {
				return err
			}
		}
		if hasImages {
			if err := replaceStayImages(tx, uint(stayID), imageFilenames(rawImages)); err != nil {
				return err
			}
		}
		return nil
	})
	if err == errors.ErrListingNotFound {
		response.NotFound(c, stayNotFoundMessage)
		return
	}
	if err != nil {
		response.ServerError(c, err)
		return
	}

	rows, err := services.QueryHostStay(config.DB, hostID, uint(stayID))
	if err != nil || len(rows) == 0 {
		response.Success(c, gin.H{"id": stayID})
		return
	}
	response.Success(c, buildHostStayResponse(rows[0]))
}

// UpdateStayAvailability upserts calendar entries for a stay the caller owns,
// keyed by (stay_id, date). Entries not named are left alone.
func UpdateStayAvailability(c *gin.Context) {
	hostID := middleware.CurrentUserID(c)

	stayID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid stay id")
		return
	}

	var input dto.AvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "dates are required")
		return
	}
	for _, e := range input.Dates {
		if err := validator.ValidateAvailabilityDate(e.Date); err != nil {
			response.BadRequest(c, "invalid availability date "+e.Date)
			return
		}
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var owned int64
		if err := tx.Model(&models.Stay{}).
			Where("id = ? AND host_id = ?", stayID, hostID).
			Count(&owned).Error; err != nil {
			return err
		}
		if owned == 0 {
			return errors.ErrListingNotFound
		}

		for _, e := range input.Dates {
			row := models.StayAvailability{
				StayID:        uint(stayID),
				Date:          e.Date,
				IsAvailable:   e.IsAvailable,
				PriceOverride: e.PriceOverride,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "stay_id"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"is_available", "price_override", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err == errors.ErrListingNotFound {
		response.NotFound(c, stayNotFoundMessage)
		return
	}
	if err != nil {
		response.ServerError(c, err)
		return
	}

	response.Success(c, gin.H{"updated": len(input.Dates)})
}
