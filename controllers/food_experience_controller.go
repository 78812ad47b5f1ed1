package controllers

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

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
)

const foodExperienceNotFoundMessage = "Food experience not found or unauthorized"

func buildHostFoodExperienceResponse(exp models.FoodExperience) dto.HostFoodExperienceResponse {
	images := []dto.ImageEntry{}
	for _, img := range exp.Images {
		if !Media.Exists(img.ImagePath) {
			continue
		}
		images = append(images, dto.ImageEntry{URL: Media.URLFor(img.ImagePath), Order: img.DisplayOrder})
	}

	resp := dto.HostFoodExperienceResponse{
		ID:              exp.ID,
		Title:           exp.Title,
		Description:     exp.Description,
		MenuDescription: exp.MenuDescription,
		LocationName:    exp.LocationName,
		PricePerPerson:  exp.PricePerPerson,
		CuisineType:     exp.CuisineType,
		Status:          exp.Status,
		Address:         exp.Address,
		Zipcode:         exp.Zipcode,
		City:            exp.City,
		State:           exp.State,
		Duration:        exp.Duration,
		MaxGuests:       exp.MaxGuests,
		Language:        exp.Language,
		CreatedAt:       exp.CreatedAt,
		UpdatedAt:       exp.UpdatedAt,
		Images:          images,
	}
	if exp.Latitude != nil {
		resp.Latitude = *exp.Latitude
	}
	if exp.Longitude != nil {
		resp.Longitude = *exp.Longitude
	}
	return resp
}

// ownedFoodExperience loads an experience only when it belongs to the host.
// The missing and foreign cases come back as the same sentinel.
func ownedFoodExperience(tx *gorm.DB, hostID, expID uint) (models.FoodExperience, error) {
	var exp models.FoodExperience
	err := tx.Where("id = ? AND host_id = ?", expID, hostID).First(&exp).Error
	if err == gorm.ErrRecordNotFound {
		return exp, errors.ErrListingNotFound
	}
	return exp, err
}

// CreateFoodExperience creates a food experience for the authenticated host.
func CreateFoodExperience(c *gin.Context) {
	hostID := middleware.CurrentUserID(c)

	var form dto.FoodExperienceForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, "invalid form payload")
		return
	}

	exp := models.FoodExperience{
		HostID:          hostID,
		Title:           strings.TrimSpace(form.Title),
		Description:     strings.TrimSpace(form.Description),
		MenuDescription: strings.TrimSpace(form.MenuDescription),
		LocationName:    strings.TrimSpace(form.LocationName),
		CuisineType:     strings.TrimSpace(form.CuisineType),
		Address:         form.Address,
		Zipcode:         form.Zipcode,
		City:            form.City,
		State:           form.State,
		Status:          constants.ListingStatusDraft,
		Duration:        "2 hours",
		MaxGuests:       8,
		Language:        "English",
	}
	if form.Status != "" {
		exp.Status = form.Status
	}

	price, err := parseFloatField(form.PricePerPerson, "price_per_person")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	exp.PricePerPerson = price

	if form.Latitude != "" {
		lat, err := parseFloatField(form.Latitude, "latitude")
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		exp.Latitude = &lat
	}
	if form.Longitude != "" {
		lng, err := parseFloatField(form.Longitude, "longitude")
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		exp.Longitude = &lng
	}

	if err := validator.ValidateFoodExperience(&exp); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&exp).Error; err != nil {
			return err
		}
		for i, name := range imageFilenames(form.Images) {
			img := models.FoodExperienceImage{ExperienceID: exp.ID, ImagePath: name, DisplayOrder: i}
			if err := tx.Create(&img).Error; err != nil {
				Log.Error("food experience %d: inserting image %s: %v", exp.ID, name, err)
			}
		}
		return nil
	})
	if err != nil {
		response.ServerError(c, err)
		return
	}

	config.DB.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order")
	}).First(&exp, exp.ID)
	response.Created(c, buildHostFoodExperienceResponse(exp))
}

// GetHostFoodExperiences lists every food experience of the authenticated
// host, newest first.
func GetHostFoodExperiences(c *gin.Context) {
	hostID := middleware.CurrentUserID(c)

	var exps []models.FoodExperience
	err := config.DB.Where("host_id = ?", hostID).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order")
		}).
		Order("created_at DESC").
		Find(&exps).Error
	if err != nil {
		response.ServerError(c, err)
		return
	}

	out := make([]dto.HostFoodExperienceResponse, 0, len(exps))
	for _, exp := range exps {
		out = append(out, buildHostFoodExperienceResponse(exp))
	}
	response.SuccessWithTotal(c, out, len(out))
}

// GetHostFoodExperience returns one food experience of the authenticated host.
func GetHostFoodExperience(c *gin.Context) {
	hostID := middleware.CurrentUserID(c)

	expID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid food experience id")
		return
	}

	var exp models.FoodExperience
	err = config.DB.Where("id = ? AND host_id = ?", expID, hostID).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order")
		}).
		First(&exp).Error
	if err == gorm.ErrRecordNotFound {
		response.NotFound(c, foodExperienceNotFoundMessage)
		return
	}
	if err != nil {
		response.ServerError(c, err)
		return
	}
	response.Success(c, buildHostFoodExperienceResponse(exp))
}

// UpdateFoodExperience applies the supplied form fields to a food experience
// the caller owns. Omitted fields are left untouched; a supplied empty image
// list clears the set.
func UpdateFoodExperience(c *gin.Context) {
	hostID := middleware.CurrentUserID(c)

	expID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid food experience id")
		return
	}

	updates := map[string]interface{}{}
	for _, field := range []string{"title", "description", "menu_description", "location_name",
		"cuisine_type", "address", "zipcode", "city", "state", "duration", "language"} {
		if v, ok := c.GetPostForm(field); ok {
			updates[field] = strings.TrimSpace(v)
		}
	}
	if v, ok := c.GetPostForm("price_per_person"); ok {
		price, err := parseFloatField(v, "price_per_person")
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if price < 0 {
			response.ValidationError(c, "price_per_person must not be negative")
			return
		}
		updates["price_per_person"] = price
	}
	if v, ok := c.GetPostForm("max_guests"); ok {
		n, err := parseIntField(v, "max_guests")
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		updates["max_guests"] = n
	}
	if v, ok := c.GetPostForm("status"); ok {
		probe := models.FoodExperience{Status: v}
		if err := probe.ValidateStatus(); err != nil {
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
	rawImages, hasImages := c.GetPostForm("images")

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := ownedFoodExperience(tx, hostID, uint(expID)); err != nil {
			return err
		}

		if len(updates) > 0 {
			res := tx.Model(&models.FoodExperience{}).
				Where("id = ? AND host_id = ?", expID, hostID).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errors.ErrListingNotFound
			}
		}

		if hasImages {
			err := tx.Where("experience_id = ?", expID).Delete(&models.FoodExperienceImage{}).Error
			if err != nil {
				return err
			}
			for i, name := range imageFilenames(rawImages) {
				img := models.FoodExperienceImage{ExperienceID: uint(expID), ImagePath: name, DisplayOrder: i}
				if err := tx.Create(&img).Error; err != nil {
					Log.Error("food experience %d: inserting image %s: %v", expID, name, err)
				}
			}
		}
		return nil
	})
	if err == errors.ErrListingNotFound {
		response.NotFound(c, foodExperienceNotFoundMessage)
		return
	}
	if err != nil {
		response.ServerError(c, err)
		return
	}

	var exp models.FoodExperience
	if err := config.DB.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order")
	}).First(&exp, expID).Error; err != nil {
		response.Success(c, gin.H{"id": expID})
		return
	}
	response.Success(c, buildHostFoodExperienceResponse(exp))
}

// UploadFoodExperienceImages stores new image files for a food experience the
// caller owns and appends them after the existing ones.
func UploadFoodExperienceImages(c *gin.Context) {
	hostID := middleware.CurrentUserID(c)

	expID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid food experience id")
		return
	}

	if _, err := ownedFoodExperience(config.DB, hostID, uint(expID)); err != nil {
		if err == errors.ErrListingNotFound {
			response.NotFound(c, foodExperienceNotFoundMessage)
			return
		}
		response.ServerError(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "invalid multipart payload")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		response.BadRequest(c, "no image files supplied")
		return
	}

	var nextOrder int
	row := config.DB.Model(&models.FoodExperienceImage{}).
		Where("experience_id = ?", expID).
		Select("COALESCE(MAX(display_order) + 1, 0)").
		Row()
	if row != nil {
		row.Scan(&nextOrder)
	}

	urls := []string{}
	for _, fh := range files {
		if !services.AllowedFile(fh.Filename) {
			response.BadRequest(c, "file type not allowed: "+fh.Filename)
			return
		}

		ext := strings.ToLower(path.Ext(fh.Filename))
		base := services.SafeFilename(strings.TrimSuffix(fh.Filename, ext))
		name := fmt.Sprintf("%s_%d%s", base, time.Now().UnixNano(), ext)

		src, err := fh.Open()
		if err != nil {
			response.ServerError(c, err)
			return
		}
		saveErr := Media.SaveOptimized(src, name)
		src.Close()
		if saveErr != nil {
			response.ServerError(c, saveErr)
			return
		}

		img := models.FoodExperienceImage{ExperienceID: uint(expID), ImagePath: name, DisplayOrder: nextOrder}
		if err := config.DB.Create(&img).Error; err != nil {
			Log.Error("food experience %d: inserting image %s: %v", expID, name, err)
			continue
		}
		nextOrder++
		urls = append(urls, Media.URLFor(name))
	}

	response.Created(c, gin.H{"urls": urls})
}

// DeleteFoodExperienceImage removes one image from a food experience the
// caller owns, resequences the remaining order and removes the file
// best-effort.
func DeleteFoodExperienceImage(c *gin.Context) {
	hostID := middleware.CurrentUserID(c)

	expID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid food experience id")
		return
	}

	var input dto.DeleteImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "imageUrl is required")
		return
	}
	filename := path.Base(input.ImageURL)

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := ownedFoodExperience(tx, hostID, uint(expID)); err != nil {
			return err
		}

		res := tx.Where("experience_id = ? AND image_path = ?", expID, filename).
			Delete(&models.FoodExperienceImage{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrImageNotFound
		}

		// Close the order gap left by the deleted row.
		var remaining []models.FoodExperienceImage
		err := tx.Where("experience_id = ?", expID).
			Order("display_order").
			Find(&remaining).Error
		if err != nil {
			return err
		}
		for i, img := range remaining {
			if img.DisplayOrder == i {
				continue
			}
			err := tx.Model(&models.FoodExperienceImage{}).
				Where("id = ?", img.ID).
				Update("display_order", i).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err == errors.ErrListingNotFound {
		response.NotFound(c, foodExperienceNotFoundMessage)
		return
	}
	if err == errors.ErrImageNotFound {
		response.NotFound(c, "Image not found")
		return
	}
	if err != nil {
		response.ServerError(c, err)
		return
	}

	if err := os.Remove(filepath.Join(Media.Root(), filename)); err != nil {
		Log.Debug("removing image file %s: %v", filename, err)
	}

	response.Success(c, gin.H{"message": "Image deleted"})
}

// ReorderFoodExperienceImages rewrites the display order of a food
// experience's images to match the supplied URL list.
func ReorderFoodExperienceImages(c *gin.Context) {
	hostID := middleware.CurrentUserID(c)

	expID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid food experience id")
		return
	}

	var input dto.ReorderImagesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "imageOrder is required")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := ownedFoodExperience(tx, hostID, uint(expID)); err != nil {
			return err
		}

		for i, url := range input.ImageOrder {
			err := tx.Model(&models.FoodExperienceImage{}).
				Where("experience_id = ? AND image_path = ?", expID, path.Base(url)).
				Update("display_order", i).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err == errors.ErrListingNotFound {
		response.NotFound(c, foodExperienceNotFoundMessage)
		return
	}
	if err != nil {
		response.ServerError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Images reordered"})
}
