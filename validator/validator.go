package validator

import (
	"regexp"
	"time"

	"platform/constants"
	"platform/errors"
	"platform/models"
)

// ValidateUser checks a registration payload.
func ValidateUser(user *models.User) error {
	if user.Email == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "email must not be empty", nil)
	}

	if !isValidEmail(user.Email) {
		return errors.NewAppError(errors.ErrCodeInvalidEmail, "email is not valid", nil)
	}

	if user.Password == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "password must not be empty", nil)
	}

	if len(user.Password) < 6 {
		return errors.NewAppError(errors.ErrCodeValidation, "password must be at least 6 characters", nil)
	}

	if user.Name == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "name must not be empty", nil)
	}

	return nil
}

// ValidateStay checks a parsed stay before it is written.
func ValidateStay(stay *models.Stay) error {
	if stay.Title == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "title must not be empty", nil)
	}

	if stay.Description == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "description must not be empty", nil)
	}

	if stay.LocationName == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "location_name must not be empty", nil)
	}

	if err := stay.ValidatePrice(); err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidPrice, err.Error(), nil)
	}

	if stay.MaxGuests < 1 {
		return errors.NewAppError(errors.ErrCodeValidation, "max_guests must be at least 1", nil)
	}

	if err := stay.ValidateStatus(); err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidStatus, err.Error(), nil)
	}

	return nil
}

// ValidateFoodExperience checks a parsed food experience before it is
// written.
func ValidateFoodExperience(exp *models.FoodExperience) error {
	if exp.Title == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "title must not be empty", nil)
	}

	if exp.Description == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "description must not be empty", nil)
	}

	if exp.MenuDescription == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "menu_description must not be empty", nil)
	}

	if exp.LocationName == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "location_name must not be empty", nil)
	}

	if exp.CuisineType == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "cuisine_type must not be empty", nil)
	}

	if exp.PricePerPerson < 0 {
		return errors.NewAppError(errors.ErrCodeInvalidPrice, "price_per_person must not be negative", nil)
	}

	if err := exp.ValidateStatus(); err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidStatus, err.Error(), nil)
	}

	return nil
}

// ValidateAmenityType checks the amenity catalog filter value.
func ValidateAmenityType(amenityType string) error {
	switch amenityType {
	case constants.AmenityTypeStay, constants.AmenityTypeFood, constants.AmenityTypeBoth:
		return nil
	}
	return errors.NewAppError(errors.ErrCodeValidation, "type must be stay, food or both", nil)
}

// ValidateAvailabilityDate checks the YYYY-MM-DD calendar date format.
func ValidateAvailabilityDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, "date must be formatted YYYY-MM-DD", err)
	}
	return nil
}

// isValidEmail checks the email shape.
func isValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}
