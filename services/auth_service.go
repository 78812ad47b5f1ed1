package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"platform/config"
	"platform/models"

	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func GetUserByEmail(email string) (models.User, error) {
	var user models.User
	err := config.DB.Where("email = ?", email).First(&user).Error
	return user, err
}

func GetUserByID(id uint) (models.User, error) {
	var user models.User
	err := config.DB.First(&user, id).Error
	return user, err
}

// CreateUser registers a new account. A duplicate email is reported before the
// row is attempted so the handler can answer 409.
func CreateUser(input models.User) (models.User, error) {
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return models.User{}, errors.New("email, password and name must not be empty")
	}

	input.Email = strings.ToLower(input.Email)

	if _, err := GetUserByEmail(input.Email); err == nil {
		return models.User{}, fmt.Errorf("email %s is already in use", input.Email)
	}

	hashedPassword, err := HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:     input.Email,
		Password:  hashedPassword,
		Name:      input.Name,
		IsHost:    input.IsHost,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if result := config.DB.Create(&user); result.Error != nil {
		return user, result.Error
	}

	return user, nil
}

// AuthenticateGoogleUser verifies a Google ID token and finds or creates the
// matching account.
func AuthenticateGoogleUser(ctx context.Context, token string, clientID string) (models.User, error) {
	payload, err := idtoken.Validate(ctx, token, clientID)
	if err != nil {
		return models.User{}, fmt.Errorf("invalid google token: %v", err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	if email == "" {
		return models.User{}, errors.New("google token carries no email")
	}

	user, err := GetUserByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	user = models.User{
		Email:     strings.ToLower(email),
		Name:      name,
		Image:     picture,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if result := config.DB.Create(&user); result.Error != nil {
		return models.User{}, result.Error
	}
	return user, nil
}
