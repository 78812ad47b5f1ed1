package controllers

import (
	"strings"

	"platform/config"
	"platform/dto"
	"platform/middleware"
	"platform/models"
	"platform/response"
	"platform/services"
	"platform/validator"

	"github.com/gin-gonic/gin"
)

// tokenExpiryMinutes is 7 days, matching the session length issued at login
// and registration.
const tokenExpiryMinutes = 60 * 24 * 7

func toUserResponse(user models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		IsHost:    user.IsHost,
		Image:     user.Image,
		CreatedAt: user.CreatedAt,
	}
}

func issueAuthResponse(c *gin.Context, user models.User, created bool) {
	token, err := services.GenerateToken(services.UserInfo{
		UserId: user.ID,
		IsHost: user.IsHost,
	}, tokenExpiryMinutes)
	if err != nil {
		response.ServerError(c, err)
		return
	}

	body := dto.AuthResponse{User: toUserResponse(user), Token: token}
	if created {
		response.Created(c, body)
		return
	}
	response.Success(c, body)
}

// RegisterUser creates an account and signs the first token.
func RegisterUser(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "email, password and name are required")
		return
	}

	candidate := models.User{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
		IsHost:   input.IsHost,
	}
	if err := validator.ValidateUser(&candidate); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	user, err := services.CreateUser(candidate)
	if err != nil {
		if strings.Contains(err.Error(), "already in use") {
			response.Conflict(c, "Email is already registered")
			return
		}
		response.ServerError(c, err)
		return
	}

	issueAuthResponse(c, user, true)
}

// Login checks credentials and signs a token.
func Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "email and password are required")
		return
	}

	user, err := services.GetUserByEmail(strings.ToLower(input.Email))
	if err != nil {
		response.InvalidCredentials(c)
		return
	}

	if err := services.CheckPassword(user.Password, input.Password); err != nil {
		response.InvalidCredentials(c)
		return
	}

	issueAuthResponse(c, user, false)
}

// AuthGoogle verifies a Google ID token and signs in the matching account,
// creating it on first sight.
func AuthGoogle(c *gin.Context) {
	var input dto.GoogleAuthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "token is required")
		return
	}

	clientID := config.GetEnv("GOOGLE_CLIENT_ID")
	if clientID == "" {
		response.ServerError(c, nil)
		return
	}

	user, err := services.AuthenticateGoogleUser(c.Request.Context(), input.Token, clientID)
	if err != nil {
		Log.Error("google auth failed: %v", err)
		response.Unauthorized(c)
		return
	}

	issueAuthResponse(c, user, false)
}

// GetCurrentUser returns the authenticated account.
func GetCurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	response.Success(c, toUserResponse(user))
}

// Logout acknowledges the sign-out and forgets the session's remembered
// search filters. Tokens are stateless, so nothing is revoked server side.
func Logout(c *gin.Context) {
	if sessionID := c.GetString("sessionId"); sessionID != "" && config.RedisClient != nil {
		if err := services.ClearLastFilters(config.Ctx, config.RedisClient, sessionID); err != nil {
			Log.Debug("clearing filters for session %s: %v", sessionID, err)
		}
	}
	response.Success(c, gin.H{"message": "Logged out"})
}
