package services

import (
	"os"
	"time"

	"platform/errors"

	"github.com/dgrijalva/jwt-go"
)

type UserInfo struct {
	UserId uint `json:"userid"`
	IsHost bool `json:"isHost"`
}

type Claims struct {
	UserInfo UserInfo `json:"userinfo"`
	jwt.StandardClaims
}

func secretKey() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateToken signs a bearer token for the given user, valid for
// expiryMinutes.
func GenerateToken(userInfo UserInfo, expiryMinutes int) (string, error) {
	claims := &Claims{
		UserInfo: userInfo,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Minute * time.Duration(expiryMinutes)).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ParseToken verifies the signature and expiry of a bearer token and returns
// its claims. Any failure maps to a single invalid-token error so callers
// treat missing, malformed and expired tokens alike.
func ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "unexpected signing method", nil)
		}
		return secretKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "invalid or expired token", err)
	}
	return claims, nil
}

// GetUserIDFromToken resolves a bearer token to the user id and host flag.
func GetUserIDFromToken(tokenString string) (uint, bool, error) {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return 0, false, err
	}
	return claims.UserInfo.UserId, claims.UserInfo.IsHost, nil
}
