package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

const (
	accessTokenTTL  = 12 * time.Hour // one counting shift
	refreshTokenTTL = 30 * 24 * time.Hour
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func sign(claims jwt.MapClaims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// GenerateTokens issues the access token carrying the counter's identity
// and a long lived refresh token carrying only the id.
func GenerateTokens(user *models.User, secret string) (access, refresh string, err error) {
	now := time.Now()

	access, err = sign(jwt.MapClaims{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(accessTokenTTL).Unix(),
	}, secret)
	if err != nil {
		return "", "", err
	}

	refresh, err = sign(jwt.MapClaims{
		"id":   user.ID,
		"type": "refresh",
		"exp":  now.Add(refreshTokenTTL).Unix(),
	}, secret)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ValidateToken accepts only HS256 tokens signed with secret
func ValidateToken(tokenString string, secret string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}
