package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims represents the JWT claims
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	// Purpose distinguishes session tokens from password-reset tokens so
	// a reset token can never be used as a session.
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

const (
	purposeSession = ""
	purposeReset   = "password_reset"
)

// getJWTSecret returns the JWT secret from environment or a default for development
func getJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Default for development only - should be set in production
		secret = "savemysettings-dev-secret-change-in-production"
	}
	return []byte(secret)
}

// getTokenDuration returns the session token validity duration
func getTokenDuration() time.Duration {
	// Default to 24 hours
	return 24 * time.Hour
}

// GenerateToken creates a new session JWT for a user
func GenerateToken(userID uint, email string) (string, error) {
	return generateToken(userID, email, purposeSession, getTokenDuration())
}

// GenerateResetToken creates a short-lived password-reset token
func GenerateResetToken(userID uint, email string) (string, error) {
	return generateToken(userID, email, purposeReset, time.Hour)
}

func generateToken(userID uint, email, purpose string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:  userID,
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "savemysettings",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTSecret())
}

// ValidateToken validates a session JWT and returns the claims
func ValidateToken(tokenString string) (*Claims, error) {
	claims, err := parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purposeSession {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateResetToken validates a password-reset token and returns the claims
func ValidateResetToken(tokenString string) (*Claims, error) {
	claims, err := parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purposeReset {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func parseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return getJWTSecret(), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
