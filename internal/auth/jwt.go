package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService signs and validates the session tokens (JWTs) handed to the
// storefront after register/login. The signing key comes from configuration;
// it is never hardcoded here.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Generate creates a new JWT for a given user ID and role.
func (s *TokenService) Generate(userID int64, role string) (string, error) {
	// 1. Create the claims (the data inside the token).
	claims := jwt.MapClaims{
		"sub":  userID,                                // "sub" (Subject) is the standard claim for User ID
		"role": role,                                  // Used by the admin guard without a DB round trip
		"exp":  time.Now().Add(time.Hour * 72).Unix(), // Expires in 3 days
		"iat":  time.Now().Unix(),                     // "iat" (Issued At)
	}

	// 2. Sign it using HS256 and our secret key.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and validates a JWT token string.
// It returns the user ID (subject) and role if the token is valid.
func (s *TokenService) Validate(tokenString string) (int64, string, error) {
	// 1. Parse the token string, checking the signing method.
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, "", err // Token parsing failed (e.g., expired, malformed)
	}

	// 2. Check if the token is valid and extract the claims.
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", errors.New("invalid token")
	}

	// 3. "sub" arrives as float64 (JSON's number type); convert to int64.
	userIDFloat, ok := claims["sub"].(float64)
	if !ok {
		return 0, "", errors.New("invalid subject claim")
	}

	role, _ := claims["role"].(string)
	return int64(userIDFloat), role, nil
}
