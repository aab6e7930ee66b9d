package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Type   string `json:"type,omitempty"` // "" for access, "refresh" for refresh
	jwt.RegisteredClaims
}

// TokenManager signs and validates the JWT tokens issued in cookies.
// Constructed once with the configured secret and injected where needed.
type TokenManager struct {
	secret []byte
}

// NewTokenManager creates a token manager with the given signing secret
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// GenerateToken generates an access token for a user
func (m *TokenManager) GenerateToken(userID, email string) (string, error) {
	return m.sign(userID, email, "", accessTokenTTL)
}

// GenerateRefreshToken generates a refresh token for a user
func (m *TokenManager) GenerateRefreshToken(userID, email string) (string, error) {
	return m.sign(userID, email, "refresh", refreshTokenTTL)
}

func (m *TokenManager) sign(userID, email, tokenType string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken validates and parses a JWT token
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	return claims, nil
}
