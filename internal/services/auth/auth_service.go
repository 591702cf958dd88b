package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "outreach-dispatch-backend"

// AuthService validates caller tokens issued by the identity service.
// Tokens must carry the user and the organization the caller acts for.
type AuthService struct {
	jwtSecret []byte
}

func NewAuthService(secret string) (*AuthService, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return &AuthService{jwtSecret: []byte(secret)}, nil
}

// ValidateToken validates and parses a JWT token
func (s *AuthService) ValidateToken(tokenString string) (*models.TokenInfo, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.UserID == "" || claims.OrganizationID == "" {
		return nil, errors.New("token is missing user or organization")
	}

	info := &models.TokenInfo{
		UserID:         claims.UserID,
		OrganizationID: claims.OrganizationID,
		Username:       claims.Username,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// GenerateToken signs a token for an operator or a test client
func (s *AuthService) GenerateToken(userID, organizationID, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &models.JWTClaims{
		UserID:         userID,
		OrganizationID: organizationID,
		Username:       username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
