package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the claims issued by the identity service
type JWTClaims struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	Username       string `json:"username"`
	jwt.RegisteredClaims
}

// TokenInfo represents a validated caller
type TokenInfo struct {
	UserID         string    `json:"user_id"`
	OrganizationID string    `json:"organization_id"`
	Username       string    `json:"username"`
	ExpiresAt      time.Time `json:"expires_at"`
}
