package auth

import (
	"github.com/angelmondragon/warehouse-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	User       string
	Role       enums.Role
	Warehouses []int
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to warehouse staff.
type AccessTokenClaims struct {
	User       string     `json:"user"`
	Role       enums.Role `json:"role"`
	Warehouses []int      `json:"warehouses,omitempty"`
	jwt.RegisteredClaims
}
