package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleReader Role = "READER"
)

// UserClaims is what handlers see of an authenticated caller.
type UserClaims interface {
	UserID() string
	Role() string
	Source() string
	HasPermission(action string) bool
}

// JWTClaims are the claims carried by pilotlog access tokens.
type JWTClaims struct {
	RoleValue Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *JWTClaims) UserID() string { return c.Subject }
func (c *JWTClaims) Role() string   { return string(c.RoleValue) }
func (c *JWTClaims) Source() string { return "JWT" }

// HasPermission allows admins everything and readers only "read".
func (c *JWTClaims) HasPermission(action string) bool {
	switch c.RoleValue {
	case RoleAdmin:
		return true
	case RoleReader:
		return action == "read"
	default:
		return false
	}
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleReader:
		return RoleReader, true
	default:
		return "", false
	}
}
