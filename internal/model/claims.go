package model

import "github.com/golang-jwt/jwt/v5"

// Claims is the payload of a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"uid"`
	Username string `json:"username,omitempty"`
	Role     Role   `json:"role,omitempty"`
}
