package model

import "time"

// Role is the closed set of roles an account can hold.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Roles lists every valid role.
var Roles = []Role{RoleStudent, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID             int64
	Username       string
	PasswordHash   string
	Role           Role
	Name           string
	Bio            string
	EncryptedEmail string // ciphertext only, see service.ProfileCipher
	Created        time.Time
}

// Public returns the summary that is safe to hand to clients.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Role: u.Role}
}

type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
