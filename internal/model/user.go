// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// The password hash is tagged `json:"-"` so it can never leak into an API
// response, no matter which handler serializes the struct. Endpoints that
// return user data use the Public projection instead.
//
// Role is a plain string flag ("user" by default) rather than an enum type;
// there is exactly one role today and a string keeps the schema open.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"` // unique across accounts
	PasswordHash string    `json:"-"         db:"password_hash"`
	AvatarURL    string    `json:"avatar"    db:"avatar_url"`
	Role         string    `json:"role"      db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicUser is the projection of a User that is safe to return to any
// client: identity and display fields only, no credential material.
type PublicUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar"`
	Role      string `json:"role"`
}

// Public returns the client-safe projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
	}
}
