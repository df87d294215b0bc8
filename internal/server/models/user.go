// Package models defines the records HealthKeeper persists: user accounts
// with their demographic profile and per-user health-file metadata.
package models

import "time"

// Profile holds the optional demographic fields of a user. A nil field
// means the value was never provided and is stored as JSON null.
type Profile struct {
	Age  *int    `json:"age"`
	Sex  *string `json:"sex"`
	Race *string `json:"race"`
}

// Complete reports whether every profile field is filled in.
func (p Profile) Complete() bool {
	return p.Age != nil && *p.Age != 0 &&
		p.Sex != nil && *p.Sex != "" &&
		p.Race != nil && *p.Race != ""
}

// User is a user account keyed by email. Password holds a bcrypt hash,
// never the plaintext.
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Profile
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NewUser carries the signup input: name, email and password are required,
// the profile may be partially or entirely empty.
type NewUser struct {
	Name     string
	Email    string
	Password string
	Profile  Profile
}
