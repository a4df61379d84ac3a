// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account. Email is the login identity and is
// stored lowercased and trimmed; uniqueness is enforced by the repository.
//
// PasswordHash holds a bcrypt hash and is never serialized. Accounts created
// through GitHub sign-in carry a GitHubID and an empty PasswordHash — bcrypt
// verification against an empty hash always fails, so such accounts cannot
// be entered through the password login path.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GitHubID     int64     `json:"-"` // 0 unless the account was created via GitHub OAuth
	CreatedAt    time.Time `json:"created_at"`
}
