package domain

import "time"

// AuthResult is the outcome handed back after a successful
// authentication, local or OAuth.
type AuthResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        User
}
