package domain

import "time"

// UserRegisteredEvent is emitted after a new account is created, via
// either local registration or a first-time OAuth login.
type UserRegisteredEvent struct {
	UserID       string
	Email        string
	Role         Role
	AuthProvider string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// UserLoggedInEvent is emitted after a successful authentication.
type UserLoggedInEvent struct {
	UserID       string
	Email        string
	AuthProvider string
	LoggedInAt   time.Time
	Metadata     map[string]any
}
