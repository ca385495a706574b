package domain

// Principal is the immutable authenticated-actor view attached to a
// request. It is built fresh from the persisted user record on every
// request and discarded when the request ends. The credential hash is
// carried for token validation only and is never serialized.
type Principal struct {
	ID             string
	Email          string
	Role           Role
	credentialHash string
}

// NewPrincipal adapts a persisted user record into a Principal. It never
// fails for a well-formed record; a missing role defaults to EMPLOYEE.
func NewPrincipal(user User) Principal {
	return Principal{
		ID:             user.ID,
		Email:          user.Email,
		Role:           ParseRole(string(user.Role)),
		credentialHash: user.PasswordHash,
	}
}

// Username returns the email, which doubles as the login identifier.
func (p Principal) Username() string {
	return p.Email
}

// Permission derives the single granted authority string.
func (p Principal) Permission() string {
	return "ROLE_" + string(p.Role)
}

// CredentialHash exposes the stored credential state for token
// validation. Callers must not log or serialize the value.
func (p Principal) CredentialHash() string {
	return p.credentialHash
}

// HasRole reports whether the principal's role is in the given set.
func (p Principal) HasRole(roles ...Role) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}
