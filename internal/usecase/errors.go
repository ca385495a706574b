package usecase

import "errors"

var (
	// ErrTokenExpired indicates the token's lifetime has elapsed.
	ErrTokenExpired = errors.New("access token expired")
	// ErrTokenMalformed indicates the token could not be decoded at all.
	ErrTokenMalformed = errors.New("access token malformed")
	// ErrTokenUnsupported indicates the token uses a signing scheme the
	// service does not accept.
	ErrTokenUnsupported = errors.New("access token unsupported")
	// ErrBadSignature indicates the signature did not verify against any
	// known key.
	ErrBadSignature = errors.New("access token signature invalid")
	// ErrEmptyClaims indicates a structurally valid token that carries no
	// usable subject.
	ErrEmptyClaims = errors.New("access token claims empty")

	// ErrInvalidCredentials covers unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken indicates a registration attempt for an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrAuthMethodMismatch indicates the account exists under a different
	// authentication provider.
	ErrAuthMethodMismatch = errors.New("account uses a different authentication method")
	// ErrIdentityProvider indicates the upstream OAuth provider rejected
	// the exchange or returned an unusable identity.
	ErrIdentityProvider = errors.New("identity provider exchange failed")
	// ErrUnknownRole indicates a role assignment outside the closed set.
	ErrUnknownRole = errors.New("unknown role")
)
