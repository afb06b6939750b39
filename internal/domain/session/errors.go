package session

import "errors"

var (
	// ErrUnauthenticated covers a missing or malformed header and an invalid or expired token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrProfileNotFound means the token is valid but no application profile exists.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileLookup is a transient datastore failure while loading the profile.
	ErrProfileLookup = errors.New("profile lookup failed")
)
