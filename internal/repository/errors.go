package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist. Lookups of a
	// missing id return ErrNotFound regardless of who owns nothing, so a
	// caller can never distinguish "absent" from "someone else's absent".
	ErrNotFound = errors.New("record not found")

	// ErrForbidden is returned when a record exists but is owned by a
	// different user than the one making the request.
	ErrForbidden = errors.New("record belongs to another user")

	// ErrEmailExists is returned when registering an email that is
	// already taken.
	ErrEmailExists = errors.New("email already registered")
)

// authorizeOwner is the ownership guard applied by every id-scoped
// read, update and delete. It must only be called on a record that was
// successfully fetched: the not-found check always happens first.
func authorizeOwner(ownerID, requesterID string) error {
	if ownerID != requesterID {
		return ErrForbidden
	}
	return nil
}
