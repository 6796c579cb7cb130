package service

import "errors"

// Sentinel errors for every outcome the transport layer maps to a status
// code. Handlers match with errors.Is; anything else is an internal failure.
var (
	// ErrEmailTaken is returned when signup hits an already-registered email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password, so
	// login responses cannot be used to enumerate registered emails.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrUnauthenticated covers every token failure mode: malformed, bad
	// signature, expired, or a subject that no longer resolves to a user.
	ErrUnauthenticated = errors.New("invalid or expired token")

	// ErrNoteNotFound covers both a missing note and a note owned by someone
	// else, so responses cannot leak another user's note IDs.
	ErrNoteNotFound = errors.New("note not found")

	// ErrEmptyUpdate is returned when a partial update carries no
	// recognized fields.
	ErrEmptyUpdate = errors.New("no fields to update")
)
