package repositories

import "errors"

// Sentinel errors shared by all repository implementations. Services
// translate these into the apperrors taxonomy with aggregate-specific
// messages.
var (
	// ErrNotFound means the referenced record does not exist (or does not
	// exist within the scope the query was restricted to).
	ErrNotFound = errors.New("record not found")

	// ErrConflict means a uniqueness constraint fired or a conditional
	// update matched zero rows: the caller lost a race and must re-read.
	ErrConflict = errors.New("conflicting concurrent update")
)
