package repositories

import "wishnest/internal/models"

// FriendshipRepository defines the interface for friendship edge data access.
// All state transitions are conditional writes: they only apply when the
// stored status still matches the expected one, and report ErrConflict when
// a concurrent caller got there first.
type FriendshipRepository interface {
	Create(f *models.Friendship) error
	GetByID(id string) (*models.Friendship, error)
	GetByPair(userA, userB string) (*models.Friendship, error)
	// TransitionStatus flips the edge from one status to another in a single
	// conditional update.
	TransitionStatus(id string, from, to models.FriendshipStatus) error
	// Revive flips a rejected edge back to pending with a new requester.
	Revive(id, requesterID string) error
	Delete(id string) error
	ListByUserAndStatus(userID string, status models.FriendshipStatus) ([]models.Friendship, error)
}
