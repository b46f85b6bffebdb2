package models

import "time"

// FriendshipStatus is the lifecycle state of a friendship edge.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipRejected FriendshipStatus = "rejected"
)

// Friendship is the single undirected edge between two users. The participant
// pair is stored in sorted order (UserLowID < UserHighID) so that {A,B} and
// {B,A} address the same row, and the composite unique index enforces at most
// one edge per pair. RequesterID is whichever participant initiated the most
// recent pending transition.
//
// Rows are hard-deleted: a soft-delete marker would keep the pair index
// occupied and block a later re-request between the same two users.
type Friendship struct {
	ID          string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserLowID   string           `json:"-" gorm:"uniqueIndex:idx_friendship_pair;type:varchar(36);not null"`
	UserHighID  string           `json:"-" gorm:"uniqueIndex:idx_friendship_pair;type:varchar(36);not null"`
	RequesterID string           `json:"requester_id" gorm:"type:varchar(36);not null"`
	Status      FriendshipStatus `json:"status" gorm:"type:varchar(16);not null"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewFriendship builds a pending edge with the participants in canonical order.
func NewFriendship(requesterID, targetID string) *Friendship {
	low, high := SortPair(requesterID, targetID)
	return &Friendship{
		UserLowID:   low,
		UserHighID:  high,
		RequesterID: requesterID,
		Status:      FriendshipPending,
	}
}

// SortPair returns the two user ids in canonical (lexicographic) order.
func SortPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// HasParticipant reports whether userID is one of the edge's two participants.
func (f *Friendship) HasParticipant(userID string) bool {
	return f.UserLowID == userID || f.UserHighID == userID
}

// OtherParticipant returns the participant that is not userID.
func (f *Friendship) OtherParticipant(userID string) string {
	if f.UserLowID == userID {
		return f.UserHighID
	}
	return f.UserLowID
}

// Recipient returns the participant who did not send the latest request.
func (f *Friendship) Recipient() string {
	return f.OtherParticipant(f.RequesterID)
}
