package services

import (
	"errors"
	"time"

	"wishnest/internal/apperrors"
	"wishnest/internal/models"
	"wishnest/internal/repositories"
)

// FriendService owns the friendship state machine and the derived
// visibility policy built on top of it.
type FriendService struct {
	friendshipRepo repositories.FriendshipRepository
	userRepo       repositories.UserRepository
	events         EventPublisher
}

// NewFriendService creates a new FriendService.
func NewFriendService(friendshipRepo repositories.FriendshipRepository, userRepo repositories.UserRepository, events EventPublisher) *FriendService {
	return &FriendService{
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
		events:         events,
	}
}

// SendRequest sends (or re-sends) a friend request to targetID. A rejected
// edge is revived to pending with the sender as the new requester; the
// revival is a conditional update so a concurrent transition on the same
// edge surfaces as a conflict instead of silently overwriting it.
func (s *FriendService) SendRequest(requesterID, targetID string) (*models.Friendship, error) {
	if requesterID == targetID {
		return nil, apperrors.New(apperrors.Invalid, "you cannot friend yourself")
	}
	exists, err := s.userRepo.Exists(targetID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to look up user", err)
	}
	if !exists {
		return nil, apperrors.New(apperrors.NotFound, "user not found")
	}

	existing, err := s.friendshipRepo.GetByPair(requesterID, targetID)
	switch {
	case err == nil:
		switch existing.Status {
		case models.FriendshipAccepted:
			return nil, apperrors.New(apperrors.Conflict, "you are already friends")
		case models.FriendshipPending:
			return nil, apperrors.New(apperrors.Conflict, "request already pending")
		default: // rejected: revive with the new requester
			if err := s.friendshipRepo.Revive(existing.ID, requesterID); err != nil {
				if errors.Is(err, repositories.ErrConflict) {
					return nil, apperrors.New(apperrors.Conflict, "request already pending")
				}
				return nil, apperrors.Wrap(apperrors.Unexpected, "failed to re-send friend request", err)
			}
			existing.Status = models.FriendshipPending
			existing.RequesterID = requesterID
			return existing, nil
		}

	case errors.Is(err, repositories.ErrNotFound):
		edge := models.NewFriendship(requesterID, targetID)
		if err := s.friendshipRepo.Create(edge); err != nil {
			if errors.Is(err, repositories.ErrConflict) {
				// The other side created the edge first.
				return nil, apperrors.New(apperrors.Conflict, "request already pending")
			}
			return nil, apperrors.Wrap(apperrors.Unexpected, "failed to send friend request", err)
		}
		publishEvent(s.events, "friend.requested", map[string]interface{}{
			"friendship_id": edge.ID,
			"requester_id":  edge.RequesterID,
			"recipient_id":  edge.Recipient(),
		})
		return edge, nil

	default:
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to look up friendship", err)
	}
}

// Accept accepts a pending request. Only the recipient (the participant who
// did not send the latest request) may accept.
func (s *FriendService) Accept(actorID, requestID string) (*models.Friendship, error) {
	fr, err := s.getPendingFor(actorID, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.friendshipRepo.TransitionStatus(fr.ID, models.FriendshipPending, models.FriendshipAccepted); err != nil {
		return nil, transitionError(err, "failed to accept friend request")
	}
	fr.Status = models.FriendshipAccepted
	publishEvent(s.events, "friend.accepted", map[string]interface{}{
		"friendship_id": fr.ID,
		"requester_id":  fr.RequesterID,
		"recipient_id":  fr.Recipient(),
	})
	return fr, nil
}

// Reject rejects a pending request. Same precondition as Accept.
func (s *FriendService) Reject(actorID, requestID string) (*models.Friendship, error) {
	fr, err := s.getPendingFor(actorID, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.friendshipRepo.TransitionStatus(fr.ID, models.FriendshipPending, models.FriendshipRejected); err != nil {
		return nil, transitionError(err, "failed to reject friend request")
	}
	fr.Status = models.FriendshipRejected
	return fr, nil
}

// getPendingFor loads the request and checks the actor is its recipient.
func (s *FriendService) getPendingFor(actorID, requestID string) (*models.Friendship, error) {
	fr, err := s.friendshipRepo.GetByID(requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "request not found")
		}
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to load friend request", err)
	}
	if fr.Status != models.FriendshipPending {
		return nil, apperrors.New(apperrors.Conflict, "request is not pending")
	}
	if actorID != fr.Recipient() {
		return nil, apperrors.New(apperrors.Forbidden, "only the recipient can respond to this request")
	}
	return fr, nil
}

func transitionError(err error, msg string) error {
	if errors.Is(err, repositories.ErrConflict) {
		return apperrors.New(apperrors.Conflict, "request is not pending")
	}
	return apperrors.Wrap(apperrors.Unexpected, msg, err)
}

// Remove deletes the relationship between actor and other, whatever its
// status. Either participant may remove; this is deliberately looser than
// the recipient-only rule on Accept/Reject.
func (s *FriendService) Remove(actorID, otherUserID string) error {
	fr, err := s.friendshipRepo.GetByPair(actorID, otherUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.New(apperrors.NotFound, "no relationship found")
		}
		return apperrors.Wrap(apperrors.Unexpected, "failed to look up friendship", err)
	}
	if err := s.friendshipRepo.Delete(fr.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.New(apperrors.NotFound, "no relationship found")
		}
		return apperrors.Wrap(apperrors.Unexpected, "failed to remove friendship", err)
	}
	return nil
}

// ListFriends returns the sanitized users on the other end of the caller's
// accepted edges.
func (s *FriendService) ListFriends(userID string) ([]models.PublicUser, error) {
	edges, err := s.friendshipRepo.ListByUserAndStatus(userID, models.FriendshipAccepted)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to list friends", err)
	}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.OtherParticipant(userID))
	}
	users, err := s.userRepo.ListByIDs(ids)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to load friends", err)
	}
	friends := make([]models.PublicUser, 0, len(users))
	for i := range users {
		friends = append(friends, users[i].Public())
	}
	return friends, nil
}

// PendingRequest is one entry in the caller's pending-request listing.
type PendingRequest struct {
	ID          string                  `json:"id"`
	OtherUserID string                  `json:"other_user_id"`
	Status      models.FriendshipStatus `json:"status"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// RequestsView partitions the caller's pending edges by direction.
type RequestsView struct {
	Incoming []PendingRequest `json:"incoming"`
	Outgoing []PendingRequest `json:"outgoing"`
}

// ListRequests returns the caller's pending requests split into incoming
// (someone else asked) and outgoing (the caller asked).
func (s *FriendService) ListRequests(userID string) (*RequestsView, error) {
	edges, err := s.friendshipRepo.ListByUserAndStatus(userID, models.FriendshipPending)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to list requests", err)
	}
	view := &RequestsView{
		Incoming: []PendingRequest{},
		Outgoing: []PendingRequest{},
	}
	for _, e := range edges {
		entry := PendingRequest{
			ID:          e.ID,
			OtherUserID: e.OtherParticipant(userID),
			Status:      e.Status,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.UpdatedAt,
		}
		if e.RequesterID == userID {
			view.Outgoing = append(view.Outgoing, entry)
		} else {
			view.Incoming = append(view.Incoming, entry)
		}
	}
	return view, nil
}

// AreFriends reports whether an accepted edge exists between the two users.
func (s *FriendService) AreFriends(userA, userB string) (bool, error) {
	fr, err := s.friendshipRepo.GetByPair(userA, userB)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.Unexpected, "failed to look up friendship", err)
	}
	return fr.Status == models.FriendshipAccepted, nil
}

// CanView implements the visibility policy: a user always sees their own
// wishlist, and otherwise only accepted friends. Computed fresh from the
// friendship graph on every call.
func (s *FriendService) CanView(actorID, ownerID string) (bool, error) {
	if actorID == ownerID {
		return true, nil
	}
	return s.AreFriends(actorID, ownerID)
}
