package repositories

import (
	"errors"
	"fmt"

	"wishnest/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMFriendshipRepository is a GORM implementation of FriendshipRepository.
type GORMFriendshipRepository struct {
	db *gorm.DB
}

// NewGORMFriendshipRepository creates a new instance of GORMFriendshipRepository.
func NewGORMFriendshipRepository(db *gorm.DB) *GORMFriendshipRepository {
	return &GORMFriendshipRepository{db: db}
}

// Create inserts a new edge. The unique index on the canonical pair turns a
// concurrent duplicate request into ErrConflict.
func (r *GORMFriendshipRepository) Create(f *models.Friendship) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if err := r.db.Create(f).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("friendship for pair (%s, %s) already exists: %w", f.UserLowID, f.UserHighID, ErrConflict)
		}
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

// GetByID retrieves an edge by its ID.
func (r *GORMFriendshipRepository) GetByID(id string) (*models.Friendship, error) {
	var f models.Friendship
	if err := r.db.First(&f, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("friendship %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get friendship %s: %w", id, err)
	}
	return &f, nil
}

// GetByPair retrieves the single edge for an unordered pair of users. The
// arguments may come in either order; the canonical sort happens here.
func (r *GORMFriendshipRepository) GetByPair(userA, userB string) (*models.Friendship, error) {
	low, high := models.SortPair(userA, userB)
	var f models.Friendship
	if err := r.db.First(&f, "user_low_id = ? AND user_high_id = ?", low, high).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("friendship for pair (%s, %s): %w", low, high, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get friendship for pair (%s, %s): %w", low, high, err)
	}
	return &f, nil
}

// TransitionStatus updates the status only if it still equals from. Zero rows
// affected means another caller transitioned (or removed) the edge first.
func (r *GORMFriendshipRepository) TransitionStatus(id string, from, to models.FriendshipStatus) error {
	res := r.db.Model(&models.Friendship{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("failed to transition friendship %s to %s: %w", id, to, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("friendship %s is no longer %s: %w", id, from, ErrConflict)
	}
	return nil
}

// Revive flips a rejected edge back to pending, resetting the requester to
// the new initiator in the same conditional update.
func (r *GORMFriendshipRepository) Revive(id, requesterID string) error {
	res := r.db.Model(&models.Friendship{}).
		Where("id = ? AND status = ?", id, models.FriendshipRejected).
		Updates(map[string]interface{}{
			"status":       models.FriendshipPending,
			"requester_id": requesterID,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to revive friendship %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("friendship %s is no longer rejected: %w", id, ErrConflict)
	}
	return nil
}

// Delete removes an edge regardless of its status.
func (r *GORMFriendshipRepository) Delete(id string) error {
	res := r.db.Delete(&models.Friendship{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete friendship %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("friendship %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListByUserAndStatus returns all edges touching userID with the given status.
func (r *GORMFriendshipRepository) ListByUserAndStatus(userID string, status models.FriendshipStatus) ([]models.Friendship, error) {
	var edges []models.Friendship
	err := r.db.
		Where("(user_low_id = ? OR user_high_id = ?) AND status = ?", userID, userID, status).
		Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships for user %s: %w", userID, err)
	}
	return edges, nil
}
