package repositories

import (
	"errors"
	"fmt"

	"wishnest/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMWishlistRepository is a GORM implementation of WishlistRepository.
type GORMWishlistRepository struct {
	db *gorm.DB
}

// NewGORMWishlistRepository creates a new instance of GORMWishlistRepository.
func NewGORMWishlistRepository(db *gorm.DB) *GORMWishlistRepository {
	return &GORMWishlistRepository{db: db}
}

// Create inserts a new wishlist. The unique index on UserID turns a
// concurrent lazy first-access into ErrConflict; the caller re-reads.
func (r *GORMWishlistRepository) Create(w *models.Wishlist) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	if err := r.db.Create(w).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("wishlist for user %s already exists: %w", w.UserID, ErrConflict)
		}
		return fmt.Errorf("failed to create wishlist: %w", err)
	}
	return nil
}

// GetByID retrieves a wishlist by its ID.
func (r *GORMWishlistRepository) GetByID(id string) (*models.Wishlist, error) {
	var w models.Wishlist
	if err := r.db.First(&w, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("wishlist %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get wishlist %s: %w", id, err)
	}
	return &w, nil
}

// GetByUserID retrieves the single wishlist owned by userID.
func (r *GORMWishlistRepository) GetByUserID(userID string) (*models.Wishlist, error) {
	var w models.Wishlist
	if err := r.db.First(&w, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("wishlist for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get wishlist for user %s: %w", userID, err)
	}
	return &w, nil
}

// Update persists changed wishlist fields.
func (r *GORMWishlistRepository) Update(w *models.Wishlist) error {
	res := r.db.Save(w)
	if res.Error != nil {
		return fmt.Errorf("failed to update wishlist %s: %w", w.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("wishlist %s: %w", w.ID, ErrNotFound)
	}
	return nil
}

// DeleteByUserID removes the owner's wishlist and all of its items in one
// transaction, so no orphaned items survive.
func (r *GORMWishlistRepository) DeleteByUserID(userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var w models.Wishlist
		if err := tx.First(&w, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("wishlist for user %s: %w", userID, ErrNotFound)
			}
			return fmt.Errorf("failed to get wishlist for user %s: %w", userID, err)
		}
		if err := tx.Delete(&models.Item{}, "wishlist_id = ?", w.ID).Error; err != nil {
			return fmt.Errorf("failed to delete items of wishlist %s: %w", w.ID, err)
		}
		if err := tx.Delete(&models.Wishlist{}, "id = ?", w.ID).Error; err != nil {
			return fmt.Errorf("failed to delete wishlist %s: %w", w.ID, err)
		}
		return nil
	})
}
