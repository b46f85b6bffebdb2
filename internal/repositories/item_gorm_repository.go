package repositories

import (
	"errors"
	"fmt"
	"time"

	"wishnest/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMItemRepository is a GORM implementation of ItemRepository.
type GORMItemRepository struct {
	db *gorm.DB
}

// NewGORMItemRepository creates a new instance of GORMItemRepository.
func NewGORMItemRepository(db *gorm.DB) *GORMItemRepository {
	return &GORMItemRepository{db: db}
}

// Create inserts a new item.
func (r *GORMItemRepository) Create(item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// GetByID retrieves an item by its ID.
func (r *GORMItemRepository) GetByID(id string) (*models.Item, error) {
	var item models.Item
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get item %s: %w", id, err)
	}
	return &item, nil
}

// UpdateFields writes the selected columns from patch to the item scoped to
// its wishlist. The explicit Select makes zero values (including a nil
// alternate) overwrite, and zero rows affected means the item does not exist
// in that wishlist; a cross-tenant item ID is indistinguishable from a
// missing one.
func (r *GORMItemRepository) UpdateFields(itemID, wishlistID string, patch *models.Item, columns []string) (*models.Item, error) {
	if len(columns) > 0 {
		res := r.db.Model(&models.Item{}).
			Where("id = ? AND wishlist_id = ?", itemID, wishlistID).
			Select(columns).
			Updates(patch)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to update item %s: %w", itemID, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, fmt.Errorf("item %s in wishlist %s: %w", itemID, wishlistID, ErrNotFound)
		}
	}
	var item models.Item
	if err := r.db.First(&item, "id = ? AND wishlist_id = ?", itemID, wishlistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %s in wishlist %s: %w", itemID, wishlistID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to reload item %s: %w", itemID, err)
	}
	return &item, nil
}

// Delete removes an item only if it belongs to the given wishlist.
func (r *GORMItemRepository) Delete(itemID, wishlistID string) error {
	res := r.db.Delete(&models.Item{}, "id = ? AND wishlist_id = ?", itemID, wishlistID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item %s in wishlist %s: %w", itemID, wishlistID, ErrNotFound)
	}
	return nil
}

// ListByWishlist returns the wishlist's items, newest first.
func (r *GORMItemRepository) ListByWishlist(wishlistID string) ([]models.Item, error) {
	var items []models.Item
	err := r.db.
		Where("wishlist_id = ?", wishlistID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items of wishlist %s: %w", wishlistID, err)
	}
	return items, nil
}

// Reserve claims the item's reservation slot for userID. The WHERE clause
// checks the slot is free and the SET writes both columns in the same
// statement, so two racing reservers produce exactly one winner and the
// by/at pair is never torn.
func (r *GORMItemRepository) Reserve(itemID, wishlistID, userID string, at time.Time) error {
	res := r.db.Model(&models.Item{}).
		Where("id = ? AND wishlist_id = ? AND reserved_by_user_id IS NULL", itemID, wishlistID).
		Updates(map[string]interface{}{
			"reserved_by_user_id": userID,
			"reserved_at":         at,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to reserve item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item %s is already reserved: %w", itemID, ErrConflict)
	}
	return nil
}

// Unreserve releases the slot only if it is currently claimed, clearing both
// columns together.
func (r *GORMItemRepository) Unreserve(itemID, wishlistID string) error {
	res := r.db.Model(&models.Item{}).
		Where("id = ? AND wishlist_id = ? AND reserved_by_user_id IS NOT NULL", itemID, wishlistID).
		Updates(map[string]interface{}{
			"reserved_by_user_id": nil,
			"reserved_at":         nil,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to unreserve item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item %s is not reserved: %w", itemID, ErrConflict)
	}
	return nil
}
