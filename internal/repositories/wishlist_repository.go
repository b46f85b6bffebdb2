package repositories

import "wishnest/internal/models"

// WishlistRepository defines the interface for wishlist data access.
type WishlistRepository interface {
	Create(w *models.Wishlist) error
	GetByID(id string) (*models.Wishlist, error)
	GetByUserID(userID string) (*models.Wishlist, error)
	Update(w *models.Wishlist) error
	// DeleteByUserID removes the owner's wishlist together with its items.
	DeleteByUserID(userID string) error
}
