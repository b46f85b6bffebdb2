package repositories

import (
	"time"

	"wishnest/internal/models"
)

// ItemRepository defines the interface for item data access. Reserve and
// Unreserve are the reservation engine's conditional-update primitives: each
// is a single atomic check-and-set against the store, and a lost race
// surfaces as ErrConflict.
type ItemRepository interface {
	Create(item *models.Item) error
	GetByID(id string) (*models.Item, error)
	// UpdateFields writes exactly the listed columns from patch to the item,
	// only if it belongs to the given wishlist, then returns the updated
	// row. The column list never includes the reservation columns, so an
	// owner edit cannot clobber a concurrent reservation.
	UpdateFields(itemID, wishlistID string, patch *models.Item, columns []string) (*models.Item, error)
	Delete(itemID, wishlistID string) error
	// ListByWishlist returns the wishlist's items, newest first.
	ListByWishlist(wishlistID string) ([]models.Item, error)
	Reserve(itemID, wishlistID, userID string, at time.Time) error
	Unreserve(itemID, wishlistID string) error
}
