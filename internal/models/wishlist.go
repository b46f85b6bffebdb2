package models

import "time"

// DefaultWishlistTitle is used when a wishlist is created lazily.
const DefaultWishlistTitle = "My Wishlist"

// Wishlist is the single list a user owns. The unique index on UserID
// enforces the 1:1 relationship; concurrent first accesses race safely to a
// single row. Hard-deleted so a later lazy re-create does not collide with a
// soft-deleted row.
type Wishlist struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string    `json:"user_id" gorm:"uniqueIndex;type:varchar(36);not null"`
	Title       string    `json:"title" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	Description string    `json:"description" gorm:"type:varchar(500)" validate:"max=500"`
	IsArchived  bool      `json:"is_archived"` // reserved for later, unused by core logic
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WishlistMeta is the friend-facing slice of a wishlist.
type WishlistMeta struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Meta returns the friend-facing metadata view.
func (w *Wishlist) Meta() WishlistMeta {
	return WishlistMeta{
		Title:       w.Title,
		Description: w.Description,
		UpdatedAt:   w.UpdatedAt,
	}
}
