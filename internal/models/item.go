package models

import "time"

// ItemCategory is the mood bucket of an item.
type ItemCategory string

const (
	CategoryEveryday ItemCategory = "everyday"
	CategoryDream    ItemCategory = "dream"
)

// Valid reports whether the category is one of the known buckets.
func (c ItemCategory) Valid() bool {
	return c == CategoryEveryday || c == CategoryDream
}

// Alternate is the single optional substitute suggestion embedded in an item.
// Stored as a JSON column, not a separate table.
type Alternate struct {
	Title string   `json:"title" validate:"required,min=1,max=140"`
	URL   string   `json:"url,omitempty" validate:"omitempty,max=1000"`
	Note  string   `json:"note,omitempty" validate:"omitempty,max=300"`
	Price *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}

// Item belongs to exactly one wishlist. The reservation slot is the pair
// (ReservedByUserID, ReservedAt): both set or both null, only ever written by
// a single conditional UPDATE so the pair cannot be observed torn. The raw
// columns are never serialized; listings expose the slot through
// Reservation(), and only to viewers other than the owner.
type Item struct {
	ID          string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	WishlistID  string       `json:"wishlist_id" gorm:"index;type:varchar(36);not null"`
	Title       string       `json:"title" gorm:"type:varchar(140)" validate:"required,min=1,max=140"`
	Description string       `json:"description" gorm:"type:varchar(600)" validate:"required,min=1,max=600"`
	Category    ItemCategory `json:"category" gorm:"type:varchar(16);index;not null" validate:"required,oneof=everyday dream"`
	IconKey     string       `json:"icon_key,omitempty" gorm:"type:varchar(30)" validate:"omitempty,max=30"`
	URL         string       `json:"url,omitempty" gorm:"type:varchar(1000)" validate:"omitempty,max=1000"`
	Price       *float64     `json:"price,omitempty" validate:"omitempty,gte=0"`
	Alternate   *Alternate   `json:"alternate,omitempty" gorm:"serializer:json;type:text"`

	ReservedByUserID *string    `json:"-" gorm:"type:varchar(36)"`
	ReservedAt       *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reservation is the claimed state of an item's reservation slot.
type Reservation struct {
	ByUserID string    `json:"by_user_id"`
	At       time.Time `json:"at"`
}

// Reservation returns nil while the item is free. Presence of
// ReservedByUserID is the sole source of truth for "is this item reserved".
func (i *Item) Reservation() *Reservation {
	if i.ReservedByUserID == nil {
		return nil
	}
	r := Reservation{ByUserID: *i.ReservedByUserID}
	if i.ReservedAt != nil {
		r.At = *i.ReservedAt
	}
	return &r
}
