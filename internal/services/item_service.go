package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"wishnest/internal/apperrors"
	"wishnest/internal/models"
	"wishnest/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// ItemService handles item CRUD for the owner and the reservation engine for
// visibility-authorized actors.
type ItemService struct {
	itemRepo   repositories.ItemRepository
	wishlists  *WishlistService
	visibility Visibility
	events     EventPublisher
	validate   *validator.Validate
}

// NewItemService creates a new ItemService.
func NewItemService(itemRepo repositories.ItemRepository, wishlists *WishlistService, visibility Visibility, events EventPublisher) *ItemService {
	return &ItemService{
		itemRepo:   itemRepo,
		wishlists:  wishlists,
		visibility: visibility,
		events:     events,
		validate:   validator.New(),
	}
}

// AlternateInput is the payload shape of the embedded alternate suggestion.
type AlternateInput struct {
	Title string   `json:"title" validate:"required,max=140"`
	URL   *string  `json:"url" validate:"omitempty,max=1000"`
	Note  *string  `json:"note" validate:"omitempty,max=300"`
	Price *float64 `json:"price" validate:"omitempty,gte=0"`
}

// toModel converts a trimmed, validated input into the stored shape.
func (a *AlternateInput) toModel() *models.Alternate {
	alt := &models.Alternate{Title: a.Title, Price: a.Price}
	if a.URL != nil {
		alt.URL = *a.URL
	}
	if a.Note != nil {
		alt.Note = *a.Note
	}
	return alt
}

func (a *AlternateInput) trim() {
	a.Title = strings.TrimSpace(a.Title)
	if a.URL != nil {
		u := strings.TrimSpace(*a.URL)
		a.URL = &u
	}
	if a.Note != nil {
		n := strings.TrimSpace(*a.Note)
		a.Note = &n
	}
}

// CreateItemInput is the payload for creating an item.
type CreateItemInput struct {
	Title       string          `json:"title" validate:"required,max=140"`
	Description string          `json:"description" validate:"required,max=600"`
	Category    string          `json:"category" validate:"required,oneof=everyday dream"`
	IconKey     *string         `json:"icon_key" validate:"omitempty,max=30"`
	URL         *string         `json:"url" validate:"omitempty,max=1000"`
	Price       *float64        `json:"price" validate:"omitempty,gte=0"`
	Alternate   *AlternateInput `json:"alternate"`
}

// Create validates the payload and adds the item to the owner's wishlist,
// creating the wishlist first if this is the owner's first access.
func (s *ItemService) Create(ownerID string, input CreateItemInput) (*models.Item, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	if input.IconKey != nil {
		k := strings.TrimSpace(*input.IconKey)
		input.IconKey = &k
	}
	if input.URL != nil {
		u := strings.TrimSpace(*input.URL)
		input.URL = &u
	}
	if input.Alternate != nil {
		input.Alternate.trim()
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}

	wl, err := s.wishlists.GetOrCreate(ownerID)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		WishlistID:  wl.ID,
		Title:       input.Title,
		Description: input.Description,
		Category:    models.ItemCategory(input.Category),
		Price:       input.Price,
	}
	if input.IconKey != nil {
		item.IconKey = *input.IconKey
	}
	if input.URL != nil {
		item.URL = *input.URL
	}
	if input.Alternate != nil {
		item.Alternate = input.Alternate.toModel()
	}

	if err := s.itemRepo.Create(item); err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to create item", err)
	}
	return item, nil
}

// UpdateItemInput carries the fields a PATCH may provide; nil pointers mean
// "leave unchanged". Alternate is kept raw to distinguish its three shapes:
// absent (keep), null (remove), object (replace).
type UpdateItemInput struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	IconKey     *string         `json:"icon_key"`
	URL         *string         `json:"url"`
	Price       *float64        `json:"price"`
	Alternate   json.RawMessage `json:"alternate"`
}

var jsonNull = []byte("null")

// Update revalidates each present field independently and applies them to
// the item. An item outside the owner's wishlist reads as not found, never
// as forbidden, so foreign item IDs do not leak existence.
func (s *ItemService) Update(ownerID, itemID string, input UpdateItemInput) (*models.Item, error) {
	wl, err := s.wishlists.getByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	patch := &models.Item{}
	var columns []string

	if input.Title != nil {
		t := strings.TrimSpace(*input.Title)
		if t == "" {
			return nil, apperrors.New(apperrors.Invalid, "title cannot be empty")
		}
		patch.Title = t
		columns = append(columns, "title")
	}
	if input.Description != nil {
		d := strings.TrimSpace(*input.Description)
		if d == "" {
			return nil, apperrors.New(apperrors.Invalid, "description cannot be empty")
		}
		patch.Description = d
		columns = append(columns, "description")
	}
	if input.Category != nil {
		c := models.ItemCategory(strings.TrimSpace(*input.Category))
		if !c.Valid() {
			return nil, apperrors.New(apperrors.Invalid, `category must be "everyday" or "dream"`)
		}
		patch.Category = c
		columns = append(columns, "category")
	}
	if input.IconKey != nil {
		patch.IconKey = strings.TrimSpace(*input.IconKey)
		columns = append(columns, "icon_key")
	}
	if input.URL != nil {
		patch.URL = strings.TrimSpace(*input.URL)
		columns = append(columns, "url")
	}
	if input.Price != nil {
		patch.Price = input.Price
		columns = append(columns, "price")
	}

	if len(input.Alternate) > 0 {
		switch {
		case bytes.Equal(bytes.TrimSpace(input.Alternate), jsonNull):
			patch.Alternate = nil
			columns = append(columns, "alternate")
		default:
			var alt AlternateInput
			if err := json.Unmarshal(input.Alternate, &alt); err != nil {
				return nil, apperrors.New(apperrors.Invalid, "invalid alternate payload")
			}
			alt.trim()
			if alt.Title == "" {
				return nil, apperrors.New(apperrors.Invalid, "alternate title is required when setting alternate")
			}
			if err := s.validate.Struct(alt); err != nil {
				return nil, invalidInput(err)
			}
			patch.Alternate = alt.toModel()
			columns = append(columns, "alternate")
		}
	}

	// Length limits on the scalar fields share the create-path rules.
	check := CreateItemInput{Title: "x", Description: "x", Category: "everyday"}
	if input.Title != nil {
		check.Title = patch.Title
	}
	if input.Description != nil {
		check.Description = patch.Description
	}
	if input.IconKey != nil {
		check.IconKey = &patch.IconKey
	}
	if input.URL != nil {
		check.URL = &patch.URL
	}
	if input.Price != nil {
		check.Price = patch.Price
	}
	if err := s.validate.Struct(check); err != nil {
		return nil, invalidInput(err)
	}

	item, err := s.itemRepo.UpdateFields(itemID, wl.ID, patch, columns)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "item not found")
		}
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to update item", err)
	}
	return item, nil
}

// Delete removes an item from the owner's wishlist.
func (s *ItemService) Delete(ownerID, itemID string) error {
	wl, err := s.wishlists.getByOwner(ownerID)
	if err != nil {
		return err
	}
	if err := s.itemRepo.Delete(itemID, wl.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.New(apperrors.NotFound, "item not found")
		}
		return apperrors.Wrap(apperrors.Unexpected, "failed to delete item", err)
	}
	return nil
}

// ItemView is the listing shape of an item. The reservation slot is attached
// only for viewers other than the owner, so the owner never learns whether
// (or by whom) an item is reserved.
type ItemView struct {
	models.Item
	Reservation *models.Reservation `json:"reservation,omitempty"`
}

// ListMine returns the owner's items, newest first, with the reservation
// slot always concealed.
func (s *ItemService) ListMine(ownerID string) ([]ItemView, error) {
	wl, err := s.wishlists.getByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.ListByWishlist(wl.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to list items", err)
	}
	return toViews(items, false), nil
}

// ListForViewer returns another user's items for a visibility-authorized
// viewer. A friend sees reservation state; the owner viewing through this
// path still does not.
func (s *ItemService) ListForViewer(viewerID, ownerUserID string) ([]ItemView, error) {
	ok, err := s.visibility.CanView(viewerID, ownerUserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.New(apperrors.Forbidden, "not allowed (not friends)")
	}
	wl, err := s.wishlists.getByOwner(ownerUserID)
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.ListByWishlist(wl.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to list items", err)
	}
	return toViews(items, viewerID != ownerUserID), nil
}

func toViews(items []models.Item, includeReservation bool) []ItemView {
	views := make([]ItemView, 0, len(items))
	for i := range items {
		v := ItemView{Item: items[i]}
		if includeReservation {
			v.Reservation = items[i].Reservation()
		}
		views = append(views, v)
	}
	return views
}

// Reserve claims the item's single reservation slot for the actor. The
// transition is one conditional update: of two concurrent reservers exactly
// one wins and the loser gets a conflict, never a silent overwrite. Items
// the actor may not view read as not found.
func (s *ItemService) Reserve(actorID, itemID string) (*ItemView, error) {
	item, err := s.visibleItem(actorID, itemID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.itemRepo.Reserve(item.ID, item.WishlistID, actorID, now); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, apperrors.New(apperrors.Conflict, "item is already reserved")
		}
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to reserve item", err)
	}
	item.ReservedByUserID = &actorID
	item.ReservedAt = &now
	publishEvent(s.events, "item.reserved", map[string]interface{}{
		"item_id":     item.ID,
		"wishlist_id": item.WishlistID,
		"by_user_id":  actorID,
	})
	return &ItemView{Item: *item, Reservation: item.Reservation()}, nil
}

// Unreserve releases the item's reservation slot. Any visibility-authorized
// actor may release; a free item reads as a conflict.
func (s *ItemService) Unreserve(actorID, itemID string) (*ItemView, error) {
	item, err := s.visibleItem(actorID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Unreserve(item.ID, item.WishlistID); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, apperrors.New(apperrors.Conflict, "item is not reserved")
		}
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to unreserve item", err)
	}
	item.ReservedByUserID = nil
	item.ReservedAt = nil
	publishEvent(s.events, "item.unreserved", map[string]interface{}{
		"item_id":     item.ID,
		"wishlist_id": item.WishlistID,
		"by_user_id":  actorID,
	})
	return &ItemView{Item: *item}, nil
}

// visibleItem resolves an item and checks the actor may act on its owner's
// wishlist. Unknown items and invisible items are both "not found".
func (s *ItemService) visibleItem(actorID, itemID string) (*models.Item, error) {
	item, err := s.itemRepo.GetByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "item not found")
		}
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to load item", err)
	}
	wl, err := s.wishlists.getByID(item.WishlistID)
	if err != nil {
		return nil, err
	}
	ok, err := s.visibility.CanView(actorID, wl.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, "item not found")
	}
	return item, nil
}
