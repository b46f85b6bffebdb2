package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"wishnest/internal/apperrors"
	"wishnest/internal/models"
	"wishnest/internal/repositories"
)

// WishlistService handles the owner's single wishlist and its friend-facing
// metadata.
type WishlistService struct {
	wishlistRepo repositories.WishlistRepository
	visibility   Visibility
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(wishlistRepo repositories.WishlistRepository, visibility Visibility) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		visibility:   visibility,
	}
}

// GetOrCreate returns the owner's wishlist, creating the default one on
// first access. Concurrent first accesses race on the owner unique index;
// the loser re-reads the winner's row.
func (s *WishlistService) GetOrCreate(userID string) (*models.Wishlist, error) {
	w, err := s.wishlistRepo.GetByUserID(userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to load wishlist", err)
	}

	w = &models.Wishlist{
		UserID:      userID,
		Title:       models.DefaultWishlistTitle,
		Description: "",
	}
	if err := s.wishlistRepo.Create(w); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return s.getByOwner(userID)
		}
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to create wishlist", err)
	}
	return w, nil
}

// UpdateWishlistInput carries the fields a PATCH may provide. Nil means
// "leave unchanged".
type UpdateWishlistInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Update validates each provided field independently and upserts: updating a
// wishlist that does not exist yet creates it first.
func (s *WishlistService) Update(userID string, input UpdateWishlistInput) (*models.Wishlist, error) {
	var title, description *string
	if input.Title != nil {
		t := strings.TrimSpace(*input.Title)
		if t == "" {
			return nil, apperrors.New(apperrors.Invalid, "title cannot be empty")
		}
		if utf8.RuneCountInString(t) > 100 {
			return nil, apperrors.New(apperrors.Invalid, "title too long (max 100)")
		}
		title = &t
	}
	if input.Description != nil {
		d := strings.TrimSpace(*input.Description)
		if utf8.RuneCountInString(d) > 500 {
			return nil, apperrors.New(apperrors.Invalid, "description too long (max 500)")
		}
		description = &d
	}

	w, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if title != nil {
		w.Title = *title
	}
	if description != nil {
		w.Description = *description
	}
	if err := s.wishlistRepo.Update(w); err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to update wishlist", err)
	}
	return w, nil
}

// Delete removes the owner's wishlist and all of its items.
func (s *WishlistService) Delete(userID string) error {
	if err := s.wishlistRepo.DeleteByUserID(userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.New(apperrors.NotFound, "wishlist not found")
		}
		return apperrors.Wrap(apperrors.Unexpected, "failed to delete wishlist", err)
	}
	return nil
}

// GetMeta returns the friend-facing title/description slice of another
// user's wishlist, gated by the visibility policy.
func (s *WishlistService) GetMeta(viewerID, ownerUserID string) (*models.WishlistMeta, error) {
	ok, err := s.visibility.CanView(viewerID, ownerUserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.New(apperrors.Forbidden, "not allowed (not friends)")
	}
	w, err := s.getByOwner(ownerUserID)
	if err != nil {
		return nil, err
	}
	meta := w.Meta()
	return &meta, nil
}

// getByOwner loads a wishlist by owner, translating a missing row into the
// caller-facing not-found error.
func (s *WishlistService) getByOwner(userID string) (*models.Wishlist, error) {
	w, err := s.wishlistRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "wishlist not found")
		}
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to load wishlist", err)
	}
	return w, nil
}

// getByID loads a wishlist by primary key (used to resolve an item's owner).
func (s *WishlistService) getByID(id string) (*models.Wishlist, error) {
	w, err := s.wishlistRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "wishlist not found")
		}
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to load wishlist", err)
	}
	return w, nil
}
