package services_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"wishnest/internal/apperrors"
	"wishnest/internal/models"
	"wishnest/internal/repositories"
	"wishnest/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type itemFixture struct {
	service   *services.ItemService
	items     *MockItemRepository
	wishlists *MockWishlistRepository
	events    *MockEventPublisher
}

func newItemFixture(visible bool) itemFixture {
	items := new(MockItemRepository)
	wishlists := new(MockWishlistRepository)
	events := new(MockEventPublisher)
	wlService := services.NewWishlistService(wishlists, stubVisibility{allow: visible})
	return itemFixture{
		service:   services.NewItemService(items, wlService, stubVisibility{allow: visible}, events),
		items:     items,
		wishlists: wishlists,
		events:    events,
	}
}

func strptr(s string) *string { return &s }

func f64ptr(f float64) *float64 { return &f }

func TestItemService_Create(t *testing.T) {
	fx := newItemFixture(false)

	fx.wishlists.On("GetByUserID", "alice").Return(&models.Wishlist{ID: "w1", UserID: "alice"}, nil).Once()
	fx.items.On("Create", mock.AnythingOfType("*models.Item")).Return(nil).Once()

	item, err := fx.service.Create("alice", services.CreateItemInput{
		Title:       "  Kindle Paperwhite  ",
		Description: "the 2024 one, please",
		Category:    "everyday",
		Price:       f64ptr(13999),
		Alternate: &services.AlternateInput{
			Title: "Any e-reader",
			Note:  strptr("as long as it has a backlight"),
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "w1", item.WishlistID)
	assert.Equal(t, "Kindle Paperwhite", item.Title)
	assert.Equal(t, models.CategoryEveryday, item.Category)
	assert.NotNil(t, item.Alternate)
	assert.Equal(t, "Any e-reader", item.Alternate.Title)
	assert.Nil(t, item.Reservation())
	fx.items.AssertExpectations(t)
	fx.wishlists.AssertExpectations(t)
}

func TestItemService_Create_FirstAccessCreatesWishlist(t *testing.T) {
	fx := newItemFixture(false)

	fx.wishlists.On("GetByUserID", "alice").Return(nil, repositories.ErrNotFound).Once()
	fx.wishlists.On("Create", mock.AnythingOfType("*models.Wishlist")).
		Run(func(args mock.Arguments) { args.Get(0).(*models.Wishlist).ID = "w-new" }).
		Return(nil).Once()
	fx.items.On("Create", mock.AnythingOfType("*models.Item")).Return(nil).Once()

	item, err := fx.service.Create("alice", services.CreateItemInput{
		Title:       "Wool socks",
		Description: "size 42",
		Category:    "everyday",
	})
	assert.NoError(t, err)
	assert.Equal(t, "w-new", item.WishlistID)
	fx.wishlists.AssertExpectations(t)
}

func TestItemService_Create_Validation(t *testing.T) {
	fx := newItemFixture(false)

	cases := []struct {
		name  string
		input services.CreateItemInput
	}{
		{"empty title", services.CreateItemInput{Title: "   ", Description: "d", Category: "everyday"}},
		{"title too long", services.CreateItemInput{Title: strings.Repeat("x", 141), Description: "d", Category: "everyday"}},
		{"empty description", services.CreateItemInput{Title: "t", Description: "", Category: "everyday"}},
		{"description too long", services.CreateItemInput{Title: "t", Description: strings.Repeat("x", 601), Category: "everyday"}},
		{"bad category", services.CreateItemInput{Title: "t", Description: "d", Category: "impulse"}},
		{"negative price", services.CreateItemInput{Title: "t", Description: "d", Category: "dream", Price: f64ptr(-1)}},
		{"alternate without title", services.CreateItemInput{
			Title: "t", Description: "d", Category: "dream",
			Alternate: &services.AlternateInput{Note: strptr("anything")},
		}},
	}
	for _, tc := range cases {
		_, err := fx.service.Create("alice", tc.input)
		assert.Error(t, err, tc.name)
		assert.Equal(t, apperrors.Invalid, apperrors.KindOf(err), tc.name)
	}
	fx.items.AssertNotCalled(t, "Create", mock.Anything)
}

func TestItemService_Update(t *testing.T) {
	fx := newItemFixture(false)

	fx.wishlists.On("GetByUserID", "alice").Return(&models.Wishlist{ID: "w1", UserID: "alice"}, nil).Once()
	updated := &models.Item{ID: "i1", WishlistID: "w1", Title: "Kindle Paperwhite Signature", Description: "d", Category: models.CategoryDream}
	fx.items.On("UpdateFields", "i1", "w1", mock.AnythingOfType("*models.Item"), []string{"title", "category"}).
		Return(updated, nil).Once()

	item, err := fx.service.Update("alice", "i1", services.UpdateItemInput{
		Title:    strptr("Kindle Paperwhite Signature"),
		Category: strptr("dream"),
	})
	assert.NoError(t, err)
	assert.Equal(t, updated, item)
	fx.items.AssertExpectations(t)
}

func TestItemService_Update_AlternateTriState(t *testing.T) {
	fx := newItemFixture(false)

	wl := &models.Wishlist{ID: "w1", UserID: "alice"}

	// null removes the alternate: the column is written even though the
	// patched value is nil.
	fx.wishlists.On("GetByUserID", "alice").Return(wl, nil).Once()
	fx.items.On("UpdateFields", "i1", "w1",
		mock.MatchedBy(func(p *models.Item) bool { return p.Alternate == nil }),
		[]string{"alternate"},
	).Return(&models.Item{ID: "i1", WishlistID: "w1"}, nil).Once()
	_, err := fx.service.Update("alice", "i1", services.UpdateItemInput{Alternate: json.RawMessage(`null`)})
	assert.NoError(t, err)

	// an object replaces it wholesale
	fx.wishlists.On("GetByUserID", "alice").Return(wl, nil).Once()
	fx.items.On("UpdateFields", "i1", "w1",
		mock.MatchedBy(func(p *models.Item) bool {
			return p.Alternate != nil && p.Alternate.Title == "Any e-reader" && p.Alternate.Note == "used is fine"
		}),
		[]string{"alternate"},
	).Return(&models.Item{ID: "i1", WishlistID: "w1"}, nil).Once()
	_, err = fx.service.Update("alice", "i1", services.UpdateItemInput{
		Alternate: json.RawMessage(`{"title":" Any e-reader ","note":"used is fine"}`),
	})
	assert.NoError(t, err)

	// an absent key leaves it untouched: "alternate" is not in the column set
	fx.wishlists.On("GetByUserID", "alice").Return(wl, nil).Once()
	fx.items.On("UpdateFields", "i1", "w1", mock.AnythingOfType("*models.Item"), []string{"title"}).
		Return(&models.Item{ID: "i1", WishlistID: "w1"}, nil).Once()
	_, err = fx.service.Update("alice", "i1", services.UpdateItemInput{Title: strptr("New title")})
	assert.NoError(t, err)

	fx.items.AssertExpectations(t)
}

func TestItemService_Update_AlternateValidation(t *testing.T) {
	fx := newItemFixture(false)

	wl := &models.Wishlist{ID: "w1", UserID: "alice"}
	fx.wishlists.On("GetByUserID", "alice").Return(wl, nil)

	_, err := fx.service.Update("alice", "i1", services.UpdateItemInput{
		Alternate: json.RawMessage(`{"note":"no title here"}`),
	})
	assert.Equal(t, apperrors.Invalid, apperrors.KindOf(err))

	_, err = fx.service.Update("alice", "i1", services.UpdateItemInput{
		Alternate: json.RawMessage(`"just a string"`),
	})
	assert.Equal(t, apperrors.Invalid, apperrors.KindOf(err))

	fx.items.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestItemService_Update_ForeignItemIsNotFound(t *testing.T) {
	fx := newItemFixture(false)

	// The item exists but belongs to another wishlist; the scoped update
	// matches nothing and the caller cannot tell it apart from a bad ID.
	fx.wishlists.On("GetByUserID", "alice").Return(&models.Wishlist{ID: "w1", UserID: "alice"}, nil).Once()
	fx.items.On("UpdateFields", "someone-elses-item", "w1", mock.Anything, mock.Anything).
		Return(nil, repositories.ErrNotFound).Once()

	_, err := fx.service.Update("alice", "someone-elses-item", services.UpdateItemInput{Title: strptr("mine now")})
	assert.Equal(t, apperrors.NotFound, apperrors.KindOf(err))
	fx.items.AssertExpectations(t)
}

func TestItemService_Delete(t *testing.T) {
	fx := newItemFixture(false)

	fx.wishlists.On("GetByUserID", "alice").Return(&models.Wishlist{ID: "w1", UserID: "alice"}, nil)
	fx.items.On("Delete", "i1", "w1").Return(nil).Once()
	assert.NoError(t, fx.service.Delete("alice", "i1"))

	fx.items.On("Delete", "i2", "w1").Return(repositories.ErrNotFound).Once()
	err := fx.service.Delete("alice", "i2")
	assert.Equal(t, apperrors.NotFound, apperrors.KindOf(err))

	fx.items.AssertExpectations(t)
}

func TestItemService_ListMine_HidesReservation(t *testing.T) {
	fx := newItemFixture(false)

	reservedBy := "bob"
	at := time.Now()
	fx.wishlists.On("GetByUserID", "alice").Return(&models.Wishlist{ID: "w1", UserID: "alice"}, nil).Once()
	fx.items.On("ListByWishlist", "w1").Return([]models.Item{
		{ID: "i1", WishlistID: "w1", Title: "Kindle", ReservedByUserID: &reservedBy, ReservedAt: &at},
	}, nil).Once()

	views, err := fx.service.ListMine("alice")
	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Nil(t, views[0].Reservation)

	// The concealed columns must not resurface through serialization either.
	body, err := json.Marshal(views[0])
	assert.NoError(t, err)
	assert.NotContains(t, string(body), "bob")
	assert.NotContains(t, string(body), "reserv")
}

func TestItemService_ListForViewer(t *testing.T) {
	fx := newItemFixture(true)

	reservedBy := "carol"
	at := time.Now()
	fx.wishlists.On("GetByUserID", "alice").Return(&models.Wishlist{ID: "w1", UserID: "alice"}, nil).Once()
	fx.items.On("ListByWishlist", "w1").Return([]models.Item{
		{ID: "i1", WishlistID: "w1", Title: "Kindle", ReservedByUserID: &reservedBy, ReservedAt: &at},
		{ID: "i2", WishlistID: "w1", Title: "Socks"},
	}, nil).Once()

	views, err := fx.service.ListForViewer("bob", "alice")
	assert.NoError(t, err)
	assert.Len(t, views, 2)
	assert.NotNil(t, views[0].Reservation)
	assert.Equal(t, "carol", views[0].Reservation.ByUserID)
	assert.Nil(t, views[1].Reservation)
}

func TestItemService_ListForViewer_NotFriends(t *testing.T) {
	fx := newItemFixture(false)

	views, err := fx.service.ListForViewer("stranger", "alice")
	assert.Nil(t, views)
	assert.Equal(t, apperrors.Forbidden, apperrors.KindOf(err))
	fx.items.AssertNotCalled(t, "ListByWishlist", mock.Anything)
}

func TestItemService_ListForViewer_OwnerThroughViewerPath(t *testing.T) {
	fx := newItemFixture(false)

	reservedBy := "bob"
	at := time.Now()
	fx.wishlists.On("GetByUserID", "alice").Return(&models.Wishlist{ID: "w1", UserID: "alice"}, nil).Once()
	fx.items.On("ListByWishlist", "w1").Return([]models.Item{
		{ID: "i1", WishlistID: "w1", Title: "Kindle", ReservedByUserID: &reservedBy, ReservedAt: &at},
	}, nil).Once()

	// Owners listing their own wishlist by user id still never see the slot.
	views, err := fx.service.ListForViewer("alice", "alice")
	assert.NoError(t, err)
	assert.Nil(t, views[0].Reservation)
}

func TestItemService_Reserve(t *testing.T) {
	fx := newItemFixture(true)

	fx.items.On("GetByID", "i1").Return(&models.Item{ID: "i1", WishlistID: "w1", Title: "Kindle"}, nil).Once()
	fx.wishlists.On("GetByID", "w1").Return(&models.Wishlist{ID: "w1", UserID: "alice"}, nil).Once()
	fx.items.On("Reserve", "i1", "w1", "bob", mock.AnythingOfType("time.Time")).Return(nil).Once()
	fx.events.On("Publish", "item.reserved", mock.Anything).Return(nil).Once()

	view, err := fx.service.Reserve("bob", "i1")
	assert.NoError(t, err)
	assert.NotNil(t, view.Reservation)
	assert.Equal(t, "bob", view.Reservation.ByUserID)
	fx.items.AssertExpectations(t)
	fx.events.AssertExpectations(t)
}

func TestItemService_Reserve_AlreadyReserved(t *testing.T) {
	fx := newItemFixture(true)

	fx.items.On("GetByID", "i1").Return(&models.Item{ID: "i1", WishlistID: "w1"}, nil).Once()
	fx.wishlists.On("GetByID", "w1").Return(&models.Wishlist{ID: "w1", UserID: "alice"}, nil).Once()
	fx.items.On("Reserve", "i1", "w1", "bob", mock.AnythingOfType("time.Time")).
		Return(repositories.ErrConflict).Once()

	_, err := fx.service.Reserve("bob", "i1")
	assert.Equal(t, apperrors.Conflict, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "already reserved")
	fx.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestItemService_Reserve_InvisibleItemIsNotFound(t *testing.T) {
	fx := newItemFixture(false)

	fx.items.On("GetByID", "i1").Return(&models.Item{ID: "i1", WishlistID: "w1"}, nil).Once()
	fx.wishlists.On("GetByID", "w1").Return(&models.Wishlist{ID: "w1", UserID: "alice"}, nil).Once()

	// Not a friend of the owner: the item reads as missing, not forbidden.
	_, err := fx.service.Reserve("stranger", "i1")
	assert.Equal(t, apperrors.NotFound, apperrors.KindOf(err))
	fx.items.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestItemService_Reserve_UnknownItem(t *testing.T) {
	fx := newItemFixture(true)

	fx.items.On("GetByID", "missing").Return(nil, repositories.ErrNotFound).Once()
	_, err := fx.service.Reserve("bob", "missing")
	assert.Equal(t, apperrors.NotFound, apperrors.KindOf(err))
}

func TestItemService_Unreserve(t *testing.T) {
	fx := newItemFixture(true)

	reservedBy := "bob"
	at := time.Now()
	fx.items.On("GetByID", "i1").Return(&models.Item{
		ID: "i1", WishlistID: "w1", ReservedByUserID: &reservedBy, ReservedAt: &at,
	}, nil).Once()
	fx.wishlists.On("GetByID", "w1").Return(&models.Wishlist{ID: "w1", UserID: "alice"}, nil).Once()
	fx.items.On("Unreserve", "i1", "w1").Return(nil).Once()
	fx.events.On("Publish", "item.unreserved", mock.Anything).Return(nil).Once()

	// Carol releasing Bob's reservation is allowed: any friend of the owner may.
	view, err := fx.service.Unreserve("carol", "i1")
	assert.NoError(t, err)
	assert.Nil(t, view.Reservation)
	fx.items.AssertExpectations(t)
	fx.events.AssertExpectations(t)
}

func TestItemService_Unreserve_NotReserved(t *testing.T) {
	fx := newItemFixture(true)

	fx.items.On("GetByID", "i1").Return(&models.Item{ID: "i1", WishlistID: "w1"}, nil).Once()
	fx.wishlists.On("GetByID", "w1").Return(&models.Wishlist{ID: "w1", UserID: "alice"}, nil).Once()
	fx.items.On("Unreserve", "i1", "w1").Return(repositories.ErrConflict).Once()

	_, err := fx.service.Unreserve("bob", "i1")
	assert.Equal(t, apperrors.Conflict, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "not reserved")
}
