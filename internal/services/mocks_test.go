package services_test

import (
	"time"

	"wishnest/internal/models"

	"github.com/stretchr/testify/mock"
)

// Shared testify mocks for the repository interfaces, used across the
// service tests in this package.

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListByIDs(ids []string) ([]models.User, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Exists(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

// MockFriendshipRepository is a mock implementation of repositories.FriendshipRepository.
type MockFriendshipRepository struct {
	mock.Mock
}

func (m *MockFriendshipRepository) Create(f *models.Friendship) error {
	args := m.Called(f)
	return args.Error(0)
}

func (m *MockFriendshipRepository) GetByID(id string) (*models.Friendship, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) GetByPair(userA, userB string) (*models.Friendship, error) {
	args := m.Called(userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) TransitionStatus(id string, from, to models.FriendshipStatus) error {
	args := m.Called(id, from, to)
	return args.Error(0)
}

func (m *MockFriendshipRepository) Revive(id, requesterID string) error {
	args := m.Called(id, requesterID)
	return args.Error(0)
}

func (m *MockFriendshipRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockFriendshipRepository) ListByUserAndStatus(userID string, status models.FriendshipStatus) ([]models.Friendship, error) {
	args := m.Called(userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Friendship), args.Error(1)
}

// MockWishlistRepository is a mock implementation of repositories.WishlistRepository.
type MockWishlistRepository struct {
	mock.Mock
}

func (m *MockWishlistRepository) Create(w *models.Wishlist) error {
	args := m.Called(w)
	return args.Error(0)
}

func (m *MockWishlistRepository) GetByID(id string) (*models.Wishlist, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wishlist), args.Error(1)
}

func (m *MockWishlistRepository) GetByUserID(userID string) (*models.Wishlist, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wishlist), args.Error(1)
}

func (m *MockWishlistRepository) Update(w *models.Wishlist) error {
	args := m.Called(w)
	return args.Error(0)
}

func (m *MockWishlistRepository) DeleteByUserID(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockItemRepository is a mock implementation of repositories.ItemRepository.
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(item *models.Item) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(id string) (*models.Item, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) UpdateFields(itemID, wishlistID string, patch *models.Item, columns []string) (*models.Item, error) {
	args := m.Called(itemID, wishlistID, patch, columns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) Delete(itemID, wishlistID string) error {
	args := m.Called(itemID, wishlistID)
	return args.Error(0)
}

func (m *MockItemRepository) ListByWishlist(wishlistID string) ([]models.Item, error) {
	args := m.Called(wishlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemRepository) Reserve(itemID, wishlistID, userID string, at time.Time) error {
	args := m.Called(itemID, wishlistID, userID, at)
	return args.Error(0)
}

func (m *MockItemRepository) Unreserve(itemID, wishlistID string) error {
	args := m.Called(itemID, wishlistID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of services.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

// stubVisibility is a fixed-answer visibility policy for tests that do not
// exercise the friendship graph itself. Self-access always passes.
type stubVisibility struct {
	allow bool
}

func (s stubVisibility) CanView(actorID, ownerID string) (bool, error) {
	if actorID == ownerID {
		return true, nil
	}
	return s.allow, nil
}
