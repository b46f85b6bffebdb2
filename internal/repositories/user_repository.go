package repositories

import "wishnest/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	ListByIDs(ids []string) ([]models.User, error)
	Exists(id string) (bool, error)
}
