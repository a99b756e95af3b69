package repositories

import (
	"errors"

	"blog/internal/models"
)

var (
	// ErrNotFound is wrapped by every repository lookup that matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a write collides with the unique email index.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	GetAll() ([]models.User, error)
	Update(user *models.User) error
}
