package repositories

import "blog/internal/models"

// PostRepository defines the interface for post data access.
//
// Create and Delete also keep the creator's post counter in step with the
// posts table; both writes commit or roll back together.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id string) (*models.Post, error)
	GetAll() ([]models.Post, error)
	GetByCategory(category string) ([]models.Post, error)
	GetByCreator(creatorID string) ([]models.Post, error)
	Update(post *models.Post) error
	Delete(post *models.Post) error
}
