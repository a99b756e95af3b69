package repositories

import (
	"errors"
	"fmt"
	"time"

	"blog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create inserts post and increments its creator's post counter in one transaction.
func (r *GORMPostRepository) Create(post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		res := tx.Model(&models.User{}).
			Where("id = ?", post.Creator).
			UpdateColumn("posts", gorm.Expr("posts + ?", 1))
		if res.Error != nil {
			return fmt.Errorf("failed to increment post count for user %s: %w", post.Creator, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("creator with ID %s not found: %w", post.Creator, ErrNotFound)
		}
		return nil
	})
}

// GetByID retrieves a single post by its ID from the database.
func (r *GORMPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post with ID %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post by ID %s: %w", id, err)
	}
	return &post, nil
}

// GetAll retrieves all posts, most recently updated first.
func (r *GORMPostRepository) GetAll() ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Order("updated_at desc").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get all posts: %w", err)
	}
	return posts, nil
}

// GetByCategory retrieves the posts of one category, newest first.
func (r *GORMPostRepository) GetByCategory(category string) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Where("category = ?", category).Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get posts in category %s: %w", category, err)
	}
	return posts, nil
}

// GetByCreator retrieves the posts written by one user, newest first.
func (r *GORMPostRepository) GetByCreator(creatorID string) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Where("creator = ?", creatorID).Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get posts of user %s: %w", creatorID, err)
	}
	return posts, nil
}

// Update writes the editable fields of post. Creator is never changed.
func (r *GORMPostRepository) Update(post *models.Post) error {
	post.UpdatedAt = time.Now()
	res := r.db.Model(post).
		Select("title", "category", "description", "thumbnail", "updated_at").
		Updates(post)
	if res.Error != nil {
		return fmt.Errorf("failed to update post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post with ID %s not found for update: %w", post.ID, ErrNotFound)
	}
	return nil
}

// Delete removes post and decrements its creator's post counter in one
// transaction. The counter never drops below zero.
func (r *GORMPostRepository) Delete(post *models.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Post{}, "id = ?", post.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("post with ID %s not found for deletion: %w", post.ID, ErrNotFound)
		}
		err := tx.Model(&models.User{}).
			Where("id = ? AND posts > 0", post.Creator).
			UpdateColumn("posts", gorm.Expr("posts - ?", 1)).Error
		if err != nil {
			return fmt.Errorf("failed to decrement post count for user %s: %w", post.Creator, err)
		}
		return nil
	})
}
