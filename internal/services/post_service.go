package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"blog/internal/apperror"
	"blog/internal/models"
	"blog/internal/repositories"
	"blog/pkg/storage"
)

// EventPublisher announces post lifecycle transitions.
type EventPublisher interface {
	PublishPostEvent(event models.PostEvent) error
}

// PostInput holds the editable text fields of a post.
type PostInput struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Category    string `json:"category" form:"category" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
}

func (in *PostInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
}

func (in PostInput) check(message string) error {
	if err := validateInput(in, message); err != nil {
		return err
	}
	if len([]rune(strings.TrimSpace(in.Description))) < MinDescriptionLength {
		return apperror.Validation(fmt.Sprintf("Description should be at least %d characters", MinDescriptionLength))
	}
	return nil
}

// PostService handles business logic related to posts.
type PostService struct {
	posts  repositories.PostRepository
	assets AssetStore
	events EventPublisher // nil disables events
}

// NewPostService creates a new PostService. events may be nil.
func NewPostService(posts repositories.PostRepository, assets AssetStore, events EventPublisher) *PostService {
	return &PostService{
		posts:  posts,
		assets: assets,
		events: events,
	}
}

// Create stores the thumbnail and then the post. The creator's post counter
// is incremented in the same transaction as the insert.
func (s *PostService) Create(actorID string, in PostInput, thumbnail *storage.Upload) (*models.Post, error) {
	in.normalize()
	if thumbnail == nil {
		return nil, apperror.Validation("Fill in all fields and choose thumbnail.")
	}
	if err := in.check("Fill in all fields and choose thumbnail."); err != nil {
		return nil, err
	}
	if thumbnail.Size > MaxThumbnailSize {
		return nil, apperror.Validation("Thumbnail too big. File should be less than 2mb")
	}

	name, err := s.assets.Save(*thumbnail)
	if err != nil {
		return nil, apperror.Storage("Thumbnail couldn't be stored", err)
	}

	post := &models.Post{
		Title:       in.Title,
		Category:    in.Category,
		Description: in.Description,
		Thumbnail:   name,
		Creator:     actorID,
	}
	if err := s.posts.Create(post); err != nil {
		discardAsset(s.assets, name, "orphaned thumbnail")
		return nil, apperror.Storage("Post couldn't be created", err)
	}

	s.publish(models.PostCreated, post)
	return post, nil
}

// List returns every post, most recently updated first.
func (s *PostService) List() ([]models.Post, error) {
	posts, err := s.posts.GetAll()
	if err != nil {
		return nil, apperror.Storage("Could not load posts", err)
	}
	return orEmpty(posts), nil
}

// GetByID returns one post.
func (s *PostService) GetByID(id string) (*models.Post, error) {
	post, err := s.posts.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Post not found")
		}
		return nil, apperror.Storage("Could not load post", err)
	}
	return post, nil
}

// ListByCategory returns the posts of a category, newest first.
func (s *PostService) ListByCategory(category string) ([]models.Post, error) {
	posts, err := s.posts.GetByCategory(category)
	if err != nil {
		return nil, apperror.Storage("Could not load posts", err)
	}
	return orEmpty(posts), nil
}

// ListByCreator returns the posts of a user, newest first.
func (s *PostService) ListByCreator(userID string) ([]models.Post, error) {
	posts, err := s.posts.GetByCreator(userID)
	if err != nil {
		return nil, apperror.Storage("Could not load posts", err)
	}
	return orEmpty(posts), nil
}

// Edit updates the text fields of a post and, when thumbnail is given,
// replaces its thumbnail. Only the creator may edit; the check runs before
// any file is touched.
func (s *PostService) Edit(actorID, postID string, in PostInput, thumbnail *storage.Upload) (*models.Post, error) {
	in.normalize()
	if err := in.check("Fill in all fields."); err != nil {
		return nil, err
	}

	post, err := s.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post.Creator != actorID {
		return nil, apperror.Authorization("Only the creator can edit this post")
	}

	var newName string
	if thumbnail != nil {
		if thumbnail.Size > MaxThumbnailSize {
			return nil, apperror.Validation("Thumbnail too big. File should be less than 2mb")
		}
		newName, err = s.assets.Save(*thumbnail)
		if err != nil {
			return nil, apperror.Storage("Thumbnail couldn't be stored", err)
		}
	}

	oldName := post.Thumbnail
	post.Title = in.Title
	post.Category = in.Category
	post.Description = in.Description
	if newName != "" {
		post.Thumbnail = newName
	}

	if err := s.posts.Update(post); err != nil {
		discardAsset(s.assets, newName, "unused thumbnail")
		return nil, apperror.Update("Couldn't update the post.", err)
	}
	if newName != "" {
		discardAsset(s.assets, oldName, "previous thumbnail")
	}

	s.publish(models.PostUpdated, post)
	return post, nil
}

// Delete removes a post owned by the actor, decrements the creator's post
// counter and then removes the thumbnail.
func (s *PostService) Delete(actorID, postID string) (string, error) {
	if strings.TrimSpace(postID) == "" {
		return "", apperror.Validation("Post unavailable.")
	}

	post, err := s.GetByID(postID)
	if err != nil {
		return "", err
	}
	if post.Creator != actorID {
		return "", apperror.Authorization("Post couldn't be deleted")
	}

	if err := s.posts.Delete(post); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", apperror.NotFound("Post not found")
		}
		return "", apperror.Storage("Post couldn't be deleted", err)
	}
	discardAsset(s.assets, post.Thumbnail, "deleted post thumbnail")

	s.publish(models.PostDeleted, post)
	return fmt.Sprintf("post %s deleted successfully.", postID), nil
}

func (s *PostService) publish(eventType models.PostEventType, post *models.Post) {
	if s.events == nil {
		return
	}
	event := models.PostEvent{
		Type:       eventType,
		PostID:     post.ID,
		Creator:    post.Creator,
		Category:   post.Category,
		OccurredAt: time.Now(),
	}
	if err := s.events.PublishPostEvent(event); err != nil {
		log.Printf("Warning: failed to publish %s event for post %s: %v", eventType, post.ID, err)
	}
}

func orEmpty(posts []models.Post) []models.Post {
	if posts == nil {
		return []models.Post{}
	}
	return posts
}
