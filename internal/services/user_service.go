package services

import (
	"context"
	"errors"
	"strings"

	"blog/internal/apperror"
	"blog/internal/models"
	"blog/internal/repositories"
	"blog/pkg/storage"
)

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	Name      string `json:"name" form:"name" validate:"required"`
	Email     string `json:"email" form:"email" validate:"required"`
	Password  string `json:"password" form:"password" validate:"required"`
	Password2 string `json:"password2" form:"password2"`
}

// LoginInput is the payload of a login.
type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Name  string `json:"name"`
}

// EditUserInput is the payload of a profile edit.
type EditUserInput struct {
	Name               string `json:"name" form:"name" validate:"required"`
	Email              string `json:"email" form:"email" validate:"required"`
	CurrentPassword    string `json:"currentPassword" form:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword" form:"newPassword" validate:"required"`
	ConfirmNewPassword string `json:"confirmNewPassword" form:"confirmNewPassword"`
}

// UserService handles registration, login and profile management.
type UserService struct {
	users  repositories.UserRepository
	assets AssetStore
	hasher PasswordHasher
	auth   *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.UserRepository, assets AssetStore, hasher PasswordHasher, auth *AuthService) *UserService {
	return &UserService{
		users:  users,
		assets: assets,
		hasher: hasher,
		auth:   auth,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with a hashed password and no posts.
func (s *UserService) Register(in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in, "Fill in all fields"); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(in.Email)
	if err == nil && existing != nil {
		return nil, apperror.Conflict("Email already exists")
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.Storage("User registration failed", err)
	}

	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}
	if in.Password != in.Password2 {
		return nil, apperror.Validation("Passwords do not match")
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Storage("User registration failed", err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, apperror.Conflict("Email already exists")
		}
		return nil, apperror.Storage("User registration failed", err)
	}
	return user, nil
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password produce the same error.
func (s *UserService) Login(in LoginInput) (*LoginResult, error) {
	if err := validateInput(in, "Fill in all fields"); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.Auth("Invalid credentials")
		}
		return nil, apperror.Storage("Login failed", err)
	}
	if !s.hasher.Compare(user.Password, in.Password) {
		return nil, apperror.Auth("Invalid credentials")
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, apperror.Storage("Login failed", err)
	}
	return &LoginResult{Token: token, ID: user.ID, Name: user.Name}, nil
}

// Logout revokes the token the caller authenticated with.
func (s *UserService) Logout(ctx context.Context, token string) error {
	return s.auth.RevokeToken(ctx, token)
}

// GetUser returns a user without the password hash.
func (s *UserService) GetUser(id string) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("User not found.")
		}
		return nil, apperror.Storage("Could not load user", err)
	}
	user.Password = ""
	return user, nil
}

// ListAuthors returns every user without password hashes.
func (s *UserService) ListAuthors() ([]models.User, error) {
	users, err := s.users.GetAll()
	if err != nil {
		return nil, apperror.Storage("Could not load authors", err)
	}
	if users == nil {
		users = []models.User{}
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// ChangeAvatar stores a new avatar for the actor and points the user record
// at it. The previous avatar is removed only after the record is updated.
func (s *UserService) ChangeAvatar(actorID string, avatar *storage.Upload) (*models.User, error) {
	if avatar == nil {
		return nil, apperror.Validation("Please choose an image.")
	}
	if avatar.Size > MaxAvatarSize {
		return nil, apperror.Validation("Profile picture too big. Should be less than 500kb")
	}

	user, err := s.users.GetByID(actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("User not found.")
		}
		return nil, apperror.Storage("Avatar couldn't be changed", err)
	}

	newName, err := s.assets.Save(*avatar)
	if err != nil {
		return nil, apperror.Storage("Avatar couldn't be changed", err)
	}

	oldName := user.Avatar
	user.Avatar = newName
	if err := s.users.Update(user); err != nil {
		discardAsset(s.assets, newName, "unused avatar")
		return nil, apperror.Storage("Avatar couldn't be changed", err)
	}
	discardAsset(s.assets, oldName, "previous avatar")

	user.Password = ""
	return user, nil
}

// EditUser updates the actor's name, email and password.
func (s *UserService) EditUser(actorID string, in EditUserInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in, "Fill in all fields"); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("User not found.")
		}
		return nil, apperror.Storage("Could not update user", err)
	}

	owner, err := s.users.GetByEmail(in.Email)
	if err == nil && owner.ID != user.ID {
		return nil, apperror.Conflict("Email already exists.")
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.Storage("Could not update user", err)
	}

	if !s.hasher.Compare(user.Password, in.CurrentPassword) {
		return nil, apperror.Auth("Invalid current password")
	}
	if in.NewPassword != in.ConfirmNewPassword {
		return nil, apperror.Validation("New passwords do not match.")
	}
	if err := checkPassword(in.NewPassword); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return nil, apperror.Storage("Could not update user", err)
	}

	user.Name = in.Name
	user.Email = in.Email
	user.Password = hashed
	if err := s.users.Update(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, apperror.Conflict("Email already exists.")
		}
		return nil, apperror.Storage("Could not update user", err)
	}

	user.Password = ""
	return user, nil
}
