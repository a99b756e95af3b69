package services

import (
	"fmt"
	"strings"

	"blog/internal/apperror"

	"github.com/go-playground/validator/v10"
)

const (
	MinPasswordLength    = 6
	MaxPasswordBytes     = 72 // bcrypt input limit
	MinDescriptionLength = 12
	MaxAvatarSize        = 500_000
	MaxThumbnailSize     = 2_000_000
)

var validate = validator.New()

// validateInput runs the struct tags of payload and folds the failures into
// one validation error listing every offending field.
func validateInput(payload any, message string) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.Wrap(apperror.KindValidation, message, err)
	}

	fields := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			fields = append(fields, fmt.Sprintf("%s is required", e.Field()))
		case "min":
			fields = append(fields, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
		default:
			fields = append(fields, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return apperror.Wrap(apperror.KindValidation, message, fmt.Errorf("%s", strings.Join(fields, "; ")))
}

// checkPassword enforces the length bounds shared by registration and profile edits.
func checkPassword(password string) error {
	if len(strings.TrimSpace(password)) < MinPasswordLength {
		return apperror.Validation(fmt.Sprintf("Password should be at least %d characters", MinPasswordLength))
	}
	if len(password) > MaxPasswordBytes {
		return apperror.Validation(fmt.Sprintf("Password should be at most %d bytes", MaxPasswordBytes))
	}
	return nil
}
