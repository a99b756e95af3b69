package handlers

import (
	"errors"

	"blog/internal/apperror"
	"blog/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// formUpload opens the multipart file named field. It returns a nil upload
// when the request is not multipart or carries no such file; a body that
// cannot be parsed is a validation error. The returned close func is never nil.
func formUpload(c *fiber.Ctx, field string) (*storage.Upload, func(), error) {
	noop := func() {}

	header, err := c.FormFile(field)
	if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, apperror.Wrap(apperror.KindValidation, "Invalid file upload", err)
	}
	if header == nil {
		return nil, noop, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, apperror.Storage("Uploaded "+field+" couldn't be read", err)
	}
	return &storage.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}, func() { file.Close() }, nil
}
