package ports

import (
	"context"
	"io"
)

// PictureStore persists user profile pictures. One picture per user;
// saving replaces any previous one.
type PictureStore interface {
	Save(ctx context.Context, username, contentType string, r io.Reader) error
	// Open returns the picture stream and its content type, or
	// domain.ErrPictureNotFound when the user has never uploaded one.
	Open(ctx context.Context, username string) (io.ReadCloser, string, error)
}
