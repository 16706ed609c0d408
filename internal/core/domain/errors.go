package domain

import "errors"

// Sentinel errors shared across services. The HTTP layer maps each of
// these to a status code in the central error handler.
var (
	ErrValidation         = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotVerified = errors.New("account not verified")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrUserNotFound    = errors.New("user not found")
	ErrPictureNotFound = errors.New("profile picture not found")
	ErrUserExists      = errors.New("username or email already taken")
	ErrTitleNotFound   = errors.New("title not found")
	ErrSlugTaken       = errors.New("slug already in use")
	ErrEntryNotFound   = errors.New("entry not found")

	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category has children or titles")

	ErrAlreadyVoted = errors.New("entry already voted by user")
	ErrVoteNotFound = errors.New("no vote to undo")
	ErrVoteConflict = errors.New("vote direction does not match stored vote")

	ErrRatingNotFound = errors.New("user has not rated this title")
)
