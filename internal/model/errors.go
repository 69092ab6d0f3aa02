package model

import "errors"

var (
	// ErrNotFound signals a post that is absent locally or vanished
	// server-side between load and mutation.
	ErrNotFound = errors.New("post not found")
	// ErrDuplicateID signals a repository contract violation: a created
	// post whose id is already present in the feed.
	ErrDuplicateID = errors.New("duplicate post id")
	// ErrForbidden signals an ownership or authentication violation.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation signals empty content or comment text, caught
	// before any remote call.
	ErrValidation = errors.New("validation failed")
)
