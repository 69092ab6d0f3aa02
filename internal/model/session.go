package model

// Session exposes the current authenticated identity read-only.
// Login and logout lifecycle live outside the client core.
type Session interface {
	CurrentUser() (User, bool)
}
