package model

// User represents an authenticated identity supplied by the session
// context. Immutable from the client core's perspective.
type User struct {
	ID    string
	Name  string
	Email string
	Bio   string
}
