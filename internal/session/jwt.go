// Package session supplies the current authenticated identity to the
// client core. The access token is issued by the backend at login; this
// package only reads it.
package session

import (
	"fmt"

	"github.com/feedapp/feedsync-client/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the identity claims the backend embeds in an access
// token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Bio    string `json:"bio,omitempty"`
}

// JWT implements model.Session from a verified HMAC-signed access token.
// The identity is fixed for the session's lifetime.
type JWT struct {
	user model.User
}

// NewJWT parses and verifies the token with the shared secret and
// captures the identity claims.
func NewJWT(tokenString, secret string) (*JWT, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid access token")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("access token carries no user id")
	}

	return &JWT{
		user: model.User{
			ID:    claims.UserID,
			Name:  claims.Name,
			Email: claims.Email,
			Bio:   claims.Bio,
		},
	}, nil
}

// CurrentUser returns the token's identity.
func (s *JWT) CurrentUser() (model.User, bool) {
	return s.user, true
}

// Static wraps a fixed user as a session. Used for local development and
// tests.
type Static struct {
	User model.User
}

// CurrentUser returns the wrapped user, or absence when the user has no
// id.
func (s Static) CurrentUser() (model.User, bool) {
	if s.User.ID == "" {
		return model.User{}, false
	}
	return s.User, true
}
