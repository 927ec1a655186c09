// Package session holds the identity of the signed-in user. A Session is established when the
// user logs in and cleared when they log out; the builder, editor, dashboard and HTTP client
// all take it explicitly instead of reading ambient state.
package session

import (
	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
)

type Session struct {
	UserID     string
	Token      string
	Name       string
	Email      string
	Subscribed bool
}

// Establish builds a session from the identity returned at login.
func Establish(token string, user models.UserModel) *Session {
	return &Session{
		UserID:     user.ID,
		Token:      token,
		Name:       user.Name,
		Email:      user.Email,
		Subscribed: user.Subscribed,
	}
}

// Clear forgets the user. Any operation attempted afterwards fails as unauthenticated.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	*s = Session{}
}

func (s *Session) Active() bool {
	return s != nil && s.UserID != ""
}

// OwnerID returns the caller id or an Unauthenticated error when nobody is signed in.
func (s *Session) OwnerID() (string, error) {
	if !s.Active() {
		return "", domain.NewUnauthenticatedError()
	}
	return s.UserID, nil
}
