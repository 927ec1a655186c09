// Package identity resolves a bearer token into the caller's profile and subscription state.
package identity

import (
	"context"
	"strings"

	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
)

// Provider returns the user behind a token. An unknown or expired token is reported as a
// domain Unauthenticated error; anything else means the provider itself failed.
type Provider interface {
	Identify(ctx context.Context, token string) (models.UserModel, error)
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", domain.NewUnauthenticatedError()
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", domain.NewUnauthenticatedError()
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", domain.NewUnauthenticatedError()
	}
	return token, nil
}

// displayName falls back to the local part of the email when the provider has no name.
func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return strings.Split(email, "@")[0]
}
