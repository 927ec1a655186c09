package handlers

import (
	"context"
	"net/http"

	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
	"github.com/propertylabs/rental-radar-alerts-sub000/identity"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
)

type userContextKey struct{}

func WithUser(ctx context.Context, user models.UserModel) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

func UserFrom(ctx context.Context) (models.UserModel, bool) {
	user, ok := ctx.Value(userContextKey{}).(models.UserModel)
	return user, ok
}

type AuthHandler struct {
	provider identity.Provider
}

func NewAuthHandler(provider identity.Provider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

// GetUser resolves the Authorization header into the caller. The body of an Ok result is a
// models.UserModel.
func (h *AuthHandler) GetUser(ctx context.Context, authHeader string) Result {
	token, err := identity.BearerToken(authHeader)
	if err != nil {
		return Unauthorized(msgLoginRequired)
	}

	user, err := h.provider.Identify(ctx, token)
	if err != nil {
		if domain.IsUnauthenticated(err) {
			return Unauthorized(msgLoginRequired)
		}
		return InternalError(err, "identify caller")
	}

	return Ok(user)
}

func currentUser(r *http.Request) (models.UserModel, Result, bool) {
	user, ok := UserFrom(r.Context())
	if !ok || user.ID == "" {
		return models.UserModel{}, Unauthorized(msgLoginRequired), false
	}
	return user, Result{}, true
}
