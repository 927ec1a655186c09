package handlers

import (
	"context"
	"net/http"

	"github.com/propertylabs/rental-radar-alerts-sub000/data"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
)

type UserStore interface {
	UpsertUser(ctx context.Context, user data.User) error
}

type UserHandler struct {
	userRepo UserStore
}

func NewUserHandler(repo UserStore) *UserHandler {
	return &UserHandler{
		userRepo: repo,
	}
}

// InitializeUser runs at login: it records the caller and refreshes their name and email.
func (h UserHandler) InitializeUser(w http.ResponseWriter, r *http.Request) Result {
	user, res, ok := currentUser(r)
	if !ok {
		return res
	}

	if err := h.Register(r.Context(), user); err != nil {
		return InternalError(err, "initialize user: upsert user")
	}

	return Ok(user)
}

// Register records the caller so searches can reference them, whether or not the client ever
// called /users/init.
func (h UserHandler) Register(ctx context.Context, user models.UserModel) error {
	return h.userRepo.UpsertUser(ctx, data.User{
		WhopUserID: user.ID,
		Name:       user.Name,
		Email:      user.Email,
	})
}
