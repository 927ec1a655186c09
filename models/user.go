package models

// UserModel is the identity of a caller as resolved by the identity provider.
type UserModel struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Subscribed bool   `json:"subscribed"`
}
