package identity

import (
	"context"

	"github.com/Nerzal/gocloak/v13"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
)

// KeycloakProvider validates tokens against a Keycloak realm. A user counts as subscribed when
// they hold the realm role named after the product.
type KeycloakProvider struct {
	keycloak *gocloak.GoCloak
	realm    string
	role     string
}

func NewKeycloakProvider(keycloak *gocloak.GoCloak, realm, subscriberRole string) *KeycloakProvider {
	return &KeycloakProvider{keycloak: keycloak, realm: realm, role: subscriberRole}
}

func (p *KeycloakProvider) Identify(ctx context.Context, token string) (models.UserModel, error) {
	_, claims, err := p.keycloak.DecodeAccessToken(ctx, token, p.realm)
	if err != nil || claims == nil {
		return models.UserModel{}, domain.NewUnauthenticatedError()
	}

	userInfo, err := p.keycloak.GetUserInfo(ctx, token, p.realm)
	if err != nil {
		return models.UserModel{}, errors.Wrap(err, "keycloak: get user info")
	}
	if userInfo == nil || userInfo.Sub == nil {
		return models.UserModel{}, domain.NewUnauthenticatedError()
	}

	email := gocloak.PString(userInfo.Email)
	name := gocloak.PString(userInfo.PreferredUsername)
	if name == "" {
		name = gocloak.PString(userInfo.Name)
	}

	return models.UserModel{
		ID:         *userInfo.Sub,
		Name:       displayName(name, email),
		Email:      email,
		Subscribed: hasRealmRole(*claims, p.role),
	}, nil
}

func hasRealmRole(claims jwt.MapClaims, role string) bool {
	if role == "" {
		return false
	}
	access, ok := claims["realm_access"].(map[string]any)
	if !ok {
		return false
	}
	roles, ok := access["roles"].([]any)
	if !ok {
		return false
	}
	for _, r := range roles {
		if s, ok := r.(string); ok && s == role {
			return true
		}
	}
	return false
}
