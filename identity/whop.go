package identity

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
)

type whopUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type whopMembership struct {
	ProductID string `json:"product_id"`
	Valid     bool   `json:"valid"`
}

type whopMemberships struct {
	Data []whopMembership `json:"data"`
}

// WhopClient asks the Whop API who the token belongs to and whether they hold a valid
// membership of the configured product.
type WhopClient struct {
	client    *resty.Client
	baseURL   string
	productID string
}

func NewWhopClient(baseURL, productID string, httpClient *http.Client) *WhopClient {
	return &WhopClient{
		client:    resty.NewWithClient(httpClient).SetHeader("Accept", "application/json"),
		baseURL:   strings.TrimRight(baseURL, "/"),
		productID: productID,
	}
}

func (c *WhopClient) Identify(ctx context.Context, token string) (models.UserModel, error) {
	var me whopUser
	if err := c.get(ctx, token, "/me", &me); err != nil {
		return models.UserModel{}, err
	}
	if me.ID == "" {
		return models.UserModel{}, domain.NewUnauthenticatedError()
	}

	var memberships whopMemberships
	if err := c.get(ctx, token, "/me/memberships", &memberships); err != nil {
		return models.UserModel{}, err
	}

	name := me.Name
	if name == "" {
		name = me.Username
	}
	return models.UserModel{
		ID:         me.ID,
		Name:       displayName(name, me.Email),
		Email:      me.Email,
		Subscribed: c.subscribed(memberships.Data),
	}, nil
}

func (c *WhopClient) subscribed(memberships []whopMembership) bool {
	for _, m := range memberships {
		if m.Valid && m.ProductID == c.productID {
			return true
		}
	}
	return false
}

func (c *WhopClient) get(ctx context.Context, token, path string, result any) error {
	res, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(result).
		Get(c.baseURL + path)
	if err != nil {
		return errors.Wrapf(err, "whop: get %s", path)
	}

	switch {
	case res.StatusCode() == http.StatusUnauthorized || res.StatusCode() == http.StatusForbidden:
		return domain.NewUnauthenticatedError()
	case res.IsError():
		return errors.Errorf("whop: get %s: unexpected status %d", path, res.StatusCode())
	}
	return nil
}
