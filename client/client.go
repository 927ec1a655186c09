// Package client talks to the searches HTTP API. A Client satisfies the stores the builder,
// editor and dashboard expect, so they can run against a remote server as well as in-process.
package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
	"github.com/propertylabs/rental-radar-alerts-sub000/session"
)

type Client struct {
	client  *resty.Client
	baseURL string
}

type errorBody struct {
	Error string `json:"error"`
}

func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		client:  resty.NewWithClient(httpClient).SetHeader("Accept", "application/json"),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Login registers the token's owner with the server and returns a session for them.
func (c *Client) Login(ctx context.Context, token string) (*session.Session, error) {
	var user models.UserModel
	res, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&user).
		SetError(&errorBody{}).
		Post(c.baseURL + "/users/init")
	if err := check(res, err, "login"); err != nil {
		return nil, err
	}
	return session.Establish(token, user), nil
}

func (c *Client) CreateSearch(ctx context.Context, sess *session.Session, req models.CreateSearchRequest) (models.Search, error) {
	r, err := c.request(ctx, sess)
	if err != nil {
		return models.Search{}, err
	}
	req.OwnerID = sess.UserID

	var created models.Search
	res, err := r.SetBody(req).SetResult(&created).Post(c.baseURL + "/searches")
	if err := check(res, err, "create search"); err != nil {
		return models.Search{}, err
	}
	return created, nil
}

func (c *Client) ListSearches(ctx context.Context, sess *session.Session) ([]models.Search, error) {
	r, err := c.request(ctx, sess)
	if err != nil {
		return nil, err
	}

	var searches []models.Search
	res, err := r.SetQueryParam("ownerId", sess.UserID).SetResult(&searches).Get(c.baseURL + "/searches")
	if err := check(res, err, "list searches"); err != nil {
		return nil, err
	}
	return searches, nil
}

func (c *Client) GetSearch(ctx context.Context, sess *session.Session, searchID string) (models.Search, error) {
	r, err := c.request(ctx, sess)
	if err != nil {
		return models.Search{}, err
	}

	var search models.Search
	res, err := r.SetQueryParam("ownerId", sess.UserID).
		SetPathParam("id", searchID).
		SetResult(&search).
		Get(c.baseURL + "/searches/{id}")
	if err := check(res, err, "get search"); err != nil {
		return models.Search{}, err
	}
	return search, nil
}

func (c *Client) UpdateSearch(ctx context.Context, sess *session.Session, searchID string, req models.UpdateSearchRequest) (models.Search, error) {
	r, err := c.request(ctx, sess)
	if err != nil {
		return models.Search{}, err
	}
	req.OwnerID = sess.UserID

	var out models.UpdateSearchResponse
	res, err := r.SetPathParam("id", searchID).
		SetBody(req).
		SetResult(&out).
		Put(c.baseURL + "/searches/{id}")
	if err := check(res, err, "update search"); err != nil {
		return models.Search{}, err
	}
	return out.Search, nil
}

func (c *Client) DeleteSearch(ctx context.Context, sess *session.Session, searchID string) error {
	r, err := c.request(ctx, sess)
	if err != nil {
		return err
	}

	res, err := r.SetPathParam("id", searchID).
		SetBody(models.DeleteSearchRequest{OwnerID: sess.UserID, SearchID: searchID}).
		Delete(c.baseURL + "/searches/{id}")
	return check(res, err, "delete search")
}

func (c *Client) request(ctx context.Context, sess *session.Session) (*resty.Request, error) {
	if !sess.Active() || sess.Token == "" {
		return nil, domain.NewUnauthenticatedError()
	}
	return c.client.R().
		SetContext(ctx).
		SetAuthToken(sess.Token).
		SetError(&errorBody{}), nil
}

// check turns a response into the error the server meant. Only 400 messages are passed on.
func check(res *resty.Response, err error, op string) error {
	if err != nil {
		return errors.Wrap(err, op)
	}
	if !res.IsError() {
		return nil
	}

	switch res.StatusCode() {
	case http.StatusBadRequest:
		msg := "invalid request"
		if body, ok := res.Error().(*errorBody); ok && body.Error != "" {
			msg = body.Error
		}
		return domain.NewInvalidArgumentError(msg)
	case http.StatusUnauthorized:
		return domain.NewUnauthenticatedError()
	case http.StatusForbidden:
		return domain.NewForbiddenError()
	case http.StatusNotFound:
		return domain.NewNotFoundError("search")
	}
	return domain.NewPersistenceError(errors.Errorf("%s: unexpected status %d", op, res.StatusCode()))
}
