package notifiers

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/propertylabs/rental-radar-alerts-sub000/models"
)

// Messenger delivers a single outbound message and returns the provider's message id.
type Messenger interface {
	Send(ctx context.Context, msg models.Message) (string, error)
}

// APIMessenger posts messages to an HTTP message API as {to, message} and reads back {id}.
type APIMessenger struct {
	client *resty.Client
	url    string
}

func NewAPIMessenger(url, apiKey string, httpClient *http.Client) *APIMessenger {
	client := resty.NewWithClient(httpClient).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}

	return &APIMessenger{client: client, url: url}
}

func (m *APIMessenger) Send(ctx context.Context, msg models.Message) (string, error) {
	var receipt models.MessageReceipt
	res, err := m.client.R().
		SetContext(ctx).
		SetBody(msg).
		SetResult(&receipt).
		Post(m.url)
	if err != nil {
		return "", errors.Wrap(err, "send message")
	}
	if res.IsError() {
		return "", errors.Errorf("send message: unexpected status %d", res.StatusCode())
	}

	return receipt.ID, nil
}
