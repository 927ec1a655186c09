package notifiers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertylabs/rental-radar-alerts-sub000/data"
	"github.com/propertylabs/rental-radar-alerts-sub000/metrics"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
)

type fakeMessenger struct {
	sent []models.Message
	err  error
}

func (f *fakeMessenger) Send(_ context.Context, msg models.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "msg-1", nil
}

type fakeUsers struct {
	users []data.User
	err   error
	asked []string
}

func (f *fakeUsers) GetUsersByIDs(_ context.Context, ids []string) ([]data.User, error) {
	f.asked = ids
	if f.err != nil {
		return nil, f.err
	}
	var out []data.User
	for _, u := range f.users {
		for _, id := range ids {
			if u.WhopUserID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func messagesSent(t *testing.T, result string) float64 {
	var m dto.Metric
	var c prometheus.Counter = metrics.MessagesSent.WithLabelValues(result)
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestDispatcher_FlushGroupsByUser(t *testing.T) {
	messenger := &fakeMessenger{}
	users := &fakeUsers{users: []data.User{
		{WhopUserID: "user_1", Email: "one@example.com"},
		{WhopUserID: "user_2"},
	}}
	d := NewDispatcher(messenger, users, time.Minute, "https://app.example.com/")
	okBefore := messagesSent(t, "ok")

	require.True(t, d.Enqueue(Alert{UserID: "user_1", SearchID: "a", SearchName: "City Flat"}))
	require.True(t, d.Enqueue(Alert{UserID: "user_2", SearchID: "b", SearchName: "Rooms"}))
	require.True(t, d.Enqueue(Alert{UserID: "user_1", SearchID: "c", SearchName: "Houses"}))

	require.NoError(t, d.Flush(context.Background()))

	assert.Equal(t, []string{"user_1", "user_2"}, users.asked)
	require.Len(t, messenger.sent, 2)

	assert.Equal(t, "one@example.com", messenger.sent[0].To)
	assert.Contains(t, messenger.sent[0].Message, "2 searches")
	assert.Contains(t, messenger.sent[0].Message, `"City Flat", "Houses"`)
	assert.Contains(t, messenger.sent[0].Message, "https://app.example.com/searches")

	assert.Equal(t, "user_2", messenger.sent[1].To)
	assert.Contains(t, messenger.sent[1].Message, `Alerts are on for "Rooms".`)

	assert.Equal(t, okBefore+2, messagesSent(t, "ok"))

	messenger.sent = nil
	require.NoError(t, d.Flush(context.Background()))
	assert.Empty(t, messenger.sent, "queue is drained")
}

func TestDispatcher_SendFailureIsCounted(t *testing.T) {
	messenger := &fakeMessenger{err: errors.New("provider down")}
	users := &fakeUsers{users: []data.User{{WhopUserID: "user_1", Email: "one@example.com"}}}
	d := NewDispatcher(messenger, users, time.Minute, "")
	errBefore := messagesSent(t, "error")

	d.Enqueue(Alert{UserID: "user_1", SearchName: "City Flat"})
	d.Enqueue(Alert{UserID: "ghost", SearchName: "Gone"})
	require.NoError(t, d.Flush(context.Background()))

	assert.Equal(t, errBefore+2, messagesSent(t, "error"))
}

func TestDispatcher_UserLookupFailure(t *testing.T) {
	d := NewDispatcher(&fakeMessenger{}, &fakeUsers{err: errors.New("db down")}, time.Minute, "")
	d.Enqueue(Alert{UserID: "user_1"})

	err := d.Flush(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get users by IDs")
}

func TestDispatcher_EnqueueDropsWhenFull(t *testing.T) {
	d := NewDispatcher(&fakeMessenger{}, &fakeUsers{}, time.Minute, "")
	for i := 0; i < DefaultQueueSize; i++ {
		require.True(t, d.Enqueue(Alert{UserID: "user_1"}))
	}
	assert.False(t, d.Enqueue(Alert{UserID: "user_1"}))
}

func TestAPIMessenger_Send(t *testing.T) {
	var got models.Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer server.Close()

	m := NewAPIMessenger(server.URL+"/messages", "secret", server.Client())
	id, err := m.Send(context.Background(), models.Message{To: "user_1", Message: "hello"})

	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)
	assert.Equal(t, models.Message{To: "user_1", Message: "hello"}, got)
}

func TestAPIMessenger_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	m := NewAPIMessenger(server.URL, "", server.Client())
	_, err := m.Send(context.Background(), models.Message{To: "user_1", Message: "hello"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestMailer_Send(t *testing.T) {
	m := NewMailer("smtp.example.com", "587", "alerts@example.com", "pw", "https://app.example.com")

	var sentTo []string
	var body string
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		assert.Equal(t, "smtp.example.com:587", addr)
		assert.Equal(t, "alerts@example.com", from)
		sentTo = to
		body = string(msg)
		return nil
	}

	id, err := m.Send(context.Background(), models.Message{To: "one@example.com", Message: "Alerts are on"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, []string{"one@example.com"}, sentTo)
	assert.Contains(t, body, "Subject: "+alertSubject)
	assert.Contains(t, body, "Alerts are on")
	assert.Contains(t, body, "https://app.example.com/searches")

	_, err = m.Send(context.Background(), models.Message{To: "user_1", Message: "x"})
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "not an email address"))
}
