package notifiers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/propertylabs/rental-radar-alerts-sub000/data"
	"github.com/propertylabs/rental-radar-alerts-sub000/metrics"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
)

const (
	DefaultQueueSize     = 256
	DefaultFlushInterval = time.Minute
)

// Alert asks for a confirmation message telling the owner that alerts are on for a search.
type Alert struct {
	UserID     string
	SearchID   string
	SearchName string
}

type UserLookup interface {
	GetUsersByIDs(ctx context.Context, ids []string) ([]data.User, error)
}

// Dispatcher queues alert confirmations and delivers them in batches, one message per user.
// Delivery is fire-and-forget: failures are logged and counted, never retried.
type Dispatcher struct {
	messenger Messenger
	users     UserLookup
	queue     chan Alert
	interval  time.Duration
	appBase   string
}

func NewDispatcher(messenger Messenger, users UserLookup, interval time.Duration, appBase string) *Dispatcher {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &Dispatcher{
		messenger: messenger,
		users:     users,
		queue:     make(chan Alert, DefaultQueueSize),
		interval:  interval,
		appBase:   strings.TrimRight(appBase, "/"),
	}
}

// Enqueue never blocks. It reports false when the queue is full and the alert was dropped.
func (d *Dispatcher) Enqueue(alert Alert) bool {
	select {
	case d.queue <- alert:
		return true
	default:
		slog.Warn("dispatcher queue full, dropping alert", "userID", alert.UserID, "searchID", alert.SearchID)
		return false
	}
}

// Start flushes the queue on every tick until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := d.Flush(ctx); err != nil {
					slog.Error("failed to flush alerts", "error", err)
				}
			}
		}
	}()
}

// Flush delivers everything queued so far.
func (d *Dispatcher) Flush(ctx context.Context) error {
	pending := d.drain()
	if len(pending) == 0 {
		return nil
	}

	userAlerts := make(map[string][]Alert)
	userIDs := make([]string, 0, len(pending))
	for _, alert := range pending {
		if _, seen := userAlerts[alert.UserID]; !seen {
			userIDs = append(userIDs, alert.UserID)
		}
		userAlerts[alert.UserID] = append(userAlerts[alert.UserID], alert)
	}

	u, err := d.users.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return errors.Wrap(err, "flush alerts: get users by IDs")
	}
	users := make(map[string]data.User)
	for _, user := range u {
		users[user.WhopUserID] = user
	}

	for _, userID := range userIDs {
		user, ok := users[userID]
		if !ok {
			slog.Error("flush alerts: user not found", "userID", userID)
			metrics.MessagesSent.WithLabelValues("error").Inc()
			continue
		}

		msg := models.Message{
			To:      recipient(user),
			Message: d.confirmationText(userAlerts[userID]),
		}
		id, err := d.messenger.Send(ctx, msg)
		if err != nil {
			slog.Error("flush alerts: send confirmation", "userID", userID, "error", err)
			metrics.MessagesSent.WithLabelValues("error").Inc()
			continue
		}

		metrics.MessagesSent.WithLabelValues("ok").Inc()
		slog.Debug("alert confirmation sent", "userID", userID, "messageID", id)
	}

	return nil
}

func (d *Dispatcher) drain() []Alert {
	var pending []Alert
	for {
		select {
		case alert := <-d.queue:
			pending = append(pending, alert)
		default:
			return pending
		}
	}
}

func (d *Dispatcher) confirmationText(alerts []Alert) string {
	var text string
	if len(alerts) == 1 {
		text = fmt.Sprintf("Alerts are on for %q. We'll message you when new listings match.", alerts[0].SearchName)
	} else {
		names := make([]string, 0, len(alerts))
		for _, a := range alerts {
			names = append(names, fmt.Sprintf("%q", a.SearchName))
		}
		text = fmt.Sprintf("Alerts are on for %d searches: %s. We'll message you when new listings match.", len(alerts), strings.Join(names, ", "))
	}

	if d.appBase != "" {
		text += " Manage them at " + d.appBase + "/searches"
	}
	return text
}

// recipient prefers the email address and falls back to the membership user id, which the
// message API accepts directly.
func recipient(user data.User) string {
	if user.Email != "" {
		return user.Email
	}
	return user.WhopUserID
}
