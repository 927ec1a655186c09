package notifiers

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/google/uuid"

	"github.com/propertylabs/rental-radar-alerts-sub000/models"
)

//go:embed templates/alert_confirmation.html
var emailTemplates embed.FS

var alertTemplates = template.Must(template.New("emails").ParseFS(emailTemplates, "templates/*.html"))

const alertSubject = "Rental Radar: alerts are on"

// Mailer delivers messages as HTML email over SMTP.
type Mailer struct {
	smtpHost string
	smtpPort string
	from     string
	password string
	appBase  string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(smtpHost, smtpPort, from, password, appBase string) *Mailer {
	return &Mailer{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		from:     from,
		password: password,
		appBase:  strings.TrimRight(appBase, "/"),
		send:     smtp.SendMail,
	}
}

func (m *Mailer) AlertEmail(msg models.Message) (models.Email, error) {
	var buf bytes.Buffer
	tmplData := struct {
		Message      string
		DashboardURL string
	}{
		Message:      msg.Message,
		DashboardURL: m.dashboardURL(),
	}
	if err := alertTemplates.ExecuteTemplate(&buf, "alert_confirmation.html", tmplData); err != nil {
		return models.Email{}, fmt.Errorf("render alert template: %w", err)
	}

	return models.Email{
		To:      msg.To,
		Subject: alertSubject,
		Body:    buf.String(),
	}, nil
}

// Send renders msg into an email and delivers it. SMTP has no message id, so a local one is
// generated for the receipt.
func (m *Mailer) Send(_ context.Context, msg models.Message) (string, error) {
	if !strings.Contains(msg.To, "@") {
		return "", fmt.Errorf("send email: recipient %q is not an email address", msg.To)
	}

	mail, err := m.AlertEmail(msg)
	if err != nil {
		return "", err
	}
	if err := m.Deliver(mail); err != nil {
		return "", err
	}

	return uuid.NewString(), nil
}

func (m *Mailer) Deliver(mail models.Email) error {
	message := fmt.Sprintf(`From: Rental Radar <%s>
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, m.from, mail.To, mail.Subject, mail.Body)

	auth := smtp.PlainAuth("", m.from, m.password, m.smtpHost)
	addr := fmt.Sprintf("%s:%s", m.smtpHost, m.smtpPort)
	err := m.send(addr, auth, m.from, []string{mail.To}, []byte(message))
	if err != nil {
		slog.Error("Failed to send email", "error", err)
		return err
	}

	slog.Info("email sent", "recipient", mail.To, "subject", mail.Subject)
	return nil
}

func (m *Mailer) dashboardURL() string {
	if m.appBase == "" {
		return ""
	}

	return m.appBase + "/searches"
}
