// Package mailer delivers location-alert email to QR code owners over
// SMTP.  Delivery is always best-effort: callers log failures and move
// on, a lost alert never fails a scan.
package mailer

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"
)

// Sender delivers a single location alert.  The queue consumer holds this
// interface so tests can substitute a recorder.
type Sender interface {
	SendLocationAlert(to, qrID string, latitude, longitude *string, scannedAt time.Time) error
}

var errNotConfigured = errors.New("smtp not configured")

// SMTP sends alert mail through a single SMTP account.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

// NewSMTP builds a mailer from SMTP settings.  An empty host yields a
// mailer that refuses every send; the consumer logs that and drops the
// alert instead of crashing a deployment without mail credentials.
func NewSMTP(host string, port int, user, pass, from string, logger *slog.Logger) *SMTP {
	if logger == nil {
		logger = slog.Default()
	}
	m := &SMTP{from: from, logger: logger}
	if host != "" {
		m.dialer = gomail.NewDialer(host, port, user, pass)
	}
	return m
}

func (m *SMTP) SendLocationAlert(to, qrID string, latitude, longitude *string, scannedAt time.Time) error {
	if m.dialer == nil {
		return errNotConfigured
	}
	subject, body := renderLocationAlert(qrID, latitude, longitude, scannedAt)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("send location alert failed", "to", to, "qr_id", qrID, "err", err)
		return err
	}
	m.logger.Info("location alert sent", "to", to, "qr_id", qrID)
	return nil
}

// renderLocationAlert builds the subject and plain-text body.  Kept as a
// pure function so the wording and the maps link are testable without an
// SMTP server.
func renderLocationAlert(qrID string, latitude, longitude *string, scannedAt time.Time) (subject, body string) {
	subject = "Foundee Alert: Your QR Code was Scanned"

	location := "Location not available"
	if latitude != nil && longitude != nil {
		location = fmt.Sprintf("Latitude: %s, Longitude: %s\nGoogle Maps: https://www.google.com/maps?q=%s,%s",
			*latitude, *longitude, *latitude, *longitude)
	}

	body = fmt.Sprintf(`Hello,

Your Foundee QR Code (ID: %s) was just scanned!

%s

Time: %s

If this was you, you can safely ignore this email.

Best regards,
Foundee Team
`, qrID, location, scannedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	return subject, body
}
