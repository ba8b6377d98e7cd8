package mailer

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRenderLocationAlertWithLocation(t *testing.T) {
	lat, lng := "12.9716", "77.5946"
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	subject, body := renderLocationAlert("qr-123", &lat, &lng, at)

	if subject != "Foundee Alert: Your QR Code was Scanned" {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{
		"qr-123",
		"Latitude: 12.9716, Longitude: 77.5946",
		"https://www.google.com/maps?q=12.9716,77.5946",
		"2026-03-14 09:26:53 UTC",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestRenderLocationAlertWithoutLocation(t *testing.T) {
	lat := "12.9716"
	// Both coordinates are required; one alone is useless.
	for _, tc := range []struct {
		name     string
		lat, lng *string
	}{
		{"none", nil, nil},
		{"latitude only", &lat, nil},
		{"longitude only", nil, &lat},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, body := renderLocationAlert("qr-123", tc.lat, tc.lng, time.Now())
			if !strings.Contains(body, "Location not available") {
				t.Errorf("body missing fallback:\n%s", body)
			}
			if strings.Contains(body, "google.com/maps") {
				t.Errorf("maps link present without full coordinates")
			}
		})
	}
}

func TestUnconfiguredSMTPRefusesSend(t *testing.T) {
	m := NewSMTP("", 0, "", "", "noreply@example.com", nil)
	err := m.SendLocationAlert("to@example.com", "qr-1", nil, nil, time.Now())
	if !errors.Is(err, errNotConfigured) {
		t.Fatalf("err = %v, want errNotConfigured", err)
	}
}
