package queue

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type recordingSender struct {
	to        string
	qrID      string
	latitude  *string
	longitude *string
	scannedAt time.Time
	calls     int
	err       error
}

func (r *recordingSender) SendLocationAlert(to, qrID string, latitude, longitude *string, scannedAt time.Time) error {
	r.calls++
	r.to, r.qrID = to, qrID
	r.latitude, r.longitude = latitude, longitude
	r.scannedAt = scannedAt
	return r.err
}

func TestHandleScanAlert(t *testing.T) {
	lat, lng := "1.5", "2.5"
	ev := QRScannedEvent{
		QRID:       "qr-1",
		OwnerEmail: "owner@example.com",
		Latitude:   &lat,
		Longitude:  &lng,
		ScannedAt:  "2026-03-14T09:26:53Z",
	}
	body, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}

	s := &recordingSender{}
	if err := handleScanAlert(body, s); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if s.calls != 1 || s.to != "owner@example.com" || s.qrID != "qr-1" {
		t.Fatalf("sender saw %+v", s)
	}
	if s.latitude == nil || *s.latitude != "1.5" {
		t.Errorf("latitude = %v", s.latitude)
	}
	want := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	if !s.scannedAt.Equal(want) {
		t.Errorf("scannedAt = %v, want %v", s.scannedAt, want)
	}
}

func TestHandleScanAlertBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{{{`},
		{"missing owner email", `{"qr_id":"qr-1","scanned_at":"2026-03-14T09:26:53Z"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &recordingSender{}
			if err := handleScanAlert([]byte(tt.body), s); err == nil {
				t.Fatalf("expected error")
			}
			if s.calls != 0 {
				t.Fatalf("sender called for bad payload")
			}
		})
	}
}

// An unparseable timestamp degrades to "now" instead of dropping the alert.
func TestHandleScanAlertBadTimestamp(t *testing.T) {
	body := `{"qr_id":"qr-1","owner_email":"owner@example.com","scanned_at":"yesterday"}`
	s := &recordingSender{}
	before := time.Now().UTC()
	if err := handleScanAlert([]byte(body), s); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if s.calls != 1 {
		t.Fatalf("sender not called")
	}
	if s.scannedAt.Before(before.Add(-time.Second)) {
		t.Errorf("scannedAt = %v, want roughly now", s.scannedAt)
	}
}

func TestHandleScanAlertSenderFailure(t *testing.T) {
	body := `{"qr_id":"qr-1","owner_email":"owner@example.com","scanned_at":"2026-03-14T09:26:53Z"}`
	s := &recordingSender{err: errors.New("smtp down")}
	if err := handleScanAlert([]byte(body), s); err == nil {
		t.Fatalf("sender failure must propagate so the message is rejected")
	}
}
