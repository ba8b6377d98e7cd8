package model

import "time"

// ScanEvent mirrors the append-only `qr_usage` table.  One row is written
// for every scan of an existing QR code, whatever happens to the rest of
// the scan pipeline.  Latitude and longitude are opaque strings supplied
// by the scanning device.  ScannedBy is nil for anonymous scans.
type ScanEvent struct {
	ID        string
	QRID      string
	Latitude  *string
	Longitude *string
	ScannedBy *string
	CreatedAt time.Time
}
