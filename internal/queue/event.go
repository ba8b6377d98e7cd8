// Package queue defines message payloads exchanged over the message
// broker and the background consumer that turns them into owner alerts.
package queue

// ScanQueueName is the durable queue carrying scan alerts from the HTTP
// handlers to the mail consumer.
const ScanQueueName = "qr.scanned"

// QRScannedEvent is published when a bound QR code is scanned by someone
// other than its owner.  It carries everything the alert consumer needs
// so that mail delivery never has to query the primary database.
type QRScannedEvent struct {
	QRID       string  `json:"qr_id"`
	OwnerEmail string  `json:"owner_email"`
	Latitude   *string `json:"latitude,omitempty"`
	Longitude  *string `json:"longitude,omitempty"`
	ScannedAt  string  `json:"scanned_at"`
}
