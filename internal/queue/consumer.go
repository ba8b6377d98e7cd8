package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kashmirakothariai/Foundee/internal/mailer"
)

// StartScanAlertConsumer connects to RabbitMQ, declares the qr.scanned
// queue (durable), and consumes events, sending one location-alert email
// per message.  It runs a reconnect loop with capped backoff and never
// returns under normal operation; messages that cannot be processed are
// rejected without requeue so one bad payload cannot wedge the queue.
func StartScanAlertConsumer(brokerURL string, sender mailer.Sender, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL)
		if err != nil {
			logger.Warn("scan-consumer: dial failed", "err", err, "retry_in", backoff.String())
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, sender, logger); err != nil {
			logger.Warn("scan-consumer: consume loop ended, reconnecting", "err", err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, sender mailer.Sender, logger *slog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warn("scan-consumer: set QoS failed", "err", err)
	}

	if _, err := ch.QueueDeclare(ScanQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(ScanQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleScanAlert(d.Body, sender); err != nil {
			logger.Error("scan-consumer: alert delivery failed", "err", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleScanAlert(body []byte, sender mailer.Sender) error {
	var ev QRScannedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}
	if ev.OwnerEmail == "" {
		return errors.New("event missing owner email")
	}
	scannedAt, err := time.Parse(time.RFC3339, ev.ScannedAt)
	if err != nil {
		scannedAt = time.Now().UTC()
	}
	return sender.SendLocationAlert(ev.OwnerEmail, ev.QRID, ev.Latitude, ev.Longitude, scannedAt)
}
