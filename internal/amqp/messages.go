package amqp

import (
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"purchases/internal/core"
	"purchases/internal/sources"
)

const contentType = "application/json"

// newRecordPublishing wraps one purchase record as a persistent JSON message.
func newRecordPublishing(r core.PurchaseRecord, now time.Time) (amqp091.Publishing, error) {
	body, err := sources.EncodeRecord(r)
	if err != nil {
		return amqp091.Publishing{}, err
	}
	return amqp091.Publishing{
		ContentType:  contentType,
		DeliveryMode: amqp091.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    now,
		Body:         body,
	}, nil
}

// recordFromDelivery decodes a message body into a purchase record.
func recordFromDelivery(d amqp091.Delivery) (core.PurchaseRecord, error) {
	return sources.DecodeRecord(d.Body)
}
