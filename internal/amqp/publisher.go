package amqp

import (
	"context"
	"fmt"
	"time"

	"purchases/internal/core"
	"purchases/internal/log"
)

const publishTimeout = 5 * time.Second

// Publisher sends purchase records to an exchange, one message per record.
type Publisher struct {
	ch         channel
	exchange   string
	routingKey string
	logger     *log.Logger
}

// PublishRecords publishes records in order and returns how many were sent
// before the first failure.
func (p *Publisher) PublishRecords(ctx context.Context, records []core.PurchaseRecord) (int, error) {
	for i, r := range records {
		msg, err := newRecordPublishing(r, time.Now())
		if err != nil {
			return i, fmt.Errorf("encode record %d: %w", i, err)
		}

		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		err = p.ch.PublishWithContext(
			pubCtx,
			p.exchange,   // exchange
			p.routingKey, // routing key
			false,        // mandatory
			false,        // immediate
			msg,
		)
		cancel()
		if err != nil {
			return i, fmt.Errorf("publish record %d: %w", i, err)
		}

		p.logger.DebugContext(ctx, "Published purchase record",
			"message_id", msg.MessageId,
			"customer", r.Customer.String(),
			"products", len(r.Products))
	}

	p.logger.InfoContext(ctx, "Published purchase records",
		log.FieldOperation, log.OpPublish,
		log.FieldRecords, len(records),
		"exchange", p.exchange,
		"routing_key", p.routingKey)
	return len(records), nil
}
