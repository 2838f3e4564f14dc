package amqp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rabbitmq/amqp091-go"

	"purchases/internal/core"
	"purchases/internal/log"
	"purchases/internal/sources"
)

var (
	_ sources.Loader  = (*QueueLoader)(nil)
	_ sources.Settler = (*QueueLoader)(nil)
)

// QueueLoader reads every message currently in a queue, one purchase record
// per message. A batch that fails to decode is requeued at once. A decoded
// batch stays unacknowledged until Settle: accepted messages are acked,
// rejected ones go back to the queue.
type QueueLoader struct {
	ch     channel
	queue  string
	logger *log.Logger

	mu      sync.Mutex
	pending []amqp091.Delivery
}

func (l *QueueLoader) Name() string {
	return "amqp:" + l.queue
}

func (l *QueueLoader) Load(ctx context.Context) ([]core.PurchaseRecord, error) {
	var (
		deliveries []amqp091.Delivery
		records    []core.PurchaseRecord
		loadErr    error
	)

	for {
		if err := ctx.Err(); err != nil {
			loadErr = err
			break
		}
		d, ok, err := l.ch.Get(l.queue, false)
		if err != nil {
			loadErr = fmt.Errorf("get message: %w", err)
			break
		}
		if !ok {
			break
		}
		deliveries = append(deliveries, d)

		rec, err := recordFromDelivery(d)
		if err != nil {
			loadErr = fmt.Errorf("message %s: %w", messageRef(d), err)
			break
		}
		records = append(records, rec)
	}

	if loadErr != nil {
		l.requeue(ctx, deliveries)
		return nil, &core.SourceError{Source: l.Name(), Err: loadErr}
	}

	l.mu.Lock()
	l.pending = append(l.pending, deliveries...)
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "Drained purchase queue",
		log.FieldOperation, log.OpLoad,
		log.FieldSource, l.Name(),
		log.FieldRecords, len(records))
	return records, nil
}

// Settle acks every message returned by Load since the last Settle when
// accept is true, and requeues them otherwise.
func (l *QueueLoader) Settle(ctx context.Context, accept bool) error {
	l.mu.Lock()
	deliveries := l.pending
	l.pending = nil
	l.mu.Unlock()

	if !accept {
		l.requeue(ctx, deliveries)
		l.logger.InfoContext(ctx, "Requeued rejected purchase batch", log.FieldSource, l.Name(), log.FieldRecords, len(deliveries))
		return nil
	}

	var errs []error
	for _, d := range deliveries {
		if err := d.Ack(false); err != nil {
			errs = append(errs, fmt.Errorf("ack message %s: %w", messageRef(d), err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return &core.SourceError{Source: l.Name(), Err: err}
	}
	return nil
}

func (l *QueueLoader) requeue(ctx context.Context, deliveries []amqp091.Delivery) {
	for _, d := range deliveries {
		if err := d.Nack(false, true); err != nil {
			l.logger.WarnContext(ctx, "Failed to requeue message",
				log.FieldSource, l.Name(),
				"message", messageRef(d),
				log.FieldError, err)
		}
	}
}

func messageRef(d amqp091.Delivery) string {
	if d.MessageId != "" {
		return d.MessageId
	}
	return fmt.Sprintf("#%d", d.DeliveryTag)
}
