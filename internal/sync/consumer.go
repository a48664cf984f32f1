package sync

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/logger"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/metrics"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/outbox/idempotency"
)

const syncConsumerName = "sync-worker"

// Consumer drains the intake change stream and hands entries to the service.
type Consumer struct {
	service      Service
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	metrics      *metrics.TrackingMetrics
	logg         *logger.Logger
}

// NewConsumer builds an intake change-stream consumer. Metrics may be nil.
func NewConsumer(service Service, subscription *pubsub.Subscriber, manager *idempotency.Manager, trackingMetrics *metrics.TrackingMetrics, logg *logger.Logger) (*Consumer, error) {
	if service == nil {
		return nil, fmt.Errorf("sync service required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("comandas subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		service:      service,
		subscription: subscription,
		idempotency:  manager,
		metrics:      trackingMetrics,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id":  msg.ID,
		"change_type": msg.Attributes["change_type"],
	})

	var change ChangeEnvelope
	if err := json.Unmarshal(msg.Data, &change); err != nil {
		// a malformed entry never becomes valid on redelivery
		c.logg.Error(logCtx, "sync: failed to decode change envelope", err)
		c.metrics.IncSyncEvent(msg.Attributes["change_type"], "decode_error")
		return processResult{ack: true}
	}

	if change.EventID == uuid.Nil {
		c.logg.Warn(logCtx, "sync: change entry missing event id")
		c.metrics.IncSyncEvent(string(change.ChangeType), "invalid")
		return processResult{ack: true}
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"event_id":     change.EventID.String(),
		"comanda_id":   change.Comanda.ID.String(),
		"numero_orden": change.Comanda.NumeroOrden,
	})

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, syncConsumerName, change.EventID)
	if err != nil {
		c.logg.Error(logCtx, "sync: idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "sync: change already processed")
		c.metrics.IncSyncEvent(string(change.ChangeType), "duplicate")
		return processResult{ack: true}
	}

	if err := c.service.ProcessChange(ctx, change); err != nil {
		c.logg.Error(logCtx, "sync: change processing failed", err)
		_ = c.idempotency.Delete(ctx, syncConsumerName, change.EventID)
		c.metrics.IncSyncEvent(string(change.ChangeType), "error")
		return processResult{nack: true}
	}

	c.logg.Info(logCtx, "sync: change applied")
	c.metrics.IncSyncEvent(string(change.ChangeType), "ok")
	return processResult{ack: true}
}
