package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"uno-qr-menu/pkg/models"
	"uno-qr-menu/pkg/rabbitmq"

	"github.com/google/uuid"
)

// publishChange pushes a ChangeEvent to the changefeed exchange. A publish
// failure never fails the write that produced it; subscribers have the
// periodic reload as a correctness backstop.
func (g *Gateway) publishChange(table, changeType string, rowID uuid.UUID) {
	ev := models.ChangeEvent{
		Table:      table,
		Type:       changeType,
		RowID:      rowID,
		OccurredAt: time.Now().UTC(),
	}

	body, err := json.Marshal(ev)
	if err != nil {
		g.logger.Error("", "changefeed_marshal_failed", "Failed to marshal change event", err)
		return
	}

	if err := g.mq.PublishMessage(rabbitmq.ChangefeedExchange, "", body); err != nil {
		g.logger.Error("", "changefeed_publish_failed",
			fmt.Sprintf("Failed to publish %s %s event", table, changeType), err)
	}
}

// Subscribe binds an exclusive queue to the changefeed exchange and invokes
// handler for every change event until ctx is cancelled.
func (g *Gateway) Subscribe(ctx context.Context, handler func(models.ChangeEvent)) error {
	queueName, err := g.mq.DeclareChangefeedQueue()
	if err != nil {
		return err
	}

	messages, err := g.mq.Channel.Consume(
		queueName, // queue
		"",        // consumer
		true,      // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming messages: %w", err)
	}

	g.logger.Info("startup", "changefeed_subscribed", "Subscribed to change notifications")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("changefeed channel closed")
			}
			var ev models.ChangeEvent
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				g.logger.Error("", "changefeed_decode_failed", "Failed to decode change event", err)
				continue
			}
			handler(ev)
		}
	}
}
