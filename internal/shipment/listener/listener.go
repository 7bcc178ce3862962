package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/fekuna/omnipos-shop-service/internal/shipment"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// ShipmentListener schedules a dispatch for every shippable OrderCreated event.
type ShipmentListener struct {
	consumer  MessageReader
	scheduler shipment.Scheduler
	backoff   time.Duration
	logger    logger.ZapLogger
}

func NewShipmentListener(consumer MessageReader, scheduler shipment.Scheduler, logger logger.ZapLogger) *ShipmentListener {
	return &ShipmentListener{
		consumer:  consumer,
		scheduler: scheduler,
		backoff:   time.Second,
		logger:    logger,
	}
}

func (l *ShipmentListener) Start(ctx context.Context) {
	l.logger.Info("Starting Shipment Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Shipment Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(msg.Value)
		}
	}
}

func (l *ShipmentListener) processMessage(value []byte) {
	var event model.OrderEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != model.EventOrderCreated || !event.Payload.Shippable {
		return
	}

	l.logger.Info("Processing OrderCreated event",
		zap.String("order_id", event.Payload.ID),
		zap.String("order_number", event.Payload.OrderNumber),
	)
	if !l.scheduler.Schedule(event.Payload.ID) {
		l.logger.Warn("Shipment dispatch not scheduled", zap.String("order_id", event.Payload.ID))
	}
}
