package listener

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/hearthstock/shopping-service/internal/model"
	"github.com/hearthstock/shopping-service/internal/shoppinglist"
	"github.com/hearthstock/shopping-service/internal/shoppinglist/dto"
	"github.com/hearthstock/shopping-service/pkg/broker"
)

// SuggestionListener consumes suggestion-engine events and turns them
// into shopping-list needs with origin "suggestion".
type SuggestionListener struct {
	consumer *broker.KafkaConsumer
	uc       shoppinglist.UseCase
	logger   *zap.Logger
}

func NewSuggestionListener(consumer *broker.KafkaConsumer, uc shoppinglist.UseCase, logger *zap.Logger) *SuggestionListener {
	return &SuggestionListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *SuggestionListener) Start(ctx context.Context) {
	l.logger.Info("Starting suggestion Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping suggestion Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type SuggestionCreatedEvent struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	Payload   SuggestionPayload `json:"payload"`
	Timestamp time.Time         `json:"timestamp"`
}

type SuggestionPayload struct {
	HouseholdID string  `json:"household_id"`
	ListID      string  `json:"list_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Reason      string  `json:"reason"`
}

func (l *SuggestionListener) processMessage(ctx context.Context, value []byte) {
	var event SuggestionCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "SuggestionCreated" {
		return
	}

	l.logger.Info("Processing SuggestionCreated event",
		zap.String("list_id", event.Payload.ListID),
		zap.String("product_id", event.Payload.ProductID),
	)

	input := &dto.AddItemInput{
		ListID:      event.Payload.ListID,
		ProductID:   event.Payload.ProductID,
		ProductName: event.Payload.ProductName,
		Quantity:    event.Payload.Quantity,
		Unit:        event.Payload.Unit,
		Reason:      event.Payload.Reason,
		Origin:      model.OriginSuggestion,
	}

	if _, err := l.uc.AddItem(ctx, input); err != nil {
		l.logger.Error("Failed to add suggested item",
			zap.String("list_id", event.Payload.ListID),
			zap.String("product_id", event.Payload.ProductID),
			zap.Error(err),
		)
	}
}
