package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/eatwise/eatwise-backend/pkg/db/models"
	"github.com/eatwise/eatwise-backend/pkg/logger"
	"github.com/eatwise/eatwise-backend/pkg/metrics"
	"github.com/eatwise/eatwise-backend/pkg/pubsub"
	"github.com/google/uuid"
)

const (
	EventFoodItemSubmitted = "food_item.submitted"

	defaultPublishTimeout = 5 * time.Second
)

// SubmittedEvent is the payload published for every newly created food item.
type SubmittedEvent struct {
	Type        string    `json:"type"`
	EventID     string    `json:"eventId"`
	FoodItemID  uuid.UUID `json:"foodItemId"`
	Name        string    `json:"name"`
	Barcode     *string   `json:"barcode,omitempty"`
	Source      string    `json:"source"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Notifier queues submitted items for moderation. FoodItemSubmitted must not
// block the caller on the broker; Drain waits for in-flight publishes.
type Notifier interface {
	FoodItemSubmitted(ctx context.Context, item models.FoodItem)
	Drain(ctx context.Context) error
}

type pubsubNotifier struct {
	publisher pubsub.Publisher
	logg      *logger.Logger
	metrics   *metrics.FoodMetrics
	timeout   time.Duration
	now       func() time.Time
	newID     func() uuid.UUID
	inflight  sync.WaitGroup
}

// NewNotifier publishes moderation events through publisher. Failures are
// logged and counted, never returned.
func NewNotifier(publisher pubsub.Publisher, logg *logger.Logger, m *metrics.FoodMetrics) (Notifier, error) {
	if publisher == nil {
		return nil, errors.New("publisher required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &pubsubNotifier{
		publisher: publisher,
		logg:      logg,
		metrics:   m,
		timeout:   defaultPublishTimeout,
		now:       time.Now,
		newID:     uuid.New,
	}, nil
}

func (n *pubsubNotifier) FoodItemSubmitted(ctx context.Context, item models.FoodItem) {
	event := SubmittedEvent{
		Type:        EventFoodItemSubmitted,
		EventID:     n.newID().String(),
		FoodItemID:  item.ID,
		Name:        item.Name,
		Barcode:     item.Barcode,
		Source:      item.Source,
		SubmittedAt: n.now().UTC(),
	}
	ctx = n.logg.WithFields(ctx, map[string]any{
		"event_type":   event.Type,
		"event_id":     event.EventID,
		"food_item_id": item.ID.String(),
	})

	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		if err := n.publish(ctx, event); err != nil {
			n.metrics.IncModeration(metrics.OutcomeFailed)
			n.logg.Error(ctx, "moderation event publish failed", err)
			return
		}
		n.metrics.IncModeration(metrics.OutcomePublished)
		n.logg.Info(ctx, "moderation event published")
	}()
}

// Drain blocks until every queued publish has finished or ctx is done.
func (n *pubsubNotifier) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("draining moderation events: %w", ctx.Err())
	}
}

func (n *pubsubNotifier) publish(ctx context.Context, event SubmittedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal moderation event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	result := n.publisher.Publish(publishCtx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_type":   event.Type,
			"event_id":     event.EventID,
			"food_item_id": event.FoodItemID.String(),
		},
	})
	if result == nil {
		return errors.New("publisher returned no result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// Noop is used when no moderation topic is configured.
type Noop struct{}

func (Noop) FoodItemSubmitted(context.Context, models.FoodItem) {}

func (Noop) Drain(context.Context) error { return nil }
