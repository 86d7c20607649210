package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Handler processes one decoded event. A returned error triggers a retry.
type Handler func(ctx context.Context, event *Event) error

// ErrMalformedEvent marks payloads that can never be decoded.
var ErrMalformedEvent = errors.New("malformed event")

const (
	poisonTopicName     = "poison"
	routerCloseTimeout  = 10 * time.Second
	defaultMaxRetries   = 2
	defaultRetryBackoff = 200 * time.Millisecond
)

// PoisonTopic is where events that failed every attempt, or could not be
// decoded, are parked.
func PoisonTopic(prefix string) string {
	return Topic(prefix, EventType(poisonTopicName))
}

// Consumer routes events from the subscriber to registered handlers
// through a watermill router.
type Consumer struct {
	pubSub      *PubSub
	topicPrefix string
	logger      *slog.Logger
	wmLogger    watermill.LoggerAdapter
	handlers    map[EventType]Handler

	retry middleware.Retry
	done  chan struct{}
}

func NewConsumer(pubSub *PubSub, topicPrefix string, logger *slog.Logger) *Consumer {
	wmLogger := watermill.NewSlogLogger(logger)
	return &Consumer{
		pubSub:      pubSub,
		topicPrefix: topicPrefix,
		logger:      logger,
		wmLogger:    wmLogger,
		handlers:    make(map[EventType]Handler),
		retry: middleware.Retry{
			MaxRetries:      defaultMaxRetries,
			InitialInterval: defaultRetryBackoff,
			Multiplier:      2,
			Logger:          wmLogger,
		},
	}
}

// Handle registers h for eventType. Must be called before Start.
func (c *Consumer) Handle(eventType EventType, h Handler) {
	c.handlers[eventType] = h
}

// Start runs the router until ctx is cancelled. Subscriptions are live when
// Start returns.
func (c *Consumer) Start(ctx context.Context) error {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: routerCloseTimeout}, c.wmLogger)
	if err != nil {
		return fmt.Errorf("create event router: %w", err)
	}

	poisonTopic := PoisonTopic(c.topicPrefix)
	exhausted, err := middleware.PoisonQueue(c.pubSub.Publisher, poisonTopic)
	if err != nil {
		return fmt.Errorf("create poison queue: %w", err)
	}
	malformed, err := middleware.PoisonQueueWithFilter(c.pubSub.Publisher, poisonTopic, func(err error) bool {
		return errors.Is(err, ErrMalformedEvent)
	})
	if err != nil {
		return fmt.Errorf("create malformed queue: %w", err)
	}

	// Outermost first: malformed payloads skip the retries
	router.AddMiddleware(
		exhausted,
		c.retry.Middleware,
		malformed,
		middleware.Recoverer,
	)

	for eventType, handler := range c.handlers {
		topic := Topic(c.topicPrefix, eventType)
		router.AddNoPublisherHandler(topic, topic, c.pubSub.Subscriber, c.dispatch(handler))
		c.logger.Info("Event consumer subscribed", "topic", topic)
	}

	c.done = make(chan struct{})
	go func() {
		defer close(c.done)
		if err := router.Run(ctx); err != nil {
			c.logger.Error("Event router stopped", "error", err)
		}
	}()

	select {
	case <-router.Running():
		return nil
	case <-c.done:
		return errors.New("event router stopped before running")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until the router has shut down.
func (c *Consumer) Wait() {
	if c.done != nil {
		<-c.done
	}
}

func (c *Consumer) dispatch(handler Handler) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		var event Event
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			c.logger.Error("Parking malformed event", "message_uuid", msg.UUID, "error", err)
			return fmt.Errorf("%w: %w", ErrMalformedEvent, err)
		}

		if err := handler(msg.Context(), &event); err != nil {
			c.logger.Warn("Event handler failed", "event_id", event.ID, "type", event.Type, "error", err)
			return err
		}
		return nil
	}
}
