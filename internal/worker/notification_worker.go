package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/job-tracker/internal/events"
	"github.com/spec-kit/job-tracker/internal/service"
)

// ErrQueueFull is returned by Publish when the worker cannot accept more events.
var ErrQueueFull = errors.New("notification queue full")

const deliveryTimeout = 10 * time.Second

// NotificationWorker is an events.Dispatcher that queues published events
// and delivers them to the inner dispatcher's handlers on its own goroutine.
type NotificationWorker struct {
	inner  events.Dispatcher
	queue  chan events.Event
	logger *zap.Logger
	done   chan struct{}
}

// NewNotificationWorker wraps inner with a queue of the given size.
func NewNotificationWorker(inner events.Dispatcher, buffer int, logger *zap.Logger) *NotificationWorker {
	if buffer <= 0 {
		buffer = 64
	}
	return &NotificationWorker{
		inner:  inner,
		queue:  make(chan events.Event, buffer),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Subscribe registers a handler on the inner dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.inner.Subscribe(eventType, handler)
}

// Publish enqueues event without waiting for delivery.
func (w *NotificationWorker) Publish(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
		return nil
	default:
		w.logger.Warn("notification queue full; dropping event", zap.String("type", string(event.Type)))
		return ErrQueueFull
	}
}

// Run delivers queued events until ctx is cancelled, then drains what is left.
func (w *NotificationWorker) Run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case event := <-w.queue:
			w.deliver(event)
		case <-ctx.Done():
			for {
				select {
				case event := <-w.queue:
					w.deliver(event)
				default:
					return
				}
			}
		}
	}
}

// Done is closed once Run has returned.
func (w *NotificationWorker) Done() <-chan struct{} {
	return w.done
}

func (w *NotificationWorker) deliver(event events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()
	if err := w.inner.Publish(ctx, event); err != nil {
		w.logger.Warn("notification delivery failed",
			zap.String("type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}

// StartNotificationWorker registers notification handlers and starts delivery.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, w *NotificationWorker) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	go w.Run(ctx)
}
