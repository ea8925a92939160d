package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aarushkx/speak-free/internal/events"
)

// NotificationService reacts to domain events. Today it only records them.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventUserVerified, n.logEvent)
	n.dispatcher.Subscribe(events.EventAcceptingToggled, n.logEvent)
	n.dispatcher.Subscribe(events.EventMessageReceived, n.handleMessageReceived)
	n.dispatcher.Subscribe(events.EventMessagesCleared, n.logEvent)
	n.dispatcher.Subscribe(events.EventAccountDeleted, n.logEvent)
}

func (n *NotificationService) handleUserRegistered(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.UserRegisteredPayload)
	n.logger.Info("UserRegistered",
		zap.String("user_id", event.UserID),
		zap.String("username", payload.Username),
		zap.Bool("resent", payload.Resent))
	return nil
}

func (n *NotificationService) handleMessageReceived(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.MessageReceivedPayload)
	n.logger.Info("MessageReceived",
		zap.String("user_id", event.UserID),
		zap.String("message_id", payload.MessageID),
		zap.Int("length", payload.Length))
	return nil
}

func (n *NotificationService) logEvent(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("user_id", event.UserID),
		zap.Any("payload", event.Payload))
	return nil
}

// publishEvent hands evt to dispatcher; failures never reach the caller.
func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, evt events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, evt); err != nil {
		logger.Warn("publish event", zap.String("event_type", string(evt.Type)), zap.Error(err))
	}
}
