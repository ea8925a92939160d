package events

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Broker publishes raw payloads to a named channel.
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// fanoutDispatcher forwards every event to a broker after local delivery.
type fanoutDispatcher struct {
	Dispatcher
	broker  Broker
	channel string
	logger  *zap.Logger
}

// WithBroker wraps next so published events are also sent to channel.
// A nil broker returns next unchanged. Broker failures are logged only.
func WithBroker(next Dispatcher, broker Broker, channel string, logger *zap.Logger) Dispatcher {
	if broker == nil {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fanoutDispatcher{Dispatcher: next, broker: broker, channel: channel, logger: logger}
}

func (f *fanoutDispatcher) Publish(ctx context.Context, event Event) error {
	if err := f.Dispatcher.Publish(ctx, event); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		f.logger.Warn("encode event", zap.String("event_id", event.ID), zap.Error(err))
		return nil
	}
	if err := f.broker.Publish(ctx, f.channel, payload); err != nil {
		f.logger.Warn("forward event to broker",
			zap.String("event_id", event.ID),
			zap.String("channel", f.channel),
			zap.Error(err))
	}
	return nil
}
