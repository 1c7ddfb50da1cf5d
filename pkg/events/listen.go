package events

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/logger"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

// Subscriber is the part of a go-redis client Listen needs.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// Handler consumes one decoded event.
type Handler func(ctx context.Context, ev parking.SessionEvent) error

// Listen delivers events from channel to handle until ctx is done or handle
// fails. Malformed payloads are logged and skipped.
func Listen(ctx context.Context, sub Subscriber, channel string, handle Handler, log *slog.Logger) error {
	if log == nil {
		log = logger.Discard()
	}

	ps := sub.Subscribe(ctx, channel)
	defer ps.Close()

	// The first reply is the subscription confirmation.
	if _, err := ps.Receive(ctx); err != nil {
		return errors.Join(ErrSubscribeFailed, err)
	}

	msgs := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			ev, err := Decode([]byte(msg.Payload))
			if err != nil {
				log.WarnContext(ctx, "skipping malformed session event", logger.Error(err))
				continue
			}
			if err := handle(ctx, ev); err != nil {
				return err
			}
		}
	}
}
