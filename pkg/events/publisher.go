package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/logger"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

// DefaultChannel is the pub/sub channel session events go to.
const DefaultChannel = "parking:sessions"

type Config struct {
	Enabled bool   `env:"PARKING_EVENTS_ENABLED" envDefault:"false"`
	Channel string `env:"PARKING_EVENTS_CHANNEL" envDefault:"parking:sessions"`
}

// Client is the part of a go-redis client the publisher needs.
type Client interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisPublisher sends session events as JSON over Redis pub/sub.
type RedisPublisher struct {
	client  Client
	channel string
	log     *slog.Logger
}

type Option func(*RedisPublisher)

func WithChannel(channel string) Option {
	return func(p *RedisPublisher) {
		if channel != "" {
			p.channel = channel
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(p *RedisPublisher) {
		if log != nil {
			p.log = log
		}
	}
}

// NewRedisPublisher panics if client is nil.
func NewRedisPublisher(client Client, opts ...Option) *RedisPublisher {
	if client == nil {
		panic("events: redis client is required")
	}
	p := &RedisPublisher{client: client, channel: DefaultChannel, log: logger.Discard()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *RedisPublisher) Channel() string { return p.channel }

// Publish encodes ev and sends it. Having no subscribers is not an error.
func (p *RedisPublisher) Publish(ctx context.Context, ev parking.SessionEvent) error {
	payload, err := Encode(ev)
	if err != nil {
		return err
	}

	receivers, err := p.client.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	p.log.DebugContext(ctx, "session event published",
		logger.Event(string(ev.Type)),
		logger.SessionID(ev.Session.SessionID),
		slog.Int64("receivers", receivers),
	)
	return nil
}

func Encode(ev parking.SessionEvent) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, errors.Join(ErrEncodeFailed, err)
	}
	return payload, nil
}

// Decode parses a payload produced by Encode and rejects unknown event types.
func Decode(payload []byte) (parking.SessionEvent, error) {
	var ev parking.SessionEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return parking.SessionEvent{}, errors.Join(ErrDecodeFailed, err)
	}
	switch ev.Type {
	case parking.EventSessionEntered, parking.EventSessionCompleted, parking.EventSessionCancelled:
		return ev, nil
	default:
		return parking.SessionEvent{}, ErrUnknownEventType
	}
}
