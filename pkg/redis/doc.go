// Package redis connects to Redis with retries and exposes a readiness probe.
//
// The parking service uses Redis only as a pub/sub transport for session
// events (see package events). Configuration comes from REDIS_* environment
// variables:
//
//	cfg := config.MustLoad[redis.Config]()
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package redis
