// Package redis connects to Redis with go-redis/v9. The push token registry
// is its main consumer.
//
//	client, err := redis.Connect(ctx, cfg, log)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	tokens := push.NewRedisRegistry(client, "push:token:")
//
// Connect retries a ping with a constant interval; Healthcheck wraps the
// same ping for readiness probes.
package redis
