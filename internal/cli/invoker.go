package cli

import (
	"context"
	"time"

	"github.com/soyeahso/scoredeck/internal/agentcore"
	"github.com/soyeahso/scoredeck/internal/cache"
	"github.com/soyeahso/scoredeck/internal/config"
)

// buildInvoker assembles the agent client with the configured cache
// backend in front of it. The returned cleanup closes the cache.
func buildInvoker(ctx context.Context, cfg config.Config) (agentcore.Invoker, func(), error) {
	client, err := agentcore.New(ctx, cfg.Agent, log)
	if err != nil {
		return nil, nil, err
	}

	var backend cache.Backend
	ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
	switch cfg.Cache.Backend {
	case "memory":
		backend = cache.NewMemory(ttl)
	case "redis":
		backend = cache.NewRedis(cfg.Cache.Redis, ttl)
	}

	cleanup := func() {
		if backend != nil {
			backend.Close()
		}
	}
	return cache.Wrap(client, backend, log), cleanup, nil
}
