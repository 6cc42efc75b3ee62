// Package cache memoizes agent evaluations. A scoring call is a pure
// function of the applicant and portfolio baseline, so identical payloads
// can skip the round trip to the runtime.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/soyeahso/scoredeck/internal/agentcore"
	"github.com/soyeahso/scoredeck/internal/domain"
	"github.com/soyeahso/scoredeck/internal/logging"
)

// Backend stores serialized evaluations by key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Key derives the cache key for an agent request payload.
func Key(payload []byte) string {
	sum := sha256.Sum256(payload)
	return "scoredeck:eval:" + hex.EncodeToString(sum[:])
}

// Invoker wraps an agentcore.Invoker with a cache backend. Cache failures
// are logged and treated as misses; the agent remains the source of truth.
type Invoker struct {
	inner   agentcore.Invoker
	backend Backend
	log     *logging.Logger
}

// Wrap decorates an invoker with caching. A nil backend returns the
// inner invoker unchanged.
func Wrap(inner agentcore.Invoker, backend Backend, log *logging.Logger) agentcore.Invoker {
	if backend == nil {
		return inner
	}
	return &Invoker{inner: inner, backend: backend, log: log.Sub("cache")}
}

func (c *Invoker) Evaluate(ctx context.Context, a domain.Applicant, p domain.PortfolioHealth) (*domain.Evaluation, error) {
	payload, err := agentcore.EncodePayload(a, p)
	if err != nil {
		return nil, err
	}
	key := Key(payload)

	if data, ok, err := c.backend.Get(ctx, key); err != nil {
		c.log.Warn().Err(err).Msg("cache read failed")
	} else if ok {
		var eval domain.Evaluation
		if uerr := json.Unmarshal(data, &eval); uerr != nil {
			c.log.Warn().Err(uerr).Msg("discarding undecodable cache entry")
		} else {
			eval.Cached = true
			c.log.Debug().Str("id", eval.ID).Msg("cache hit")
			return &eval, nil
		}
	}

	eval, err := c.inner.Evaluate(ctx, a, p)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(eval); err == nil {
		if err := c.backend.Set(ctx, key, data); err != nil {
			c.log.Warn().Err(err).Msg("cache write failed")
		}
	}
	return eval, nil
}
