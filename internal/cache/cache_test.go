package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/scoredeck/internal/agentcore"
	"github.com/soyeahso/scoredeck/internal/config"
	"github.com/soyeahso/scoredeck/internal/domain"
	"github.com/soyeahso/scoredeck/internal/logging"
)

func testLog() *logging.Logger {
	return logging.New(io.Discard, "silent")
}

func testApplicant() domain.Applicant {
	return domain.Applicant{Age: 35, AnnualIncome: 50000, EmploymentYears: 3, DebtToIncome: 0.3}
}

func TestKeyStable(t *testing.T) {
	payload, err := agentcore.EncodePayload(testApplicant(), domain.PortfolioHealth{AvailableCapital: 100})
	require.NoError(t, err)
	payload2, err := agentcore.EncodePayload(testApplicant(), domain.PortfolioHealth{AvailableCapital: 100})
	require.NoError(t, err)

	assert.Equal(t, Key(payload), Key(payload2))

	other, err := agentcore.EncodePayload(testApplicant(), domain.PortfolioHealth{AvailableCapital: 200})
	require.NoError(t, err)
	assert.NotEqual(t, Key(payload), Key(other))
}

func TestMemoryBackend(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", []byte("v")))
	data, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), data)

	require.NoError(t, m.Close())
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(time.Millisecond)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v")))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryZeroTTLNeverExpires(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v")))
	time.Sleep(2 * time.Millisecond)

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisBackend(t *testing.T) {
	srv := miniredis.RunT(t)

	r := NewRedis(config.RedisConfig{Addr: srv.Addr()}, time.Minute)
	t.Cleanup(func() { r.Close() })
	ctx := context.Background()

	_, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, "k", []byte("v")))
	data, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), data)

	// TTL is applied
	srv.FastForward(2 * time.Minute)
	_, ok, err = r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWrapNilBackend(t *testing.T) {
	inner := &agentcore.Mock{}
	assert.Equal(t, agentcore.Invoker(inner), Wrap(inner, nil, testLog()))
}

func TestWrappedInvokerCaches(t *testing.T) {
	calls := 0
	inner := &agentcore.Mock{
		EvaluateFunc: func(ctx context.Context, a domain.Applicant, p domain.PortfolioHealth) (*domain.Evaluation, error) {
			calls++
			return &domain.Evaluation{ID: "eval-1", Applicant: a, MLScore: 0.9,
				Decision: domain.Decision{Verdict: domain.DecisionApproved}}, nil
		},
	}

	inv := Wrap(inner, NewMemory(time.Minute), testLog())
	ctx := context.Background()
	health := domain.PortfolioHealth{AvailableCapital: 1_000_000}

	first, err := inv.Evaluate(ctx, testApplicant(), health)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, calls)

	second, err := inv.Evaluate(ctx, testApplicant(), health)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, "eval-1", second.ID)
	assert.Equal(t, 1, calls, "second call served from cache")

	// A different portfolio baseline is a different key
	_, err = inv.Evaluate(ctx, testApplicant(), domain.PortfolioHealth{AvailableCapital: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWrappedInvokerRedis(t *testing.T) {
	srv := miniredis.RunT(t)
	r := NewRedis(config.RedisConfig{Addr: srv.Addr()}, time.Minute)
	t.Cleanup(func() { r.Close() })

	calls := 0
	inner := &agentcore.Mock{
		EvaluateFunc: func(ctx context.Context, a domain.Applicant, p domain.PortfolioHealth) (*domain.Evaluation, error) {
			calls++
			return &domain.Evaluation{ID: "eval-redis", Applicant: a}, nil
		},
	}

	inv := Wrap(inner, r, testLog())
	ctx := context.Background()

	_, err := inv.Evaluate(ctx, testApplicant(), domain.PortfolioHealth{})
	require.NoError(t, err)
	got, err := inv.Evaluate(ctx, testApplicant(), domain.PortfolioHealth{})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.True(t, got.Cached)
	assert.Equal(t, "eval-redis", got.ID)
}
