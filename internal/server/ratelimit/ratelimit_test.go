package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	t.Run("health is unlimited", func(t *testing.T) {
		cfg := MatchEndpoint("/health", "GET", configs)
		require.NotNil(t, cfg)
		assert.Equal(t, 0, cfg.Limit)
	})

	t.Run("exact match", func(t *testing.T) {
		cfg := MatchEndpoint("/api/interview/generate", "POST", configs)
		require.NotNil(t, cfg)
		assert.Equal(t, 20, cfg.Limit)
	})

	t.Run("prefix match", func(t *testing.T) {
		cfg := MatchEndpoint("/api/account/delete/finalize", "POST", configs)
		require.NotNil(t, cfg)
		assert.Equal(t, 60, cfg.Limit)
	})

	t.Run("method must match", func(t *testing.T) {
		assert.Nil(t, MatchEndpoint("/api/interview/generate", "GET", configs))
	})

	t.Run("unknown path uses default", func(t *testing.T) {
		assert.Nil(t, MatchEndpoint("/api/evaluations", "GET", configs))
	})
}

func TestLimiterAllow(t *testing.T) {
	t.Run("burst then limited", func(t *testing.T) {
		l := NewLimiter(&Config{
			Enabled:       true,
			DefaultLimit:  100,
			DefaultWindow: time.Minute,
			EndpointConfigs: []EndpointConfig{
				{Path: "/api/evaluations/rank", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
			},
		})
		defer l.Stop()

		allowed, info := l.Allow("1.2.3.4", "/api/evaluations/rank", "POST")
		assert.True(t, allowed)
		assert.Equal(t, 10, info.Limit)

		allowed, _ = l.Allow("1.2.3.4", "/api/evaluations/rank", "POST")
		assert.True(t, allowed)

		allowed, info = l.Allow("1.2.3.4", "/api/evaluations/rank", "POST")
		assert.False(t, allowed)
		assert.Greater(t, info.RetryAfter, time.Duration(0))
	})

	t.Run("clients are isolated", func(t *testing.T) {
		l := NewLimiter(&Config{
			Enabled: true,
			EndpointConfigs: []EndpointConfig{
				{Path: "/api/role/analyze", Method: "POST", Limit: 5, Window: time.Hour, Burst: 1},
			},
			DefaultLimit:  100,
			DefaultWindow: time.Minute,
		})
		defer l.Stop()

		allowed, _ := l.Allow("client-a", "/api/role/analyze", "POST")
		assert.True(t, allowed)
		allowed, _ = l.Allow("client-a", "/api/role/analyze", "POST")
		assert.False(t, allowed)

		// A different client still has a full bucket.
		allowed, _ = l.Allow("client-b", "/api/role/analyze", "POST")
		assert.True(t, allowed)
	})

	t.Run("disabled limiter admits everything", func(t *testing.T) {
		l := NewLimiter(&Config{Enabled: false})
		defer l.Stop()

		for i := 0; i < 100; i++ {
			allowed, _ := l.Allow("x", "/api/interview/generate", "POST")
			assert.True(t, allowed)
		}
	})

	t.Run("health never limited", func(t *testing.T) {
		l := NewLimiter(&Config{
			Enabled:         true,
			DefaultLimit:    1,
			DefaultWindow:   time.Hour,
			EndpointConfigs: DefaultEndpointConfigs(),
		})
		defer l.Stop()

		for i := 0; i < 10; i++ {
			allowed, _ := l.Allow("x", "/health", "GET")
			assert.True(t, allowed)
		}
	})
}
