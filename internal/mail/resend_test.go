package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/interview-pilot/internal/deletion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSenderUnconfigured(t *testing.T) {
	s := NewSender(Config{}, zap.NewNop())

	result, err := s.Send(context.Background(), "a@example.com", deletion.TemplateScheduled, nil)
	require.NoError(t, err)
	assert.False(t, result.Configured)
	assert.False(t, result.Sent)
}

func TestSenderConfigured(t *testing.T) {
	assert.False(t, NewSender(Config{APIKey: "key"}, zap.NewNop()).Configured())
	assert.False(t, NewSender(Config{From: "noreply@example.com"}, zap.NewNop()).Configured())
	assert.True(t, NewSender(Config{APIKey: "key", From: "noreply@example.com"}, zap.NewNop()).Configured())
}

func TestSenderSend(t *testing.T) {
	t.Run("posts templated payload", func(t *testing.T) {
		var captured map[string]any
		var auth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		s := NewSender(Config{APIKey: "key", From: "noreply@example.com"}, zap.NewNop())
		s.endpoint = server.URL

		result, err := s.Send(context.Background(), "user@example.com", deletion.TemplateCompleted,
			map[string]string{"deleted_at": "2025-07-01T00:00:00Z"})
		require.NoError(t, err)
		assert.True(t, result.Sent)

		assert.Equal(t, "Bearer key", auth)
		assert.Equal(t, "noreply@example.com", captured["from"])
		assert.Equal(t, []any{"user@example.com"}, captured["to"])
		assert.Contains(t, captured["subject"], "アカウント削除が完了しました")
		assert.Contains(t, captured["html"], "2025-07-01T00:00:00Z")
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()

		s := NewSender(Config{APIKey: "key", From: "noreply@example.com"}, zap.NewNop())
		s.endpoint = server.URL

		_, err := s.Send(context.Background(), "user@example.com", deletion.TemplateScheduled,
			map[string]string{"grace_period_days": "30"})
		assert.Error(t, err)
	})

	t.Run("unknown template is an error", func(t *testing.T) {
		s := NewSender(Config{APIKey: "key", From: "noreply@example.com"}, zap.NewNop())
		_, err := s.Send(context.Background(), "user@example.com", deletion.Template("bogus"), nil)
		assert.Error(t, err)
	})
}
