package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/integratewise/webhook-gateway/event"
	"github.com/integratewise/webhook-gateway/notify"
	"github.com/integratewise/webhook-gateway/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, status int) (*httptest.Server, *[]map[string]string) {
	t.Helper()
	var received []map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var payload map[string]string
		require.NoError(t, json.Unmarshal(body, &payload))
		received = append(received, payload)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &received
}

func TestNotify(t *testing.T) {
	ctx := context.Background()
	ev := event.InboundEvent{
		Provider:       provider.GitHub,
		EventType:      "push",
		SignatureValid: true,
	}

	t.Run("success - posts to both configured channels", func(t *testing.T) {
		slack, slackGot := capture(t, http.StatusOK)
		discord, discordGot := capture(t, http.StatusNoContent)

		n := notify.NewChatNotifier(slack.URL, discord.URL)
		require.NoError(t, n.Notify(ctx, ev))

		require.Len(t, *slackGot, 1)
		assert.Contains(t, (*slackGot)[0]["text"], "github")
		assert.Contains(t, (*slackGot)[0]["text"], "push")

		require.Len(t, *discordGot, 1)
		assert.Contains(t, (*discordGot)[0]["content"], "github")
	})

	t.Run("no configured URLs is a no-op", func(t *testing.T) {
		n := notify.NewChatNotifier("", "")
		assert.NoError(t, n.Notify(ctx, ev))
	})

	t.Run("error - channel rejects the payload", func(t *testing.T) {
		slack, _ := capture(t, http.StatusForbidden)

		n := notify.NewChatNotifier(slack.URL, "")
		err := n.Notify(ctx, ev)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "posting to slack")
	})
}
