package event_test

import (
	"context"
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/integratewise/webhook-gateway/event"
	"github.com/integratewise/webhook-gateway/event/mocks"
	"github.com/integratewise/webhook-gateway/event/signature"
	"github.com/integratewise/webhook-gateway/provider"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noKeys(provider.Provider) string { return "" }

// stubDispatcher records whether Dispatch ran and for which event
type stubDispatcher struct {
	called bool
	event  event.InboundEvent
}

func (d *stubDispatcher) Dispatch(ctx context.Context, ev event.InboundEvent, body any) {
	d.called = true
	d.event = ev
}

// stubRecorder always fails, to prove recorder errors never surface
type stubRecorder struct{ err error }

func (r *stubRecorder) Record(ctx context.Context, ev event.InboundEvent) error { return r.err }

func TestIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("success - signed github event", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		secret := "gh-secret"
		keys := func(p provider.Provider) string {
			if p == provider.GitHub {
				return secret
			}
			return ""
		}
		service := event.NewService(repo, keys, nil, nil, zerolog.Nop())

		body := []byte(`{"action":"opened","delivery":"abc123"}`)
		sig := signature.SHA256Prefix + signature.SignHMAC(sha256.New, secret, body)

		repo.On("Store", ctx, event.MatchEvent(func(ev event.InboundEvent) bool {
			return ev.Provider == provider.GitHub &&
				ev.EventType == "opened" &&
				ev.EventID == "abc123" &&
				ev.SignatureValid &&
				string(ev.RawPayload) == string(body) &&
				ev.Metadata.Headers["X-Hub-Signature-256"] == event.RedactedValue
		})).Return("webhook-123", nil)

		ev, err := service.Ingest(ctx, event.Request{
			Provider: provider.GitHub,
			Body:     body,
			Headers:  map[string]string{"X-Hub-Signature-256": sig, "Content-Type": "application/json"},
			RemoteIP: "203.0.113.7",
		})

		require.NoError(t, err)
		assert.Equal(t, "webhook-123", ev.ID)
		assert.Equal(t, "203.0.113.7", ev.Metadata.IP)
		repo.AssertExpectations(t)
	})

	t.Run("invalid signature is recorded, not dropped", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		keys := func(provider.Provider) string { return "gh-secret" }
		service := event.NewService(repo, keys, nil, nil, zerolog.Nop())

		body := []byte(`{"action":"opened"}`)

		repo.On("Store", ctx, event.MatchEvent(func(ev event.InboundEvent) bool {
			return !ev.SignatureValid && ev.EventType == "opened"
		})).Return("webhook-456", nil)

		ev, err := service.Ingest(ctx, event.Request{
			Provider: provider.GitHub,
			Body:     body,
			Headers:  map[string]string{"X-Hub-Signature-256": "sha256=0000"},
		})

		require.NoError(t, err)
		assert.False(t, ev.SignatureValid)
		repo.AssertExpectations(t)
	})

	t.Run("malformed JSON - nothing persisted", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo, noKeys, nil, nil, zerolog.Nop())

		_, err := service.Ingest(ctx, event.Request{
			Provider: provider.GitHub,
			Body:     []byte(`{"action":`),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, event.ErrMalformedPayload)
		repo.AssertNotCalled(t, "Store")
	})

	t.Run("invalid provider - nothing persisted", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo, noKeys, nil, nil, zerolog.Nop())

		_, err := service.Ingest(ctx, event.Request{
			Provider: provider.Provider(999),
			Body:     []byte(`{}`),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "validating provider")
		repo.AssertNotCalled(t, "Store")
	})

	t.Run("persistence failure - terminal, no dispatch", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		dispatcher := &stubDispatcher{}
		service := event.NewService(repo, noKeys, dispatcher, nil, zerolog.Nop())

		repo.On("Store", ctx, event.MatchEvent(func(event.InboundEvent) bool { return true })).
			Return("", errors.New("connection refused"))

		_, err := service.Ingest(ctx, event.Request{
			Provider: provider.Notion,
			Body:     []byte(`{"type":"page.updated","id":"p1"}`),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "storing event")
		assert.False(t, dispatcher.called)
	})

	t.Run("dispatch runs after persistence", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		dispatcher := &stubDispatcher{}
		service := event.NewService(repo, noKeys, dispatcher, nil, zerolog.Nop())

		repo.On("Store", ctx, event.MatchEvent(func(event.InboundEvent) bool { return true })).
			Return("webhook-789", nil)

		ev, err := service.Ingest(ctx, event.Request{
			Provider: provider.Todoist,
			Body:     []byte(`{"event_name":"item:added","event_data":{"id":1}}`),
		})

		require.NoError(t, err)
		assert.True(t, dispatcher.called)
		assert.Equal(t, ev.ID, dispatcher.event.ID)
	})

	t.Run("recorder failure never surfaces", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		recorder := &stubRecorder{err: errors.New("redis down")}
		service := event.NewService(repo, noKeys, nil, recorder, zerolog.Nop())

		repo.On("Store", ctx, event.MatchEvent(func(event.InboundEvent) bool { return true })).
			Return("webhook-1", nil)

		_, err := service.Ingest(ctx, event.Request{
			Provider: provider.Notion,
			Body:     []byte(`{"type":"page.updated"}`),
		})

		require.NoError(t, err)
	})
}
