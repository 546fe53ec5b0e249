package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/integratewise/webhook-gateway/event/signature"
	"github.com/integratewise/webhook-gateway/provider"
	"github.com/rs/zerolog"
)

// ErrMalformedPayload marks bodies that do not parse as JSON; the HTTP
// layer maps it to a client error and nothing is persisted
var ErrMalformedPayload = errors.New("malformed payload")

// Keyring resolves the verification key for a provider: the shared HMAC
// secret, or the hex public key for the Ed25519 scheme. An empty string
// means verification is not configured and fails open.
type Keyring func(provider.Provider) string

// Dispatcher fans an ingested event out to domain side effects.
// Implementations isolate failures per side effect and log them; a
// failing side effect never fails the request nor blocks its siblings.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev InboundEvent, body any)
}

// Recorder receives a best-effort copy of each ingested event for
// operational counters; errors are logged, never surfaced
type Recorder interface {
	Record(ctx context.Context, ev InboundEvent) error
}

// Request is the raw material of one pipeline execution
type Request struct {
	Provider provider.Provider

	// Body is the exact byte capture of the request body; signature
	// schemes break on re-serialized JSON, so it is kept untouched
	Body []byte

	// Headers are single-valued request headers, original casing
	Headers map[string]string

	RemoteIP string
}

// UseCase defines the business operations for event ingestion
type UseCase interface {
	Ingest(ctx context.Context, req Request) (InboundEvent, error)
}

/* Service represents the business logic layer: one linear pipeline per
 * request, verify -> normalize -> redact -> persist -> dispatch.
 * Stateless across requests; durability and ordering are delegated
 * entirely to the repository.
 */
type Service struct {
	Repo       Repository
	Keys       Keyring
	Dispatcher Dispatcher
	Recorder   Recorder
	Logger     zerolog.Logger
}

// NewService creates a new ingestion service with dependency injection.
// Dispatcher and Recorder are optional.
func NewService(repo Repository, keys Keyring, dispatcher Dispatcher, recorder Recorder, logger zerolog.Logger) *Service {
	return &Service{
		Repo:       repo,
		Keys:       keys,
		Dispatcher: dispatcher,
		Recorder:   recorder,
		Logger:     logger,
	}
}

// Ingest runs the pipeline for one inbound call. A body that parses as
// JSON always yields a persisted event, signature-valid or not; only a
// parse failure or a repository error short-circuits.
func (s *Service) Ingest(ctx context.Context, req Request) (InboundEvent, error) {
	if err := req.Provider.Validate(); err != nil {
		return InboundEvent{}, fmt.Errorf("validating provider: %w", err)
	}

	var body any
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return InboundEvent{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	valid := signature.Verify(req.Provider, req.Body, signature.Header{
		Signature: headerValue(req.Headers, req.Provider.SignatureHeader()),
		Timestamp: headerValue(req.Headers, req.Provider.TimestampHeader()),
	}, s.Keys(req.Provider))

	eventType, eventID := Normalize(req.Provider, body)

	ip := req.RemoteIP
	if ip == "" {
		ip = "unknown"
	}

	ev := InboundEvent{
		ID:             uuid.New().String(),
		Provider:       req.Provider,
		EventType:      eventType,
		EventID:        eventID,
		RawPayload:     req.Body,
		SignatureValid: valid,
		Metadata: Metadata{
			Headers: RedactHeaders(req.Headers),
			IP:      ip,
		},
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.Repo.Store(ctx, ev)
	if err != nil {
		return InboundEvent{}, fmt.Errorf("storing event: %w", err)
	}
	ev.ID = id

	if !valid {
		s.Logger.Warn().
			Str("provider", ev.Provider.String()).
			Str("event_type", ev.EventType).
			Str("id", ev.ID).
			Msg("signature verification failed, event recorded for audit")
	}

	if s.Recorder != nil {
		if err := s.Recorder.Record(ctx, ev); err != nil {
			s.Logger.Error().Err(err).Str("id", ev.ID).Msg("recording event counters")
		}
	}

	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ctx, ev, body)
	}

	return ev, nil
}

// headerValue looks a header up by name, case-insensitively
func headerValue(headers map[string]string, name string) string {
	if name == "" {
		return ""
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
