package event

import (
	"encoding/json"
	"time"

	"github.com/integratewise/webhook-gateway/provider"
)

/* InboundEvent represents one received webhook call
 * Uses value semantics as it represents data, not behavior
 *
 * Every request that parses as valid JSON on a known provider route
 * produces exactly one InboundEvent, regardless of signature validity:
 * invalid signatures are recorded so operators can audit attack attempts
 */
type InboundEvent struct {
	ID        string
	Provider  provider.Provider
	EventType string

	// EventID is the provider's own identifier for the event, used for
	// troubleshooting. Empty when the payload carries none. Not unique:
	// providers redeliver, so downstream consumers must tolerate replays.
	EventID string

	// RawPayload is the verbatim request body, stored unmodified
	RawPayload json.RawMessage

	// SignatureValid records whether cryptographic verification succeeded,
	// or true when verification was skipped (no secret configured)
	SignatureValid bool

	Metadata  Metadata
	CreatedAt time.Time
}

// Metadata carries ancillary request context persisted with the event
type Metadata struct {
	// Headers are the request headers after redaction
	Headers map[string]string `json:"headers"`

	// IP is the origin address as reported by x-forwarded-for
	IP string `json:"ip"`
}
