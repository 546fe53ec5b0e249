package event

import "strings"

// RedactedValue replaces every sensitive header value before persistence
const RedactedValue = "[REDACTED]"

/* sensitiveHeaders is the frozen set of header names whose values are
 * never persisted or logged. Matching is exact-name, case-insensitive:
 * values are not pattern-matched, so a secret smuggled in a non-standard
 * header passes through. That is a stated limitation of the design, not
 * something this filter tries to fix.
 */
var sensitiveHeaders = map[string]struct{}{
	"authorization":          {},
	"cookie":                 {},
	"x-api-key":              {},
	"x-auth-token":           {},
	"x-hubspot-signature":    {},
	"x-hubspot-signature-v3": {},
	"x-razorpay-signature":   {},
	"x-hub-signature-256":    {},
	"x-hook-signature":       {},
	"x-vercel-signature":     {},
	"x-ai-relay-signature":   {},
	"x-slack-signature":      {},
	"x-signature-ed25519":    {},
}

// RedactHeaders returns a copy of headers with every sensitive value
// replaced by RedactedValue. All other headers pass through unchanged.
// The input map is never mutated.
func RedactHeaders(headers map[string]string) map[string]string {
	redacted := make(map[string]string, len(headers))
	for name, value := range headers {
		if _, sensitive := sensitiveHeaders[strings.ToLower(name)]; sensitive {
			redacted[name] = RedactedValue
		} else {
			redacted[name] = value
		}
	}
	return redacted
}
