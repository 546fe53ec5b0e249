package provider

/* Scheme describes how a provider signs its webhook deliveries
 * SchemeNone means the integration does not support signing at all,
 * so verification always passes for those providers
 */
type Scheme int

const (
	SchemeNone Scheme = iota + 1
	SchemeHMACSHA256
	SchemeHMACSHA1
	SchemeSlack
	SchemeEd25519
)

// String returns the scheme name as exposed by the capability probe
func (s Scheme) String() string {
	switch s {
	case SchemeNone:
		return "none"
	case SchemeHMACSHA256, SchemeSlack:
		return "HMAC-SHA256"
	case SchemeHMACSHA1:
		return "HMAC-SHA1"
	case SchemeEd25519:
		return "Ed25519"
	default:
		return "unknown"
	}
}

// Scheme returns the signature scheme used by the provider
func (p Provider) Scheme() Scheme {
	switch p {
	case Razorpay, GitHub, HubSpot, Asana, AIRelay:
		return SchemeHMACSHA256
	case Vercel:
		return SchemeHMACSHA1
	case Slack:
		return SchemeSlack
	case Discord:
		return SchemeEd25519
	default:
		return SchemeNone
	}
}

// SignatureHeader returns the header carrying the provider's signature,
// or "" for providers that do not sign
func (p Provider) SignatureHeader() string {
	switch p {
	case Razorpay:
		return "x-razorpay-signature"
	case GitHub:
		return "x-hub-signature-256"
	case Vercel:
		return "x-vercel-signature"
	case HubSpot:
		return "x-hubspot-signature-v3"
	case Asana:
		return "x-hook-signature"
	case AIRelay:
		return "x-ai-relay-signature"
	case Slack:
		return "x-slack-signature"
	case Discord:
		return "x-signature-ed25519"
	default:
		return ""
	}
}

// TimestampHeader returns the header carrying the signature timestamp
// for schemes that sign over a timestamped message, or "" otherwise
func (p Provider) TimestampHeader() string {
	switch p {
	case Slack:
		return "x-slack-request-timestamp"
	case Discord:
		return "x-signature-timestamp"
	default:
		return ""
	}
}

// DefaultEventType returns the fallback event type used when the payload
// carries none of the fields the normalizer looks for
func (p Provider) DefaultEventType() string {
	switch p {
	case GitHub:
		return "push"
	case Vercel:
		return "deployment"
	case Todoist:
		return "item:updated"
	case Notion:
		return "page.updated"
	case AIRelay:
		return "chat.completion"
	default:
		return "unknown"
	}
}
