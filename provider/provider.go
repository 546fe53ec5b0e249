package provider

import "fmt"

/* Provider identifies the external system that originated a webhook call
 * The set is closed: unknown providers are rejected at the HTTP boundary
 * before any record is created
 */
type Provider int

const (
	Razorpay Provider = iota + 1
	GitHub
	Vercel
	HubSpot
	Todoist
	Notion
	Asana
	AIRelay
	Slack
	Discord
)

// String returns the string representation of the provider
func (p Provider) String() string {
	switch p {
	case Razorpay:
		return "razorpay"
	case GitHub:
		return "github"
	case Vercel:
		return "vercel"
	case HubSpot:
		return "hubspot"
	case Todoist:
		return "todoist"
	case Notion:
		return "notion"
	case Asana:
		return "asana"
	case AIRelay:
		return "ai-relay"
	case Slack:
		return "slack"
	case Discord:
		return "discord"
	default:
		return "unknown"
	}
}

// NewProvider creates a Provider from a path segment
func NewProvider(s string) (Provider, error) {
	switch s {
	case "razorpay":
		return Razorpay, nil
	case "github":
		return GitHub, nil
	case "vercel":
		return Vercel, nil
	case "hubspot":
		return HubSpot, nil
	case "todoist":
		return Todoist, nil
	case "notion":
		return Notion, nil
	case "asana":
		return Asana, nil
	case "ai-relay":
		return AIRelay, nil
	case "slack":
		return Slack, nil
	case "discord":
		return Discord, nil
	default:
		return 0, fmt.Errorf("unsupported provider: %s", s)
	}
}

// All returns every supported provider, in declaration order
func All() []Provider {
	return []Provider{Razorpay, GitHub, Vercel, HubSpot, Todoist, Notion, Asana, AIRelay, Slack, Discord}
}

// Validate checks if the provider is a member of the closed set
func (p Provider) Validate() error {
	if p < Razorpay || p > Discord {
		return fmt.Errorf("invalid provider: %d", p)
	}
	return nil
}

// IsChatPlatform reports whether the provider has interactive-response
// semantics (handshakes and synchronous command replies)
func (p Provider) IsChatPlatform() bool {
	return p == Slack || p == Discord
}
