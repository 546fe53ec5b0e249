package dispatch

import (
	"context"
	"time"
)

/* Domain side-effect records produced per dispatch
 * Each carries WebhookID, a back-reference to the originating event.
 * Created synchronously during the same request and never retried:
 * a failed side effect is logged while the webhook response still
 * reports success, to avoid provider-side retry storms.
 */

// Task is a work item synced from task-management providers
type Task struct {
	WebhookID   string
	ExternalID  string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     string
	Source      string
	Metadata    map[string]any
}

// Lead is a CRM contact synced from contact-creation events
type Lead struct {
	WebhookID  string
	ExternalID string
	Name       string
	Email      string
	Phone      string
	Company    string
	Title      string
	Source     string
	Metadata   map[string]any
}

// Opportunity is a CRM deal, upserted by external deal ID
type Opportunity struct {
	WebhookID  string
	ExternalID string
	Name       string
	Value      float64
	Stage      string
	Metadata   map[string]any
}

// Client is a CRM company record, upserted by external ID
type Client struct {
	WebhookID  string
	ExternalID string
	Company    string
	Website    string
	Industry   string
	Metadata   map[string]any
}

// ChatMessage is a message captured from a chat platform
type ChatMessage struct {
	WebhookID  string
	Platform   string
	PlatformID string
	ChannelID  string
	TeamID     string
	UserID     string
	UserName   string
	Content    string
	ThreadID   string
	IsBot      bool
	Metadata   map[string]any
	SentAt     time.Time
}

// Activity is a feed entry describing something that happened
type Activity struct {
	WebhookID    string
	ActivityType string
	Title        string
	Description  string
	Icon         string
	Color        string
	ActorName    string
	Metadata     map[string]any
}

// Interaction is a searchable record of the raw event content
type Interaction struct {
	WebhookID string
	Source    string
	Title     string
	Content   string
	SourceURL string
	Metadata  map[string]any
}

/* Store abstracts the domain mutations the dispatcher performs
 * Upserts are keyed by external ID because providers redeliver the
 * same item; an insert would duplicate on every redelivery
 */
type Store interface {
	UpsertTask(ctx context.Context, t Task) error
	DeleteTaskByExternalID(ctx context.Context, externalID string) error
	InsertLead(ctx context.Context, l Lead) error
	UpsertOpportunity(ctx context.Context, o Opportunity) error
	UpsertClient(ctx context.Context, c Client) error
	InsertChatMessage(ctx context.Context, m ChatMessage) error
	InsertActivity(ctx context.Context, a Activity) error
	InsertInteraction(ctx context.Context, i Interaction) error
}
