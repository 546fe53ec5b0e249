package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/integratewise/webhook-gateway/event"
	"github.com/integratewise/webhook-gateway/provider"
	"github.com/rs/zerolog"
)

// Notifier relays a chat-formatted summary of an event to configured
// notification channels; delivery is best-effort
type Notifier interface {
	Notify(ctx context.Context, ev event.InboundEvent) error
}

/* Dispatcher translates a persisted event into zero or more domain
 * mutations, matched on (provider, eventType)
 * Uses pointer semantics as it's an API, not data
 */
type Dispatcher struct {
	Store    Store
	Notifier Notifier
	Logger   zerolog.Logger
}

// NewDispatcher creates a side-effect dispatcher. Notifier is optional.
func NewDispatcher(store Store, notifier Notifier, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		Store:    store,
		Notifier: notifier,
		Logger:   logger,
	}
}

// Dispatch runs every side effect for one event. Each side effect is
// isolated: a failure is logged and the remaining ones still run.
func (d *Dispatcher) Dispatch(ctx context.Context, ev event.InboundEvent, body any) {
	d.try(ev, "interaction", func() error {
		return d.Store.InsertInteraction(ctx, Interaction{
			WebhookID: ev.ID,
			Source:    "webhook:" + ev.Provider.String(),
			Title:     fmt.Sprintf("%s - %s", ev.Provider, ev.EventType),
			Content:   string(ev.RawPayload),
			SourceURL: "/webhooks/" + ev.Provider.String(),
			Metadata:  map[string]any{"webhook_id": ev.ID, "event_type": ev.EventType},
		})
	})

	d.try(ev, "activity", func() error {
		return d.Store.InsertActivity(ctx, Activity{
			WebhookID:    ev.ID,
			ActivityType: "webhook_received",
			Title:        fmt.Sprintf("Webhook received from %s", ev.Provider),
			Description:  fmt.Sprintf("Event: %s", ev.EventType),
			Icon:         "Webhook",
			Color:        "orange",
			ActorName:    ev.Provider.String(),
			Metadata:     map[string]any{"provider": ev.Provider.String(), "event_type": ev.EventType, "webhook_id": ev.ID},
		})
	})

	switch ev.Provider {
	case provider.Asana:
		d.dispatchAsana(ctx, ev, body)
	case provider.HubSpot:
		d.dispatchHubSpot(ctx, ev, body)
	case provider.Todoist:
		d.dispatchTodoist(ctx, ev, body)
	case provider.Slack:
		d.dispatchSlack(ctx, ev, body)
	case provider.Discord:
		d.dispatchDiscord(ctx, ev, body)
	}
	// razorpay, github, vercel, notion and ai-relay events are recorded
	// with no further mutation

	if d.Notifier != nil {
		d.try(ev, "notify", func() error {
			return d.Notifier.Notify(ctx, ev)
		})
	}
}

// dispatchAsana upserts or deletes tasks from the events batch.
// Upsert, not insert: Asana redelivers the same task gid.
func (d *Dispatcher) dispatchAsana(ctx context.Context, ev event.InboundEvent, body any) {
	for _, e := range asArray(asMap(body)["events"]) {
		em := asMap(e)
		resource := asMap(em["resource"])
		if str(resource["resource_type"]) != "task" {
			continue
		}

		gid := str(resource["gid"])
		switch str(em["action"]) {
		case "added", "changed":
			d.try(ev, "asana task upsert", func() error {
				status := "todo"
				if b, _ := resource["completed"].(bool); b {
					status = "done"
				}
				priority := "medium"
				if str(resource["priority"]) == "high" {
					priority = "high"
				}
				return d.Store.UpsertTask(ctx, Task{
					WebhookID:   ev.ID,
					ExternalID:  gid,
					Title:       str(resource["name"]),
					Description: str(resource["notes"]),
					Status:      status,
					Priority:    priority,
					DueDate:     str(resource["due_on"]),
					Source:      "asana",
					Metadata:    map[string]any{"raw_task": resource},
				})
			})
		case "deleted":
			d.try(ev, "asana task delete", func() error {
				return d.Store.DeleteTaskByExternalID(ctx, gid)
			})
		}
	}
}

// dispatchHubSpot syncs contacts, deals and companies from the batch
func (d *Dispatcher) dispatchHubSpot(ctx context.Context, ev event.InboundEvent, body any) {
	events := asArray(body)
	if events == nil {
		// single-event delivery
		if m := asMap(body); m != nil {
			events = []any{m}
		}
	}

	for _, e := range events {
		em := asMap(e)
		properties := asMap(em["properties"])
		objectID := stringify(em["objectId"])

		switch str(em["objectType"]) {
		case "contact":
			if !strings.Contains(str(em["subscriptionType"]), "creation") {
				continue
			}
			d.try(ev, "hubspot lead insert", func() error {
				return d.Store.InsertLead(ctx, Lead{
					WebhookID:  ev.ID,
					ExternalID: objectID,
					Name:       strings.TrimSpace(str(properties["firstname"]) + " " + str(properties["lastname"])),
					Email:      str(properties["email"]),
					Phone:      str(properties["phone"]),
					Company:    str(properties["company"]),
					Title:      str(properties["jobtitle"]),
					Source:     "hubspot",
					Metadata:   map[string]any{"raw_properties": properties},
				})
			})
		case "deal":
			d.try(ev, "hubspot opportunity upsert", func() error {
				value, _ := strconv.ParseFloat(str(properties["amount"]), 64)
				return d.Store.UpsertOpportunity(ctx, Opportunity{
					WebhookID:  ev.ID,
					ExternalID: objectID,
					Name:       str(properties["dealname"]),
					Value:      value,
					Stage:      str(properties["dealstage"]),
					Metadata:   map[string]any{"raw_properties": properties},
				})
			})
		case "company":
			d.try(ev, "hubspot client upsert", func() error {
				return d.Store.UpsertClient(ctx, Client{
					WebhookID:  ev.ID,
					ExternalID: objectID,
					Company:    str(properties["name"]),
					Website:    str(properties["domain"]),
					Industry:   str(properties["industry"]),
					Metadata:   map[string]any{"raw_properties": properties},
				})
			})
		}
	}
}

// dispatchTodoist mirrors item events into the tasks table
func (d *Dispatcher) dispatchTodoist(ctx context.Context, ev event.InboundEvent, body any) {
	m := asMap(body)
	item := asMap(m["event_data"])
	id := stringify(item["id"])

	switch str(m["event_name"]) {
	case "item:added", "item:updated":
		d.try(ev, "todoist task upsert", func() error {
			return d.Store.UpsertTask(ctx, Task{
				WebhookID:   ev.ID,
				ExternalID:  id,
				Title:       str(item["content"]),
				Description: str(item["description"]),
				Status:      "todo",
				Priority:    "medium",
				DueDate:     str(dig(item, "due", "date")),
				Source:      "todoist",
				Metadata:    map[string]any{"raw_item": item},
			})
		})
	case "item:deleted":
		d.try(ev, "todoist task delete", func() error {
			return d.Store.DeleteTaskByExternalID(ctx, id)
		})
	}
}

// dispatchSlack records user messages and turns app mentions into tasks
func (d *Dispatcher) dispatchSlack(ctx context.Context, ev event.InboundEvent, body any) {
	m := asMap(body)
	e := asMap(m["event"])
	if e == nil {
		return
	}

	switch str(e["type"]) {
	case "message":
		if str(e["bot_id"]) != "" || str(e["text"]) == "" {
			return
		}
		d.try(ev, "slack chat message", func() error {
			platformID := str(e["client_msg_id"])
			if platformID == "" {
				platformID = str(e["ts"])
			}
			return d.Store.InsertChatMessage(ctx, ChatMessage{
				WebhookID:  ev.ID,
				Platform:   "slack",
				PlatformID: platformID,
				ChannelID:  str(e["channel"]),
				TeamID:     str(m["team_id"]),
				UserID:     str(e["user"]),
				Content:    str(e["text"]),
				ThreadID:   str(e["thread_ts"]),
				Metadata: map[string]any{
					"channel":   str(e["channel"]),
					"user":      str(e["user"]),
					"thread_ts": str(e["thread_ts"]),
					"team":      str(m["team_id"]),
				},
				SentAt: time.Now().UTC(),
			})
		})
	case "app_mention":
		d.try(ev, "slack mention task", func() error {
			return d.Store.UpsertTask(ctx, Task{
				WebhookID:   ev.ID,
				ExternalID:  str(e["ts"]),
				Title:       fmt.Sprintf("Slack mention from %s", str(e["user"])),
				Description: str(e["text"]),
				Status:      "pending",
				Priority:    "medium",
				Source:      "slack",
				Metadata: map[string]any{
					"channel": str(e["channel"]),
					"user":    str(e["user"]),
					"ts":      str(e["ts"]),
				},
			})
		})
	}
}

// dispatchDiscord records user messages and turns application commands
// into tasks
func (d *Dispatcher) dispatchDiscord(ctx context.Context, ev event.InboundEvent, body any) {
	m := asMap(body)
	data := asMap(m["d"])

	switch str(m["t"]) {
	case "MESSAGE_CREATE":
		author := asMap(data["author"])
		if b, _ := author["bot"].(bool); b {
			return
		}
		if str(data["content"]) == "" {
			return
		}
		d.try(ev, "discord chat message", func() error {
			return d.Store.InsertChatMessage(ctx, ChatMessage{
				WebhookID:  ev.ID,
				Platform:   "discord",
				PlatformID: str(data["id"]),
				ChannelID:  str(data["channel_id"]),
				TeamID:     str(data["guild_id"]),
				UserID:     str(author["id"]),
				UserName:   str(author["username"]),
				Content:    str(data["content"]),
				Metadata: map[string]any{
					"channel_id":  str(data["channel_id"]),
					"guild_id":    str(data["guild_id"]),
					"author_id":   str(author["id"]),
					"author_name": str(author["username"]),
				},
				SentAt: time.Now().UTC(),
			})
		})
	case "INTERACTION_CREATE":
		if n, _ := data["type"].(float64); int(n) != 2 {
			return
		}
		d.try(ev, "discord command task", func() error {
			options, _ := json.Marshal(asMap(data["data"])["options"])
			return d.Store.UpsertTask(ctx, Task{
				WebhookID:   ev.ID,
				ExternalID:  str(data["id"]),
				Title:       fmt.Sprintf("Discord command: /%s", str(asMap(data["data"])["name"])),
				Description: string(options),
				Status:      "pending",
				Priority:    "medium",
				Source:      "discord",
				Metadata: map[string]any{
					"guild_id":   str(data["guild_id"]),
					"channel_id": str(data["channel_id"]),
					"user":       str(dig(data, "member", "user", "username")),
					"command":    str(asMap(data["data"])["name"]),
				},
			})
		})
	}
}

// try isolates one side effect: failure is logged so the siblings and
// the overall request still proceed
func (d *Dispatcher) try(ev event.InboundEvent, name string, fn func() error) {
	if err := fn(); err != nil {
		d.Logger.Error().
			Err(err).
			Str("side_effect", name).
			Str("provider", ev.Provider.String()).
			Str("webhook_id", ev.ID).
			Msg("side effect failed")
	}
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asArray(v any) []any {
	arr, _ := v.([]any)
	return arr
}

func dig(v any, path ...string) any {
	for _, key := range path {
		m := asMap(v)
		if m == nil {
			return nil
		}
		v = m[key]
	}
	return v
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.0f", t)
	default:
		return ""
	}
}
