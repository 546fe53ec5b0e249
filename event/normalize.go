package event

import (
	"fmt"

	"github.com/integratewise/webhook-gateway/provider"
)

/* Payload normalization: extracts a provider-agnostic (eventType, eventID)
 * pair from heterogeneous JSON shapes. Each provider needs its own
 * traversal because the shapes are incompatible: flat fields, nested
 * entity paths, or first-element-of-array extraction for batch providers.
 *
 * Pure lookup over the decoded body. Missing or misshapen fields never
 * panic: absence yields the provider's fallback event type and "" for
 * the event ID.
 */

// Normalize extracts the normalized event type and external event ID
// from the decoded JSON body
func Normalize(p provider.Provider, body any) (eventType, eventID string) {
	m := asMap(body)

	switch p {
	case provider.Razorpay:
		eventType = str(m["event"])
		eventID = stringify(dig(m, "payload", "payment", "entity", "id"))
	case provider.GitHub:
		eventType = str(m["action"])
		eventID = str(m["delivery"])
	case provider.HubSpot:
		// HubSpot delivers a batch array; the envelope type comes from
		// the first element
		e := m
		if e == nil {
			e = asMap(first(body))
		}
		eventType = str(e["eventType"])
		if eventType == "" {
			eventType = str(e["subscriptionType"])
		}
		eventID = stringify(e["objectId"])
		if eventID == "" {
			eventID = stringify(e["correlationId"])
		}
	case provider.Vercel:
		eventType = str(m["type"])
		eventID = str(m["id"])
	case provider.Todoist:
		eventType = str(m["event_name"])
		eventID = stringify(dig(m, "event_data", "id"))
	case provider.Notion:
		eventType = str(m["type"])
		eventID = str(m["id"])
	case provider.Asana:
		e := asMap(first(m["events"]))
		if action := str(e["action"]); action != "" {
			eventType = "task." + action
		}
		eventID = stringify(dig(e, "resource", "gid"))
	case provider.AIRelay:
		eventType = str(m["type"])
		eventID = str(m["id"])
	case provider.Slack:
		eventType = str(dig(m, "event", "type"))
		if eventType == "" {
			eventType = str(m["type"])
		}
		eventID = str(m["event_id"])
		if eventID == "" {
			eventID = str(dig(m, "event", "client_msg_id"))
		}
	case provider.Discord:
		eventType = str(m["t"])
		if eventType == "" {
			if n, ok := m["type"].(float64); ok {
				eventType = fmt.Sprintf("type_%d", int(n))
			}
		}
		eventID = str(m["id"])
	}

	if eventType == "" {
		eventType = p.DefaultEventType()
	}
	return eventType, eventID
}

// asMap returns v as an object, or nil when v is anything else
func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// first returns the first element of an array, or nil
func first(v any) any {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	return arr[0]
}

// dig walks nested objects along path, returning nil as soon as a
// segment is missing or not an object
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

// stringify renders string or numeric identifiers as strings; JSON
// numbers decode as float64, and provider IDs are always integral
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
