package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/integratewise/webhook-gateway/event"
	"github.com/integratewise/webhook-gateway/provider"
)

/* HTTP layer DTOs for the webhook API
 * Separate from domain entities to avoid leaking internal structure
 */

// ingestResponse represents the API response after normal ingestion
type ingestResponse struct {
	Success        bool   `json:"success"`
	ID             string `json:"id"`
	Provider       string `json:"provider"`
	EventType      string `json:"event_type"`
	SignatureValid bool   `json:"signature_valid"`
}

// probeResponse represents the GET capability probe
type probeResponse struct {
	Provider  string `json:"provider"`
	Status    string `json:"status"`
	Endpoint  string `json:"endpoint"`
	Signature string `json:"signature"`
}

type errorResponse struct {
	Error     string   `json:"error"`
	Supported []string `json:"supported,omitempty"`
}

// postWebhook handles POST /webhooks/{provider}
func postWebhook(eventService event.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := provider.NewProvider(chi.URLParam(r, "provider"))
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid provider", Supported: providerNames()})
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
			return
		}
		defer r.Body.Close()

		/* Chat-platform handshakes are classified before the pipeline:
		 * they are answered with specific echoed values and bypass
		 * persistence entirely
		 */
		var parsed map[string]any
		_ = json.Unmarshal(body, &parsed)

		if p == provider.Slack && str(parsed["type"]) == "url_verification" {
			respondJSON(w, http.StatusOK, map[string]string{"challenge": str(parsed["challenge"])})
			return
		}
		if p == provider.Discord {
			if n, ok := parsed["type"].(float64); ok && int(n) == 1 {
				respondJSON(w, http.StatusOK, map[string]int{"type": 1})
				return
			}
		}

		headers := make(map[string]string)
		for key, values := range r.Header {
			if len(values) > 0 {
				headers[key] = values[0]
			}
		}

		ev, err := eventService.Ingest(r.Context(), event.Request{
			Provider: p,
			Body:     body,
			Headers:  headers,
			RemoteIP: r.Header.Get("x-forwarded-for"),
		})
		if errors.Is(err, event.ErrMalformedPayload) {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid payload"})
			return
		}
		if err != nil {
			respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to store webhook"})
			return
		}

		// Chat-platform interactive contracts require a synchronous
		// acknowledgment body rather than the generic ingest response
		if p == provider.Slack && str(parsed["command"]) != "" {
			respondJSON(w, http.StatusOK, map[string]string{
				"response_type": "ephemeral",
				"text":          fmt.Sprintf("Command received: %s %s", str(parsed["command"]), str(parsed["text"])),
			})
			return
		}
		if p == provider.Discord && str(parsed["t"]) == "INTERACTION_CREATE" {
			name := "Unknown"
			if n := str(dig(parsed, "d", "data", "name")); n != "" {
				name = n
			}
			respondJSON(w, http.StatusOK, map[string]any{
				"type": 4,
				"data": map[string]string{"content": "Command received: " + name},
			})
			return
		}

		respondJSON(w, http.StatusOK, ingestResponse{
			Success:        true,
			ID:             ev.ID,
			Provider:       ev.Provider.String(),
			EventType:      ev.EventType,
			SignatureValid: ev.SignatureValid,
		})
	})
}

// getWebhook handles GET /webhooks/{provider}: a static capability probe,
// plus the subscription handshake for providers that verify over GET
func getWebhook() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := provider.NewProvider(chi.URLParam(r, "provider"))
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid provider", Supported: providerNames()})
			return
		}

		// Asana answers its subscription handshake by echoing hook_secret
		if p == provider.Asana {
			if secret := r.URL.Query().Get("hook_secret"); secret != "" {
				respondJSON(w, http.StatusOK, map[string]string{"hook_secret": secret})
				return
			}
		}

		respondJSON(w, http.StatusOK, probeResponse{
			Provider:  p.String(),
			Status:    "active",
			Endpoint:  "/webhooks/" + p.String(),
			Signature: p.Scheme().String(),
		})
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func providerNames() []string {
	names := make([]string, 0, len(provider.All()))
	for _, p := range provider.All() {
		names = append(names, p.String())
	}
	return names
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func dig(v any, path ...string) any {
	for _, key := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[key]
	}
	return v
}
