package api

import (
	"crypto/subtle"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/havenmind/haven-server/internal/api/respond"
	"github.com/havenmind/haven-server/internal/webhook"
)

// secretHeader carries the optional shared webhook secret.
const secretHeader = "X-Webhook-Secret"

// WebhookHandler is the HTTP boundary of the ingestion pipeline. The
// provider retries on 5xx, so every processed path answers 200; only an
// undecodable body (or a missing secret when one is configured) is
// rejected.
type WebhookHandler struct {
	processor *webhook.Processor
	secret    string
	log       zerolog.Logger
}

func NewWebhookHandler(p *webhook.Processor, secret string, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{processor: p, secret: secret, log: log}
}

// HandleEvent POST /api/webhooks/voice
func (h *WebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" {
		got := r.Header.Get(secretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			respond.WriteUnauthorized(w, "invalid webhook secret")
			return
		}
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respond.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to process webhook"})
		return
	}

	evt, err := webhook.Decode(body)
	if err != nil {
		h.log.Error().Stack().Err(err).Msg("webhook body is not valid JSON")
		respond.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to process webhook"})
		return
	}

	// Processing failures are logged, never surfaced: the provider must
	// not retry-storm, and the processor's placeholder policy already
	// guarantees the event is not lost.
	if err := h.processor.Process(r.Context(), evt); err != nil {
		h.log.Error().Stack().Err(err).Str("type", evt.RawType).Msg("webhook processing failed")
	}

	respond.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
