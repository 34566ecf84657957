package webhook

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pedefacil/backend/internal/model/conversation"
	"github.com/pedefacil/backend/pkg/utils"
)

// Processor runs one conversational turn.
type Processor interface {
	ProcessMessage(ctx context.Context, msg conversation.InboundMessage) conversation.Reply
}

// Handler maps the messaging-gateway envelope onto the bot pipeline.
type Handler struct {
	bot Processor
}

// New creates the webhook handler.
func New(bot Processor) *Handler {
	return &Handler{bot: bot}
}

// RegisterRoutes registers the inbound message route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/webhook", h.handleInbound)
}

// envelope is the wire format the WhatsApp gateway delivers.
type envelope struct {
	MessageID   string         `json:"messageId"`
	From        string         `json:"from"`
	To          string         `json:"to"`
	Type        string         `json:"type"`
	Text        string         `json:"text,omitempty"`
	Latitude    *float64       `json:"latitude,omitempty"`
	Longitude   *float64       `json:"longitude,omitempty"`
	Timestamp   int64          `json:"timestamp,omitempty"`
	ContextData map[string]any `json:"contextData,omitempty"`
}

func (h *Handler) handleInbound(w http.ResponseWriter, r *http.Request) {
	var payload envelope
	decoder := json.NewDecoder(r.Body)
	// Numbers inside contextData keep their wire form; the pipeline coerces
	// them explicitly instead of trusting float64 round-trips.
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.From == "" {
		utils.RespondError(w, http.StatusBadRequest, "from is required")
		return
	}

	msg := conversation.InboundMessage{
		MessageID:   payload.MessageID,
		ChannelID:   payload.From,
		Text:        payload.Text,
		ContextData: payload.ContextData,
	}

	switch payload.Type {
	case "text":
		msg.Kind = conversation.KindText
	case "location":
		if payload.Latitude == nil || payload.Longitude == nil {
			utils.RespondError(w, http.StatusBadRequest, "latitude and longitude are required for location messages")
			return
		}
		msg.Kind = conversation.KindLocation
		msg.Latitude = *payload.Latitude
		msg.Longitude = *payload.Longitude
	default:
		// Audio, stickers, contacts and the like: the pipeline answers with
		// the fixed guidance reply, still HTTP 200 for the gateway.
		msg.Kind = conversation.KindUnsupported
	}

	reply := h.bot.ProcessMessage(r.Context(), msg)
	utils.RespondJSON(w, http.StatusOK, reply)
}
