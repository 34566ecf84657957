package conversation

// Kind discriminates the supported inbound message payloads.
type Kind string

const (
	KindText        Kind = "text"
	KindLocation    Kind = "location"
	KindUnsupported Kind = "unsupported"
)

// InboundMessage is one user turn as delivered by the messaging channel.
// It is created per webhook call and discarded after the turn completes.
type InboundMessage struct {
	MessageID   string         `json:"messageId"`
	ChannelID   string         `json:"channelId"` // phone number, stable identity
	Kind        Kind           `json:"kind"`
	Text        string         `json:"text,omitempty"`
	Latitude    float64        `json:"latitude,omitempty"`
	Longitude   float64        `json:"longitude,omitempty"`
	ContextData map[string]any `json:"contextData,omitempty"`
}

// HasCoordinates reports whether the message itself carries a location.
func (m InboundMessage) HasCoordinates() bool {
	return m.Kind == KindLocation
}
