package chat

import (
	"encoding/json"
	"time"
)

// Event kinds pushed over a session channel.
const (
	EventConnectionEstablished = "connection_established"
	EventUserMessage           = "user_message"
	EventTyping                = "typing"
	EventAIMessage             = "ai_message"
	EventAIMessageFormatted    = "ai_message_formatted"
	EventErrorMessage          = "error_message"
	EventUserDisconnected      = "user_disconnected"
)

// Channel derives the broadcast channel name for a session.
func Channel(sessionID string) string {
	return "chat_" + sessionID
}

// Event is the envelope delivered to every subscriber of a session channel.
// Events are built once and never mutated; optional fields are pointers so
// each kind serializes exactly the fields it carries.
type Event struct {
	Event           string             `json:"event"`
	Type            string             `json:"type,omitempty"`
	Message         string             `json:"message,omitempty"`
	Typing          *bool              `json:"typing,omitempty"`
	UserID          string             `json:"user_id,omitempty"`
	Data            *FormattedReply    `json:"data,omitempty"`
	Recommendations *[]json.RawMessage `json:"recommendations,omitempty"`
	Timestamp       string             `json:"timestamp"`
}

func stamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// NewConnectionEstablished announces a freshly joined session.
func NewConnectionEstablished() Event {
	return Event{Event: EventConnectionEstablished, Type: "system", Timestamp: stamp()}
}

// NewUserMessage echoes the user's own message back to the channel.
func NewUserMessage(message, userID string) Event {
	return Event{Event: EventUserMessage, Type: "user", Message: message, UserID: userID, Timestamp: stamp()}
}

// NewTyping toggles the assistant typing indicator.
func NewTyping(active bool) Event {
	return Event{Event: EventTyping, Typing: &active, Timestamp: stamp()}
}

// NewAIMessage carries a plain assistant reply. A nil recommendation list
// is normalized to an empty one so subscribers always see the field.
func NewAIMessage(message string, recommendations []json.RawMessage) Event {
	recs := normalizeRecommendations(recommendations)
	return Event{Event: EventAIMessage, Type: "assistant", Message: message, Recommendations: &recs, Timestamp: stamp()}
}

// NewAIMessageFormatted carries a structured assistant reply.
func NewAIMessageFormatted(data FormattedReply, recommendations []json.RawMessage) Event {
	recs := normalizeRecommendations(recommendations)
	return Event{Event: EventAIMessageFormatted, Type: "assistant", Data: &data, Recommendations: &recs, Timestamp: stamp()}
}

// NewErrorMessage surfaces a user-facing failure notice.
func NewErrorMessage(message string) Event {
	return Event{Event: EventErrorMessage, Type: "error", Message: message, Timestamp: stamp()}
}

// NewUserDisconnected announces the user leaving the session.
func NewUserDisconnected() Event {
	return Event{Event: EventUserDisconnected, Type: "system", Message: "Usuario desconectado", Timestamp: stamp()}
}

func normalizeRecommendations(recommendations []json.RawMessage) []json.RawMessage {
	if recommendations == nil {
		return []json.RawMessage{}
	}
	return recommendations
}
