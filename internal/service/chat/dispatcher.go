package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/MIGUELNINOSILVA/makers/internal/model/chat"
)

// DefaultUserID is sent to the agent when the caller did not identify the user.
const DefaultUserID = "1"

const apologyMessage = "El asistente no pudo procesar tu solicitud. Intenta de nuevo."

const defaultDispatchTimeout = 15 * time.Second

// WebhookDispatcher posts user messages to the external agent endpoint in
// fire-and-forget mode: Dispatch returns before the call resolves, and a
// failed call is compensated over the broadcast channel instead of being
// reported to the original caller.
type WebhookDispatcher struct {
	endpoint  string
	timeout   time.Duration
	client    *http.Client
	publisher Publisher
}

// NewWebhookDispatcher builds a dispatcher targeting endpoint. timeout
// bounds each outbound call; a non-positive value falls back to the default.
func NewWebhookDispatcher(endpoint string, timeout time.Duration, publisher Publisher) *WebhookDispatcher {
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}
	return &WebhookDispatcher{
		endpoint:  endpoint,
		timeout:   timeout,
		client:    &http.Client{Timeout: timeout},
		publisher: publisher,
	}
}

type webhookPayload struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
}

// Dispatch detaches the outbound call so the send flow can answer its own
// caller immediately. The inbound context is not reused: it dies with the
// triggering request, while the call runs under its own timeout.
func (d *WebhookDispatcher) Dispatch(_ context.Context, sessionID, message, userID string) {
	go d.post(sessionID, message, userID)
}

func (d *WebhookDispatcher) post(sessionID, message, userID string) {
	if userID == "" {
		userID = DefaultUserID
	}

	body, err := json.Marshal(webhookPayload{
		Message:   message,
		UserID:    userID,
		SessionID: sessionID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		d.compensate(sessionID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		d.compensate(sessionID, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		d.compensate(sessionID, err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		d.compensate(sessionID, fmt.Errorf("agent endpoint returned status %d", resp.StatusCode))
	}
}

// compensate undoes the visible effects of a send whose outbound call
// failed: apologize first, then clear the typing indicator. The order is
// load-bearing; clearing typing last guarantees the indicator never sticks.
func (d *WebhookDispatcher) compensate(sessionID string, err error) {
	log.Printf("[dispatch] agent call failed for session=%s: %v", sessionID, err)

	channel := chat.Channel(sessionID)
	d.publisher.Publish(channel, chat.NewErrorMessage(apologyMessage))
	d.publisher.Publish(channel, chat.NewTyping(false))
}
