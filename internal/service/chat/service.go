package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MIGUELNINOSILVA/makers/internal/analysis/listing"
	"github.com/MIGUELNINOSILVA/makers/internal/model/chat"
)

var (
	ErrMissingSendFields    = errors.New("mensaje y session_id son requeridos")
	ErrMissingReceiveFields = errors.New("session_id y message son requeridos")
)

// Publisher pushes an event to every current subscriber of a broadcast
// channel. Injected so tests and alternate transports can swap it.
type Publisher interface {
	Publish(channel string, event chat.Event)
}

// Dispatcher forwards a user message to the external agent.
type Dispatcher interface {
	Dispatch(ctx context.Context, sessionID, message, userID string)
}

// Service orchestrates the relay between the end user and the external
// agent. It keeps no per-session state; ordering within a session follows
// the calling sequence of Send and Receive.
type Service struct {
	publisher  Publisher
	dispatcher Dispatcher
}

// NewService wires the orchestrator to its broadcast and dispatch capabilities.
func NewService(publisher Publisher, dispatcher Dispatcher) *Service {
	return &Service{publisher: publisher, dispatcher: dispatcher}
}

// ResolveSession returns an explicit session id verbatim so rejoining is
// idempotent. Absent an id it mints one from the user, the wall clock and
// a random suffix; the suffix keeps ids distinct even for connects landing
// in the same millisecond.
func ResolveSession(suppliedID, userID string) string {
	if suppliedID != "" {
		return suppliedID
	}
	if userID == "" {
		userID = "anonymous"
	}
	return fmt.Sprintf("session-%s-%d-%s", userID, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Connect joins (or creates) a session and announces it on the channel.
func (s *Service) Connect(_ context.Context, suppliedID, userID string) string {
	sessionID := ResolveSession(suppliedID, userID)
	s.publisher.Publish(chat.Channel(sessionID), chat.NewConnectionEstablished())
	return sessionID
}

// Send relays the user's message: echo it to the channel, raise the typing
// indicator, then hand the message to the dispatcher. The dispatcher does
// not block this flow; its failure is compensated on the channel later.
func (s *Service) Send(ctx context.Context, sessionID, userID, message string) error {
	if message == "" || sessionID == "" {
		return ErrMissingSendFields
	}

	channel := chat.Channel(sessionID)
	s.publisher.Publish(channel, chat.NewUserMessage(message, userID))
	s.publisher.Publish(channel, chat.NewTyping(true))
	s.dispatcher.Dispatch(ctx, sessionID, message, userID)
	return nil
}

// Receive handles the agent's out-of-band reply: clear the typing
// indicator first, then publish the reply either structured (list-shaped
// text) or verbatim.
func (s *Service) Receive(_ context.Context, sessionID, message string, recommendations []json.RawMessage) error {
	if sessionID == "" || message == "" {
		return ErrMissingReceiveFields
	}

	channel := chat.Channel(sessionID)
	s.publisher.Publish(channel, chat.NewTyping(false))

	if reply, ok := listing.Extract(message); ok {
		s.publisher.Publish(channel, chat.NewAIMessageFormatted(reply, recommendations))
	} else {
		s.publisher.Publish(channel, chat.NewAIMessage(message, recommendations))
	}
	return nil
}

// Disconnect announces the user leaving. Succeeds regardless of input.
func (s *Service) Disconnect(_ context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	s.publisher.Publish(chat.Channel(sessionID), chat.NewUserDisconnected())
}
