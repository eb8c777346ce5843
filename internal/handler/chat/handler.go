package chat

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/MIGUELNINOSILVA/makers/internal/model/chat"
	chatservice "github.com/MIGUELNINOSILVA/makers/internal/service/chat"
	"github.com/MIGUELNINOSILVA/makers/pkg/utils"
)

const heartbeatInterval = 15 * time.Second

// Subscriber grants read access to a channel's event feed. The returned
// cancel must be called when the consumer disconnects.
type Subscriber interface {
	Subscribe(channel string) (<-chan chat.Event, func())
}

// Handler exposes the chat relay over HTTP: the four REST flows plus the
// SSE and websocket subscription endpoints.
type Handler struct {
	chatSvc  *chatservice.Service
	subs     Subscriber
	upgrader websocket.Upgrader
}

// New creates the chat handler.
func New(chatSvc *chatservice.Service, subs Subscriber) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		subs:    subs,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/connect", h.handleConnect)
	r.Post("/chat/send", h.handleSend)
	r.Post("/chat/receive", h.handleReceive)
	r.Post("/chat/disconnect", h.handleDisconnect)
	r.Get("/chat/stream/{sessionID}", h.handleStream)
	r.Get("/chat/ws/{sessionID}", h.handleWebSocket)
}

func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID    string `json:"user_id"`
		SessionID string `json:"session_id"`
	}
	// The body is optional: an anonymous first connect sends none.
	_ = json.NewDecoder(r.Body).Decode(&payload)

	sessionID := h.chatSvc.Connect(r.Context(), payload.SessionID, payload.UserID)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"session_id": sessionID,
	})
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message   string `json:"message"`
		UserID    string `json:"user_id"`
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.chatSvc.Send(r.Context(), payload.SessionID, payload.UserID, payload.Message); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Mensaje enviado a procesar",
	})
}

func (h *Handler) handleReceive(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID       string            `json:"session_id"`
		Message         string            `json:"message"`
		Recommendations []json.RawMessage `json:"recommendations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.chatSvc.Receive(r.Context(), payload.SessionID, payload.Message, payload.Recommendations); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Printf("[chat] reply relayed to channel %s", chat.Channel(payload.SessionID))
	utils.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"session_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	h.chatSvc.Disconnect(r.Context(), payload.SessionID)
	utils.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleStream pushes a session's events over Server-Sent Events until the
// client goes away. Heartbeats keep intermediaries from closing idle streams.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	events, cancel := h.subs.Subscribe(chat.Channel(sessionID))
	defer cancel()

	utils.SetupSSEHeaders(w)
	log.Printf("[sse] opening stream for session=%s", sessionID)

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	utils.SendSSEChunk(w, flusher, map[string]any{
		"event":   "status",
		"message": "stream established",
	})

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[sse] closing stream for session=%s", sessionID)
			return
		case event := <-events:
			utils.SendSSEChunk(w, flusher, event)
		case t := <-ticker.C:
			utils.SendSSEChunk(w, flusher, map[string]any{
				"event": "heartbeat",
				"time":  t.UTC().Format(time.RFC3339),
			})
		}
	}
}

// handleWebSocket serves the same event feed over a websocket, one JSON
// text frame per event.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for session=%s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	events, cancel := h.subs.Subscribe(chat.Channel(sessionID))
	defer cancel()

	// Drain inbound frames so close handshakes are noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case event := <-events:
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("[ws] write failed for session=%s: %v", sessionID, err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
