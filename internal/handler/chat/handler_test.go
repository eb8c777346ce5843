package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MIGUELNINOSILVA/makers/internal/broker"
	chatmodel "github.com/MIGUELNINOSILVA/makers/internal/model/chat"
	chatservice "github.com/MIGUELNINOSILVA/makers/internal/service/chat"
)

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(context.Context, string, string, string) {}

func setupRouter() (*chi.Mux, *broker.Broker) {
	b := broker.New()
	svc := chatservice.NewService(b, noopDispatcher{})
	h := New(svc, b)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r, b
}

func postJSON(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestConnectReturnsSessionID(t *testing.T) {
	r, _ := setupRouter()

	rec := postJSON(t, r, "/chat/connect", `{"user_id":"7"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Success   bool   `json:"success"`
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success {
		t.Fatalf("expected success, got %s", rec.Body.String())
	}
	if !strings.HasPrefix(body.SessionID, "session-7-") {
		t.Fatalf("unexpected session id %q", body.SessionID)
	}
}

func TestConnectWithoutBody(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/chat/connect", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(body.SessionID, "session-anonymous-") {
		t.Fatalf("unexpected session id %q", body.SessionID)
	}
}

func TestConnectKeepsExplicitSessionID(t *testing.T) {
	r, _ := setupRouter()

	rec := postJSON(t, r, "/chat/connect", `{"session_id":"session-abc"}`)

	var body struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.SessionID != "session-abc" {
		t.Fatalf("expected session-abc, got %q", body.SessionID)
	}
}

func TestSendRejectsMissingFields(t *testing.T) {
	r, _ := setupRouter()

	rec := postJSON(t, r, "/chat/send", `{"session_id":"s1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("expected error field, got %s", rec.Body.String())
	}
}

func TestSendPublishesToSessionChannel(t *testing.T) {
	r, b := setupRouter()
	events, cancel := b.Subscribe("chat_s1")
	defer cancel()

	rec := postJSON(t, r, "/chat/send", `{"session_id":"s1","message":"hola","user_id":"7"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	first := waitEvent(t, events)
	if first.Event != chatmodel.EventUserMessage || first.Message != "hola" {
		t.Fatalf("unexpected first event: %+v", first)
	}
	second := waitEvent(t, events)
	if second.Event != chatmodel.EventTyping || second.Typing == nil || !*second.Typing {
		t.Fatalf("unexpected second event: %+v", second)
	}
}

func TestReceiveRelaysReply(t *testing.T) {
	r, b := setupRouter()
	events, cancel := b.Subscribe("chat_s1")
	defer cancel()

	rec := postJSON(t, r, "/chat/receive", `{"session_id":"s1","message":"claro, con gusto","recommendations":[{"sku":"XPS-15"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	typing := waitEvent(t, events)
	if typing.Event != chatmodel.EventTyping || typing.Typing == nil || *typing.Typing {
		t.Fatalf("expected typing false, got %+v", typing)
	}
	reply := waitEvent(t, events)
	if reply.Event != chatmodel.EventAIMessage || reply.Message != "claro, con gusto" {
		t.Fatalf("unexpected reply event: %+v", reply)
	}
	if reply.Recommendations == nil || len(*reply.Recommendations) != 1 {
		t.Fatalf("expected one recommendation, got %+v", reply.Recommendations)
	}
}

func TestReceiveRejectsMissingFields(t *testing.T) {
	r, _ := setupRouter()

	rec := postJSON(t, r, "/chat/receive", `{"message":"sin sesion"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDisconnectAlwaysSucceeds(t *testing.T) {
	r, b := setupRouter()
	events, cancel := b.Subscribe("chat_s1")
	defer cancel()

	rec := postJSON(t, r, "/chat/disconnect", `{"session_id":"s1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	event := waitEvent(t, events)
	if event.Event != chatmodel.EventUserDisconnected {
		t.Fatalf("unexpected event: %+v", event)
	}

	// Without a session id nothing is published, but the call still succeeds.
	rec = postJSON(t, r, "/chat/disconnect", `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestStreamDeliversEvents(t *testing.T) {
	r, b := setupRouter()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/chat/stream/s1", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.ServeHTTP(rec, req)
	}()

	// Give the handler time to subscribe before publishing.
	time.Sleep(50 * time.Millisecond)
	b.Publish("chat_s1", chatmodel.NewConnectionEstablished())
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream handler did not stop after context cancel")
	}

	body := rec.Body.String()
	if !strings.Contains(body, "stream established") {
		t.Fatalf("missing status frame: %s", body)
	}
	if !strings.Contains(body, chatmodel.EventConnectionEstablished) {
		t.Fatalf("missing published event: %s", body)
	}
}

func waitEvent(t *testing.T, events <-chan chatmodel.Event) chatmodel.Event {
	t.Helper()
	select {
	case event := <-events:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return chatmodel.Event{}
	}
}
