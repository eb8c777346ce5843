package chat_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chatmodel "github.com/MIGUELNINOSILVA/makers/internal/model/chat"
	chatservice "github.com/MIGUELNINOSILVA/makers/internal/service/chat"
)

func TestDispatchPostsWebhookPayload(t *testing.T) {
	received := make(chan map[string]string, 1)
	agent := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		received <- payload
		w.WriteHeader(http.StatusOK)
	}))
	defer agent.Close()

	pub := newRecordingPublisher()
	d := chatservice.NewWebhookDispatcher(agent.URL, time.Second, pub)
	d.Dispatch(context.Background(), "s1", "hola", "")

	select {
	case payload := <-received:
		if payload["message"] != "hola" || payload["session_id"] != "s1" {
			t.Fatalf("unexpected payload: %+v", payload)
		}
		if payload["user_id"] != chatservice.DefaultUserID {
			t.Fatalf("expected default user id, got %q", payload["user_id"])
		}
		if payload["timestamp"] == "" {
			t.Fatal("payload must carry a timestamp")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("agent endpoint was never called")
	}

	// A successful call publishes nothing.
	time.Sleep(50 * time.Millisecond)
	if _, events := pub.snapshot(); len(events) != 0 {
		t.Fatalf("unexpected events after success: %+v", events)
	}
}

func TestDispatchFailureCompensates(t *testing.T) {
	agent := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer agent.Close()

	pub := newRecordingPublisher()
	d := chatservice.NewWebhookDispatcher(agent.URL, time.Second, pub)
	d.Dispatch(context.Background(), "s1", "hola", "u1")

	pub.waitFor(t, 2)
	channels, events := pub.snapshot()
	if events[0].Event != chatmodel.EventErrorMessage {
		t.Fatalf("expected error_message first, got %+v", events[0])
	}
	if events[1].Event != chatmodel.EventTyping || events[1].Typing == nil || *events[1].Typing {
		t.Fatalf("expected typing:false last, got %+v", events[1])
	}
	for _, channel := range channels {
		if channel != "chat_s1" {
			t.Fatalf("compensation on wrong channel: %s", channel)
		}
	}
}

func TestDispatchTimeoutCompensates(t *testing.T) {
	release := make(chan struct{})
	agent := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer agent.Close()
	defer close(release)

	pub := newRecordingPublisher()
	d := chatservice.NewWebhookDispatcher(agent.URL, 100*time.Millisecond, pub)
	d.Dispatch(context.Background(), "s1", "hola", "u1")

	pub.waitFor(t, 2)
	_, events := pub.snapshot()
	if events[0].Event != chatmodel.EventErrorMessage || events[1].Event != chatmodel.EventTyping {
		t.Fatalf("timeout must follow the failure path, got %+v", events)
	}
}
