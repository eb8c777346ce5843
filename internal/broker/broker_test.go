package broker

import (
	"testing"
	"time"

	"github.com/MIGUELNINOSILVA/makers/internal/model/chat"
)

func receiveOne(t *testing.T, ch <-chan chat.Event) chat.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return chat.Event{}
	}
}

func TestPublishReachesAllSubscribersInOrder(t *testing.T) {
	b := New()
	first, cancelFirst := b.Subscribe("chat_s1")
	defer cancelFirst()
	second, cancelSecond := b.Subscribe("chat_s1")
	defer cancelSecond()

	b.Publish("chat_s1", chat.NewTyping(true))
	b.Publish("chat_s1", chat.NewTyping(false))

	for _, ch := range []<-chan chat.Event{first, second} {
		on := receiveOne(t, ch)
		off := receiveOne(t, ch)
		if on.Typing == nil || !*on.Typing {
			t.Fatalf("expected typing:true first, got %+v", on)
		}
		if off.Typing == nil || *off.Typing {
			t.Fatalf("expected typing:false second, got %+v", off)
		}
	}
}

func TestPublishWithoutSubscribersIsNoOp(t *testing.T) {
	b := New()
	b.Publish("chat_nobody", chat.NewConnectionEstablished())
}

func TestPublishDoesNotCrossChannels(t *testing.T) {
	b := New()
	other, cancel := b.Subscribe("chat_other")
	defer cancel()

	b.Publish("chat_s1", chat.NewConnectionEstablished())

	select {
	case ev := <-other:
		t.Fatalf("unexpected delivery to other channel: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	ch, cancel := b.Subscribe("chat_s1")
	cancel()
	cancel() // idempotent

	if _, open := <-ch; open {
		t.Fatal("expected channel closed after cancel")
	}
	b.Publish("chat_s1", chat.NewConnectionEstablished())
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := New()
	_, cancel := b.Subscribe("chat_s1")
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			b.Publish("chat_s1", chat.NewTyping(true))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}
