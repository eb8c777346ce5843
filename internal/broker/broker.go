package broker

import (
	"sync"

	"github.com/MIGUELNINOSILVA/makers/internal/model/chat"
)

// subscriberBuffer bounds how far a slow consumer may lag before events
// are dropped for it. Delivery is best-effort: there is no redelivery.
const subscriberBuffer = 16

// Broker fans events out to every current subscriber of a named channel.
// Publishing is fire-and-forget; the publisher never learns whether zero
// or many subscribers were listening.
type Broker struct {
	mu       sync.RWMutex
	channels map[string]map[chan chat.Event]struct{}
}

// New creates an empty in-process broker.
func New() *Broker {
	return &Broker{channels: make(map[string]map[chan chat.Event]struct{})}
}

// Publish delivers event to all subscribers of channel, in publish order
// per subscriber. Subscribers whose buffer is full miss the event.
func (b *Broker) Publish(channel string, event chat.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.channels[channel] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers interest in a channel. The returned cancel func must
// be called when the consumer goes away; it closes the event channel.
func (b *Broker) Subscribe(channel string) (<-chan chat.Event, func()) {
	ch := make(chan chat.Event, subscriberBuffer)

	b.mu.Lock()
	subs, ok := b.channels[channel]
	if !ok {
		subs = make(map[chan chat.Event]struct{})
		b.channels[channel] = subs
	}
	subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if subs, ok := b.channels[channel]; ok {
			if _, present := subs[ch]; present {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(b.channels, channel)
			}
		}
	}
	return ch, cancel
}
