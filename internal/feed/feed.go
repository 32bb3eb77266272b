// Package feed carries file-change events from the orchestrators to live
// subscribers. Topics are owner ids; the browser gallery subscribes to its
// owner topic and refetches on any event.
package feed

import (
	"sync"

	"github.com/csshost/csshost/internal/model"
)

type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// TopicAll receives every event regardless of owner. Admin dashboards use it.
const TopicAll = "*"

type Event struct {
	Op   Op          `json:"op"`
	File *model.File `json:"file"`
}

type Feed interface {
	// Publish delivers the event to subscribers of the file's owner topic
	// and of TopicAll. Never blocks: slow subscribers drop events.
	Publish(event Event)

	// Subscribe returns a channel of events for the topic and a cancel
	// function that must be called to release the subscription.
	Subscribe(topic string) (<-chan Event, func())
}

const subscriberBuffer = 16

// Broker is an in-process Feed. Each orchestrator invocation is stateless, so
// a single broker per process is enough; there is no cross-process fanout.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Event
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[int]chan Event),
	}
}

func (b *Broker) Publish(event Event) {
	if event.File == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, topic := range []string{event.File.OwnerID, TopicAll} {
		for _, ch := range b.subs[topic] {
			select {
			case ch <- event:
			default:
				// Subscriber is not keeping up; the gallery refetches on the
				// next event anyway.
			}
		}
	}
}

func (b *Broker) Subscribe(topic string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan Event, subscriberBuffer)
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan Event)
	}
	b.subs[topic][id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if subs, ok := b.subs[topic]; ok {
			if _, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
			}
			if len(subs) == 0 {
				delete(b.subs, topic)
			}
		}
	}

	return ch, cancel
}
