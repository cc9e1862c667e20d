package chat

import (
	"sync"

	"github.com/lukebdev/termlink/internal/core"
)

// Sink receives live events for one conversation. Sinks may be slow or
// broken; a panicking sink must not starve the others.
type Sink func(core.Event)

// Bus fans events out to the live subscribers of a conversation id.
// Membership only: no ordering guarantee among sinks, no replay for
// late subscribers.
type Bus struct {
	mu     sync.Mutex
	sinks  map[string]map[int]Sink
	nextID int
}

func NewBus() *Bus {
	return &Bus{
		sinks: make(map[string]map[int]Sink),
	}
}

// Subscribe registers a sink and returns its deregistration func.
func (b *Bus) Subscribe(conversationID string, sink Sink) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	set := b.sinks[conversationID]
	if set == nil {
		set = make(map[int]Sink)
		b.sinks[conversationID] = set
	}
	id := b.nextID
	b.nextID++
	set[id] = sink

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		// Ids are unique across the bus, so a missing id means this
		// registration is already gone. The registry entry may by now
		// belong to newer subscribers and must be left alone.
		cur := b.sinks[conversationID]
		if _, live := cur[id]; !live {
			return
		}
		delete(cur, id)
		if len(cur) == 0 {
			delete(b.sinks, conversationID)
		}
	}
}

// Broadcast delivers the event to every currently-registered sink. A
// sink that panics is skipped; delivery to the rest continues.
func (b *Bus) Broadcast(conversationID string, event core.Event) {
	b.mu.Lock()
	targets := make([]Sink, 0, len(b.sinks[conversationID]))
	for _, s := range b.sinks[conversationID] {
		targets = append(targets, s)
	}
	b.mu.Unlock()

	for _, sink := range targets {
		deliver(sink, event)
	}
}

func deliver(sink Sink, event core.Event) {
	defer func() {
		_ = recover()
	}()
	sink(event)
}

// ConversationSummary reports one conversation's live subscriber count.
type ConversationSummary struct {
	ConversationID string `json:"conversationId"`
	Subscribers    int    `json:"subscribers"`
}

// Active lists conversations that currently have subscribers.
func (b *Bus) Active() []ConversationSummary {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]ConversationSummary, 0, len(b.sinks))
	for cid, set := range b.sinks {
		out = append(out, ConversationSummary{ConversationID: cid, Subscribers: len(set)})
	}
	return out
}
