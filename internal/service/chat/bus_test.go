package chat

import (
	"testing"

	"github.com/lukebdev/termlink/internal/core"
)

func TestBus_BroadcastToZeroSubscribers(t *testing.T) {
	b := NewBus()
	// Must not panic.
	b.Broadcast("nobody", core.Event{Type: core.EventMessage})
}

func TestBus_FanOut(t *testing.T) {
	b := NewBus()

	var got1, got2 []core.Event
	b.Subscribe("c", func(e core.Event) { got1 = append(got1, e) })
	b.Subscribe("c", func(e core.Event) { got2 = append(got2, e) })
	b.Subscribe("other", func(e core.Event) { t.Error("wrong conversation received event") })

	b.Broadcast("c", core.Event{Type: core.EventMessage, Text: "hi"})

	if len(got1) != 1 || len(got2) != 1 {
		t.Fatalf("fan-out incomplete: %d, %d", len(got1), len(got2))
	}
	if got1[0].Text != "hi" {
		t.Errorf("Text = %q", got1[0].Text)
	}
}

func TestBus_PanickingSinkDoesNotBlockOthers(t *testing.T) {
	b := NewBus()

	delivered := 0
	b.Subscribe("c", func(core.Event) { panic("broken sink") })
	b.Subscribe("c", func(core.Event) { delivered++ })
	b.Subscribe("c", func(core.Event) { delivered++ })

	b.Broadcast("c", core.Event{Type: core.EventMessage})

	if delivered != 2 {
		t.Errorf("delivered = %d, want 2", delivered)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()

	count := 0
	unsub := b.Subscribe("c", func(core.Event) { count++ })
	b.Broadcast("c", core.Event{})
	unsub()
	b.Broadcast("c", core.Event{})

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if len(b.Active()) != 0 {
		t.Error("empty conversation should be dropped from registry")
	}
}

func TestBus_StaleUnsubscribeLeavesNewSubscribersAttached(t *testing.T) {
	b := NewBus()

	unsub := b.Subscribe("c", func(core.Event) {})
	unsub()

	count := 0
	b.Subscribe("c", func(core.Event) { count++ })

	// Calling the old deregistration again must not detach the
	// subscriber that reused the conversation id.
	unsub()
	b.Broadcast("c", core.Event{Type: core.EventMessage})

	if count != 1 {
		t.Errorf("delivered = %d, want 1", count)
	}
	if len(b.Active()) != 1 {
		t.Error("conversation must still be registered")
	}
}

func TestBus_Active(t *testing.T) {
	b := NewBus()
	b.Subscribe("a", func(core.Event) {})
	b.Subscribe("a", func(core.Event) {})
	b.Subscribe("b", func(core.Event) {})

	total := 0
	for _, s := range b.Active() {
		total += s.Subscribers
	}
	if total != 3 {
		t.Errorf("total subscribers = %d, want 3", total)
	}
}

func TestBus_NoRetroactiveDelivery(t *testing.T) {
	b := NewBus()
	b.Broadcast("c", core.Event{Text: "before"})

	var got []core.Event
	b.Subscribe("c", func(e core.Event) { got = append(got, e) })

	if len(got) != 0 {
		t.Error("late subscriber must not receive past events")
	}
}
