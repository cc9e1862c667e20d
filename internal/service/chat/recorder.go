package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lukebdev/termlink/internal/core"
)

// BestEffortSink receives every recorded entry on a non-critical path.
// Failures are reported to the recorder's error hook and never reach
// the caller: transcript persistence and operator mirroring both accept
// loss in exchange for latency.
type BestEffortSink interface {
	Record(ctx context.Context, conversationID string, entry core.HistoryEntry) error
}

// Recorder is the single entry point for a message joining a
// conversation: it broadcasts to live subscribers first, appends to the
// rolling history, then fans out to best-effort sinks in the background.
type Recorder struct {
	store   *Store
	bus     *Bus
	sinks   []BestEffortSink
	onError func(sink string, err error)
}

func NewRecorder(store *Store, bus *Bus, onError func(sink string, err error)) *Recorder {
	if onError == nil {
		onError = func(string, error) {}
	}
	return &Recorder{
		store:   store,
		bus:     bus,
		onError: onError,
	}
}

// AddSink registers a best-effort sink. Not safe to call once requests
// are flowing; wire sinks during startup.
func (r *Recorder) AddSink(sink BestEffortSink) {
	r.sinks = append(r.sinks, sink)
}

// Record logs a message into its conversation and returns the
// conversation id, generating one if the caller supplied none.
func (r *Recorder) Record(ctx context.Context, conversationID, author, text string) string {
	cid := conversationID
	if cid == "" {
		cid = uuid.NewString()
	}

	entry := core.HistoryEntry{
		Author: author,
		Text:   text,
		At:     time.Now(),
	}

	// Live delivery first; subscribers should not wait on persistence.
	r.bus.Broadcast(cid, core.Event{
		Type:           core.EventMessage,
		ConversationID: cid,
		Author:         author,
		Text:           text,
		Timestamp:      entry.At.UnixMilli(),
	})

	r.store.Append(cid, entry)

	for _, sink := range r.sinks {
		go func(sink BestEffortSink) {
			if err := sink.Record(context.WithoutCancel(ctx), cid, entry); err != nil {
				r.onError(sinkName(sink), err)
			}
		}(sink)
	}

	return cid
}

// History exposes the bounded rolling history for replay.
func (r *Recorder) History(conversationID string) []core.HistoryEntry {
	return r.store.History(conversationID)
}

func sinkName(sink BestEffortSink) string {
	type named interface{ Name() string }
	if n, ok := sink.(named); ok {
		return n.Name()
	}
	return "sink"
}
