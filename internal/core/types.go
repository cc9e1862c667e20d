package core

import "time"

const (
	AppName    = "termlink"
	AppVersion = "0.1.0"
)

// Supported locales. Everything else falls back to the default.
const (
	LocaleEN = "en"
	LocaleFI = "fi"

	DefaultLocale = LocaleEN
)

// HistoryLimit bounds the rolling history kept per conversation.
const HistoryLimit = 50

// Authors recorded in conversation history.
const (
	AuthorUser  = "user"
	AuthorBot   = "bot"
	AuthorAdmin = "admin"
)

// BridgeAuthor tags an entry injected from the operator channel,
// e.g. "bridge:luke".
func BridgeAuthor(source string) string {
	return "bridge:" + source
}

// HistoryEntry is one turn in a conversation's rolling history.
type HistoryEntry struct {
	Author string    `json:"author"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

// Event types delivered to live subscribers.
const (
	EventConnected = "connected"
	EventMessage   = "message"
)

// Event is a single payload fanned out to live subscribers of a conversation.
type Event struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId"`
	Author         string `json:"author,omitempty"`
	Text           string `json:"text,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}

// RetrievalResult is one vector-store hit. Lang is inferred from the
// content-prefix convention (EN:/FI:), not from stored metadata.
type RetrievalResult struct {
	Content string  `json:"content"`
	Score   float32 `json:"similarityScore"`
	Lang    string  `json:"lang,omitempty"`
}

// Document is a content chunk stored alongside its embedding.
type Document struct {
	Content   string
	Embedding []float32
}

// Chat roles for the completion provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one message in a completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
