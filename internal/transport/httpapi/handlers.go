package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lukebdev/termlink/internal/core"
	"github.com/lukebdev/termlink/internal/service/retrieval"
	"github.com/lukebdev/termlink/internal/service/terminal"
)

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Input          string `json:"input"`
		Locale         string `json:"locale"`
		ConversationID string `json:"conversationId"`
	}
	if err := readBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	resp, err := s.deps.Terminal.Execute(r.Context(), terminal.Request{
		Input:          body.Input,
		Locale:         body.Locale,
		ConversationID: body.ConversationID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRAGQuery(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query         string  `json:"query"`
		MatchCount    int     `json:"matchCount"`
		MinSimilarity float32 `json:"minSimilarity"`
		PreferLang    string  `json:"preferLang"`
		ExactLang     bool    `json:"exactLang"`
	}
	if err := readBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	results, strategy, err := s.deps.Assembler.Query(r.Context(), retrieval.QueryParams{
		Query:         body.Query,
		MatchCount:    body.MatchCount,
		MinSimilarity: body.MinSimilarity,
		PreferLocale:  body.PreferLang,
		ExactLocale:   body.ExactLang,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results":  results,
		"strategy": strategy,
		"count":    len(results),
	})
}

func (s *Server) handleRAGIngest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []struct {
			Content string `json:"content"`
		} `json:"items"`
	}
	if err := readBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	contents := make([]string, 0, len(body.Items))
	for _, it := range body.Items {
		contents = append(contents, it.Content)
	}

	inserted, table, err := s.deps.Ingestor.Ingest(r.Context(), contents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"inserted": inserted,
		"table":    table,
	})
}

func (s *Server) handleRAGBilingualIngest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text       string `json:"text"`
		SourceLang string `json:"sourceLang"`
	}
	if err := readBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	inserted, table, langs, err := s.deps.Ingestor.BilingualIngest(r.Context(), body.Text, body.SourceLang)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"inserted": inserted,
		"table":    table,
		"langs":    langs,
	})
}

// handleChatMessage injects a message straight into a conversation,
// bypassing the command pipeline. The frontend uses it for free chat
// turns that should reach the operator mirror without command parsing.
func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ConversationID string `json:"conversationId"`
		Author         string `json:"author"`
		Text           string `json:"text"`
	}
	if err := readBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		writeError(w, fmt.Errorf("text required: %w", core.ErrValidation))
		return
	}

	author := body.Author
	if author == "" {
		author = core.AuthorUser
	}

	cid := s.deps.Recorder.Record(r.Context(), body.ConversationID, author, body.Text)
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":             true,
		"conversationId": cid,
	})
}

// handleChatEvents streams a conversation's live events as newline
// delimited JSON until the client goes away. No replay: the stream
// starts with a connected marker and continues from there.
func (s *Server) handleChatEvents(w http.ResponseWriter, r *http.Request) {
	cid := r.PathValue("cid")
	if strings.TrimSpace(cid) == "" {
		writeError(w, fmt.Errorf("conversation id required: %w", core.ErrValidation))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, fmt.Errorf("streaming unsupported: %w", core.ErrUnavailable))
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	// Buffered so one slow client drops its own events instead of
	// stalling the broadcast.
	events := make(chan core.Event, 16)
	unsubscribe := s.deps.Bus.Subscribe(cid, func(e core.Event) {
		select {
		case events <- e:
		default:
		}
	})
	defer unsubscribe()

	writeEvent(w, core.Event{
		Type:           core.EventConnected,
		ConversationID: cid,
		Timestamp:      time.Now().UnixMilli(),
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-events:
			writeEvent(w, e)
			flusher.Flush()
		}
	}
}

func (s *Server) handleChatHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":        "ok",
		"aiEnabled":     s.deps.AIEnabled,
		"conversations": s.deps.Bus.Active(),
	}
	if s.deps.BridgeOnline != nil {
		body["bridgeOnline"] = s.deps.BridgeOnline()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "online",
		"name":        core.AppName,
		"version":     core.AppVersion,
		"environment": s.deps.Environment,
		"aiEnabled":   s.deps.AIEnabled,
		"uptime":      int(time.Since(s.startedAt).Seconds()),
		"time":        time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

// handleRecruiter serves the fixed hiring banner the frontend shows in
// recruiter mode.
func (s *Server) handleRecruiter(w http.ResponseWriter, r *http.Request) {
	locale := strings.ToLower(r.URL.Query().Get("lang"))
	message := "Hi! I'm the assistant for Luke's terminal portfolio. Ask me about his skills, projects or experience, or type contact <message> to reach him directly."
	if locale == core.LocaleFI {
		message = "Hei! Olen Luken terminaaliportfolion avustaja. Kysy hänen taidoistaan, projekteistaan tai kokemuksestaan, tai kirjoita contact <viesti> niin tavoitat hänet suoraan."
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": message,
		"locale":  localeOrDefault(locale),
	})
}

func localeOrDefault(locale string) string {
	if locale == core.LocaleFI {
		return core.LocaleFI
	}
	return core.LocaleEN
}

func writeEvent(w http.ResponseWriter, e core.Event) {
	_ = writeNDJSON(w, e)
}
