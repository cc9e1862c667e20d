package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lukebdev/termlink/internal/core"
	"github.com/lukebdev/termlink/internal/service/chat"
	"github.com/lukebdev/termlink/internal/service/ratelimit"
	"github.com/lukebdev/termlink/internal/service/retrieval"
	"github.com/lukebdev/termlink/internal/service/terminal"
)

type countingStore struct {
	inserted int
}

func (c *countingStore) Search(ctx context.Context, strategy string, embedding []float32, matchCount int, minSimilarity float32) ([]core.RetrievalResult, error) {
	return nil, nil
}

func (c *countingStore) Insert(ctx context.Context, docs []core.Document) (int, error) {
	c.inserted += len(docs)
	return len(docs), nil
}

func (c *countingStore) Strategies() []string { return []string{"documents", "kb_chunks"} }
func (c *countingStore) Table() string        { return "documents" }

type noopEmbedder struct{}

func (noopEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1}, nil
}

func (noopEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1}
	}
	return out, nil
}

type testEnv struct {
	server   *httptest.Server
	recorder *chat.Recorder
	store    *countingStore
}

func newTestEnv(t *testing.T, adjust func(*Deps)) *testEnv {
	t.Helper()

	store := &countingStore{}
	bus := chat.NewBus()
	recorder := chat.NewRecorder(chat.NewStore(), bus, nil)

	deps := Deps{
		Terminal:    terminal.NewService(recorder, nil, nil, nil),
		Ingestor:    retrieval.NewIngestor(noopEmbedder{}, store, nil),
		Recorder:    recorder,
		Bus:         bus,
		AdminToken:  "secret",
		Environment: "test",
	}
	if adjust != nil {
		adjust(&deps)
	}

	s := NewServer("127.0.0.1", 0, deps)
	ts := httptest.NewServer(s.http.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{server: ts, recorder: recorder, store: store}
}

func postJSON(t *testing.T, url string, body any, headers map[string]string) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp
}

func TestCommand_MissingInput(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := postJSON(t, env.server.URL+"/api/command", map[string]string{"input": "  "}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCommand_StaticReply(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := postJSON(t, env.server.URL+"/api/command", map[string]string{"input": "skills", "locale": "en"}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body terminal.Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(body.Reply, "> SKILLS") {
		t.Errorf("reply = %q", body.Reply)
	}
	if body.ConversationID == "" {
		t.Error("conversation id missing")
	}
}

func TestCommand_RateLimited(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		d.Limiter = ratelimit.New(map[string]ratelimit.ScopeConfig{
			ratelimit.ScopeGlobal: {Window: time.Minute, Max: 1},
		})
	})

	first := postJSON(t, env.server.URL+"/api/command", map[string]string{"input": "help"}, nil)
	first.Body.Close()
	if first.StatusCode != http.StatusOK {
		t.Fatalf("first request status = %d", first.StatusCode)
	}
	if first.Header.Get("RateLimit-Limit") != "1" {
		t.Errorf("RateLimit-Limit = %q", first.Header.Get("RateLimit-Limit"))
	}

	second := postJSON(t, env.server.URL+"/api/command", map[string]string{"input": "help"}, nil)
	second.Body.Close()
	if second.StatusCode != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", second.StatusCode)
	}
	if second.Header.Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
}

func TestRateLimit_CoversStatusAndChatSurfaces(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		d.Limiter = ratelimit.New(map[string]ratelimit.ScopeConfig{
			ratelimit.ScopeGlobal: {Window: time.Minute, Max: 100},
			ratelimit.ScopeAI:     {Window: time.Minute, Max: 1},
		})
	})

	ping, err := http.Get(env.server.URL + "/api/status/ping")
	if err != nil {
		t.Fatalf("ping request: %v", err)
	}
	ping.Body.Close()
	if ping.Header.Get("RateLimit-Limit") != "100" {
		t.Errorf("ping RateLimit-Limit = %q, want baseline scope applied", ping.Header.Get("RateLimit-Limit"))
	}

	first, err := http.Get(env.server.URL + "/api/chat/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	first.Body.Close()
	if first.StatusCode != http.StatusOK {
		t.Fatalf("first health status = %d", first.StatusCode)
	}

	second, err := http.Get(env.server.URL + "/api/chat/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	second.Body.Close()
	if second.StatusCode != http.StatusTooManyRequests {
		t.Errorf("second health status = %d, want 429 from the ai scope", second.StatusCode)
	}
	if second.Header.Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
}

func TestRateLimit_GuardsIngestBeforeAdminCheck(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		d.Limiter = ratelimit.New(map[string]ratelimit.ScopeConfig{
			ratelimit.ScopeGlobal: {Window: time.Minute, Max: 0},
		})
	})

	resp := postJSON(t, env.server.URL+"/api/rag/ingest",
		map[string]any{"items": []map[string]string{{"content": "EN: fact"}}},
		map[string]string{"X-Admin-Token": "secret"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", resp.StatusCode)
	}
	if env.store.inserted != 0 {
		t.Errorf("inserted = %d, want 0", env.store.inserted)
	}
}

func TestIngest_RequiresAdminToken(t *testing.T) {
	env := newTestEnv(t, nil)

	items := map[string]any{"items": []map[string]string{{"content": "EN: fact"}}}

	resp := postJSON(t, env.server.URL+"/api/rag/ingest", items, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
	if env.store.inserted != 0 {
		t.Errorf("inserted = %d, want 0", env.store.inserted)
	}

	ok := postJSON(t, env.server.URL+"/api/rag/ingest", items,
		map[string]string{"X-Admin-Token": "secret"})
	defer ok.Body.Close()
	if ok.StatusCode != http.StatusOK {
		t.Fatalf("authorized status = %d", ok.StatusCode)
	}
	if env.store.inserted != 1 {
		t.Errorf("inserted = %d, want 1", env.store.inserted)
	}
}

func TestIngest_FailsClosedWithoutConfiguredToken(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) { d.AdminToken = "" })

	resp := postJSON(t, env.server.URL+"/api/rag/ingest",
		map[string]any{"items": []map[string]string{{"content": "EN: fact"}}},
		map[string]string{"X-Admin-Token": ""})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestStatusAndPing(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := http.Get(env.server.URL + "/api/status")
	if err != nil {
		t.Fatalf("status request: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "online" || body["environment"] != "test" {
		t.Errorf("body = %v", body)
	}
	if body["aiEnabled"] != false {
		t.Errorf("aiEnabled = %v, want false", body["aiEnabled"])
	}

	ping, err := http.Get(env.server.URL + "/api/status/ping")
	if err != nil {
		t.Fatalf("ping request: %v", err)
	}
	defer ping.Body.Close()

	var pong map[string]string
	if err := json.NewDecoder(ping.Body).Decode(&pong); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pong["message"] != "pong" {
		t.Errorf("pong = %v", pong)
	}
}

func TestChatMessage_DirectInjection(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := postJSON(t, env.server.URL+"/api/chat/message", map[string]string{"text": "hello there"}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		OK             bool   `json:"ok"`
		ConversationID string `json:"conversationId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.OK || body.ConversationID == "" {
		t.Errorf("body = %+v", body)
	}

	history := env.recorder.History(body.ConversationID)
	if len(history) != 1 || history[0].Author != core.AuthorUser || history[0].Text != "hello there" {
		t.Errorf("history = %+v", history)
	}

	empty := postJSON(t, env.server.URL+"/api/chat/message", map[string]string{"text": "  "}, nil)
	empty.Body.Close()
	if empty.StatusCode != http.StatusBadRequest {
		t.Errorf("empty text status = %d, want 400", empty.StatusCode)
	}
}

func TestChatHealth_ReportsBridge(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		d.BridgeOnline = func() bool { return true }
	})

	resp, err := http.Get(env.server.URL + "/api/chat/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["bridgeOnline"] != true {
		t.Errorf("body = %v", body)
	}
}

func TestChatEvents_StreamsLiveMessages(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := http.Get(env.server.URL + "/api/chat/events/cid-stream")
	if err != nil {
		t.Fatalf("events request: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Content-Type"); got != "application/x-ndjson" {
		t.Errorf("content type = %q", got)
	}

	scanner := bufio.NewScanner(resp.Body)

	if !scanner.Scan() {
		t.Fatalf("no connected event: %v", scanner.Err())
	}
	var connected core.Event
	if err := json.Unmarshal(scanner.Bytes(), &connected); err != nil {
		t.Fatalf("decode connected event: %v", err)
	}
	if connected.Type != core.EventConnected || connected.ConversationID != "cid-stream" {
		t.Errorf("connected = %+v", connected)
	}

	env.recorder.Record(context.Background(), "cid-stream", core.AuthorUser, "hello")

	if !scanner.Scan() {
		t.Fatalf("no message event: %v", scanner.Err())
	}
	var msg core.Event
	if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
		t.Fatalf("decode message event: %v", err)
	}
	if msg.Type != core.EventMessage || msg.Text != "hello" || msg.Author != core.AuthorUser {
		t.Errorf("message = %+v", msg)
	}
}

func TestRecruiterBannerLocalized(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := http.Get(env.server.URL + "/api/recruiter?lang=fi")
	if err != nil {
		t.Fatalf("recruiter request: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["locale"] != "fi" || !strings.Contains(body["message"], "avustaja") {
		t.Errorf("body = %v", body)
	}
}
