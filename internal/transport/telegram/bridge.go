// Package telegram bridges conversations to the operator's private
// chat: visitor messages are mirrored out, and the operator can answer
// back into a conversation with /reply.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	tele "gopkg.in/telebot.v3"

	"github.com/lukebdev/termlink/internal/config"
	"github.com/lukebdev/termlink/internal/core"
	"github.com/lukebdev/termlink/pkg/conv"
	"github.com/lukebdev/termlink/pkg/log"
)

const baseContextKey = "base_context"

// Safety margin below Telegram's 4096 character cap.
const maxMessageLen = 4000

// InjectFunc pushes an operator reply into a conversation and returns
// the conversation id it landed in.
type InjectFunc func(ctx context.Context, conversationID, author, text string) string

// TranscriptReader serves the operator's /history command.
type TranscriptReader interface {
	Recent(ctx context.Context, conversationID string, limit int) ([]core.HistoryEntry, error)
}

// Bridge is the operator side of the terminal. It implements the
// contact notifier, a best-effort mirror sink for recorded turns, and
// the lifecycle service interface.
type Bridge struct {
	bot         *tele.Bot
	chatID      int64
	inject      InjectFunc
	transcripts TranscriptReader
	online      atomic.Bool
}

func NewBridge(ctx context.Context, cfg *config.TelegramConfig, inject InjectFunc, transcripts TranscriptReader) (*Bridge, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bridge := &Bridge{
		bot:         b,
		chatID:      cfg.ChatID,
		inject:      inject,
		transcripts: transcripts,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: only the configured operator chat gets through
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Chat().ID != bridge.chatID {
				return nil // Ignore unauthorized chats
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bridge.handleMessage)

	return bridge, nil
}

func (b *Bridge) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bridge")
	b.online.Store(true)
	b.announce(ctx)
	b.bot.Start()
	return nil
}

func (b *Bridge) Shutdown(ctx context.Context) error {
	b.online.Store(false)
	b.bot.Stop()
	return nil
}

// Online reports whether the bridge is currently polling.
func (b *Bridge) Online() bool {
	return b.online.Load()
}

func (b *Bridge) Name() string { return "telegram" }

// Notify implements the contact notifier: the visitor's message lands
// in the operator chat, tagged so /reply can target the conversation.
func (b *Bridge) Notify(ctx context.Context, conversationID, locale, text string) error {
	return b.send(ctx, fmt.Sprintf("📩 CONTACT | cid:%s | lang:%s\n\n%s", conversationID, locale, text))
}

// Record mirrors a recorded turn so the operator can follow along.
// Turns the operator injected are not echoed back.
func (b *Bridge) Record(ctx context.Context, conversationID string, entry core.HistoryEntry) error {
	if strings.HasPrefix(entry.Author, "bridge:") {
		return nil
	}
	return b.send(ctx, fmt.Sprintf("cid:%s [%s] %s", conversationID, entry.Author, entry.Text))
}

func (b *Bridge) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	text := c.Text()

	if cid, reply, ok := ParseReply(text); ok {
		author := core.BridgeAuthor(operatorName(c))
		landed := b.inject(ctx, cid, author, reply)
		logger.Info().Str("conversation", landed).Msg("operator reply injected")
		return c.Send("✅ Delivered to " + landed)
	}

	if cid, ok := parseHistory(text); ok {
		return b.sendHistory(ctx, c, cid)
	}

	if isHelp(text) {
		return c.Send("Commands:\n/reply <cid> <text> answers a conversation\n/history <cid> shows recent turns")
	}

	// Anything else in the operator chat is just chatter, not for us.
	return nil
}

func (b *Bridge) sendHistory(ctx context.Context, c tele.Context, cid string) error {
	if b.transcripts == nil {
		return c.Send("Transcript storage is not configured.")
	}

	entries, err := b.transcripts.Recent(ctx, cid, 20)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to load transcript")
		return c.Send("Could not load the transcript.")
	}
	if len(entries) == 0 {
		return c.Send("No transcript for " + cid)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Transcript %s:\n", cid)
	for _, e := range entries {
		fmt.Fprintf(&sb, "[%s] %s\n", e.Author, e.Text)
	}
	return c.Send(truncate(sb.String(), maxMessageLen))
}

// announce posts the startup notice so the operator knows replies will
// be delivered again.
func (b *Bridge) announce(ctx context.Context) {
	if err := b.send(ctx, fmt.Sprintf("🟢 %s %s online", core.AppName, core.AppVersion)); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to announce bridge startup")
	}
}

func (b *Bridge) send(ctx context.Context, text string) error {
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(truncate(text, maxMessageLen))))
	if html == "" {
		return nil
	}
	if _, err := b.bot.Send(tele.ChatID(b.chatID), html, tele.ModeHTML); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to send telegram message")
		return err
	}
	return nil
}

func operatorName(c tele.Context) string {
	sender := c.Sender()
	if sender == nil {
		return "operator"
	}
	if sender.Username != "" {
		return sender.Username
	}
	return strings.TrimSpace(sender.FirstName)
}

// truncate cuts on a rune boundary; Telegram rejects invalid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
