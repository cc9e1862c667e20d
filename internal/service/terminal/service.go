package terminal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lukebdev/termlink/internal/core"
	"github.com/lukebdev/termlink/internal/service/chat"
	"github.com/lukebdev/termlink/internal/service/command"
	"github.com/lukebdev/termlink/internal/service/completion"
	"github.com/lukebdev/termlink/internal/service/retrieval"
	"github.com/lukebdev/termlink/pkg/log"
)

// Request is one terminal command from a visitor.
type Request struct {
	Input          string
	Locale         string
	ConversationID string
}

// Response is the reply shown in the visitor's terminal.
type Response struct {
	Reply          string `json:"response"`
	ConversationID string `json:"conversationId"`
	Locale         string `json:"locale"`
}

// Service runs the command pipeline: resolve, record, answer. Static
// commands and easter eggs are served locally; anything free-form goes
// through retrieval and the model, and a contact message goes to the
// operator instead of the model.
type Service struct {
	recorder     *chat.Recorder
	assembler    *retrieval.Assembler
	orchestrator *completion.Orchestrator
	notifier     core.Notifier
	now          func() time.Time
}

func NewService(recorder *chat.Recorder, assembler *retrieval.Assembler, orchestrator *completion.Orchestrator, notifier core.Notifier) *Service {
	return &Service{
		recorder:     recorder,
		assembler:    assembler,
		orchestrator: orchestrator,
		notifier:     notifier,
		now:          time.Now,
	}
}

// Execute handles one command end to end. Every path that produces a
// reply also records both sides of the exchange.
func (s *Service) Execute(ctx context.Context, req Request) (Response, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return Response{}, fmt.Errorf("input required: %w", core.ErrValidation)
	}

	resolved := command.Resolve(input, req.Locale)
	kn := command.LoadKnowledge(resolved.Locale)

	// Prior turns only. The current input is appended by the
	// orchestrator itself, so capture history before recording it.
	history := s.recorder.History(req.ConversationID)
	cid := s.recorder.Record(ctx, req.ConversationID, core.AuthorUser, input)

	reply, err := s.reply(ctx, cid, resolved, kn, history)
	if err != nil {
		return Response{}, err
	}

	s.recorder.Record(ctx, cid, core.AuthorBot, reply)
	return Response{Reply: reply, ConversationID: cid, Locale: resolved.Locale}, nil
}

func (s *Service) reply(ctx context.Context, cid string, resolved command.Resolved, kn *command.Knowledge, history []core.HistoryEntry) (string, error) {
	if egg, ok := command.EasterEgg(resolved.Kind); ok {
		return egg, nil
	}
	if static, ok := command.StaticResponse(resolved.Kind, resolved.Locale, kn, s.now()); ok {
		return static, nil
	}
	if msg, ok := command.ParseContact(resolved.Text); ok {
		return s.contact(ctx, cid, resolved.Locale, msg), nil
	}
	return s.freeform(ctx, resolved, kn, history)
}

// contact forwards the message to the operator channel. Delivery is best
// effort: the visitor gets the acknowledgement either way, the operator
// channel being down is not their problem.
func (s *Service) contact(ctx context.Context, cid, locale, msg string) string {
	if msg == "" {
		return command.ContactHint(locale)
	}
	if s.notifier == nil {
		log.FromCtx(ctx).Warn().Msg("contact message dropped, no operator channel configured")
	} else if err := s.notifier.Notify(ctx, cid, locale, msg); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("contact message delivery failed")
	}
	return command.ContactAck(locale)
}

func (s *Service) freeform(ctx context.Context, resolved command.Resolved, kn *command.Knowledge, history []core.HistoryEntry) (string, error) {
	if !s.orchestrator.Enabled() {
		return offlineNotice(resolved.Locale), nil
	}

	grounding := s.assembler.Assemble(ctx, resolved.Text, resolved.Locale)

	curated := ""
	if raw, err := json.Marshal(kn); err == nil {
		curated = string(raw)
	}

	reply, err := s.orchestrator.Respond(ctx, completion.Input{
		Query:     resolved.Text,
		Locale:    resolved.Locale,
		Grounding: grounding,
		Curated:   curated,
		History:   history,
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

func offlineNotice(locale string) string {
	if locale == core.LocaleFI {
		return "Tekoäly on juuri nyt poissa käytöstä. Kirjoita 'help' niin näet sisäänrakennetut komennot."
	}
	return "AI is offline right now. Type 'help' to see the built-in commands."
}
