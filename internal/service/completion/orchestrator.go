package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/lukebdev/termlink/internal/core"
	"github.com/lukebdev/termlink/pkg/log"
)

const (
	replyMaxTokens = 900

	// Grounded replies stay close to the retrieved facts; without
	// grounding the model may paraphrase the curated profile more freely.
	groundedTemperature   = 0.25
	ungroundedTemperature = 0.65

	// Token budget for the grounding block inside the system prompt.
	groundingBudget = 2000

	// Turns of rolling history forwarded to the model.
	historyWindow = 6
)

// Input carries everything the orchestrator needs for one reply.
type Input struct {
	Query     string
	Locale    string
	Grounding string // retrieved context, "" when retrieval found nothing
	Curated   string // serialized curated profile, the ungrounded fallback
	History   []core.HistoryEntry
}

// Orchestrator turns a free-form query plus context into a model reply.
type Orchestrator struct {
	provider core.ChatProvider
	subject  string
	encoder  *tiktoken.Tiktoken
}

func NewOrchestrator(provider core.ChatProvider, subject string) *Orchestrator {
	// Token counting is best effort. Without the encoding we fall back
	// to a bytes-based estimate rather than refusing to start.
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		enc = nil
	}
	return &Orchestrator{
		provider: provider,
		subject:  subject,
		encoder:  enc,
	}
}

func (o *Orchestrator) Enabled() bool {
	return o != nil && o.provider != nil
}

// Respond produces a sanitized reply for the query. The caller decides
// what to do when the orchestrator is disabled; here it is an error.
func (o *Orchestrator) Respond(ctx context.Context, in Input) (string, error) {
	if !o.Enabled() {
		return "", fmt.Errorf("completion: %w", core.ErrUnavailable)
	}

	grounding := o.trimToBudget(in.Grounding)
	grounded := grounding != ""

	temperature := ungroundedTemperature
	if grounded {
		temperature = groundedTemperature
	}

	messages := make([]core.ChatMessage, 0, historyWindow+2)
	messages = append(messages, core.ChatMessage{
		Role:    core.RoleSystem,
		Content: o.systemPrompt(in.Locale, grounding, in.Curated),
	})
	messages = append(messages, mapHistory(in.History)...)
	messages = append(messages, core.ChatMessage{Role: core.RoleUser, Content: in.Query})

	log.FromCtx(ctx).Debug().
		Bool("grounded", grounded).
		Int("history", len(messages)-2).
		Msg("requesting completion")

	reply, err := o.provider.Complete(ctx, core.CompletionRequest{
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   replyMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	return Sanitize(reply), nil
}

func (o *Orchestrator) systemPrompt(locale, grounding, curated string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are the assistant inside %s's retro terminal portfolio site.\n", o.subject)
	fmt.Fprintf(&b, "You answer questions about %s. Always refer to %s in the third person; you are not %s.\n", o.subject, o.subject, o.subject)
	b.WriteString("Keep answers short and plain text. No markdown headings, no role play, no fake terminal prompts.\n")

	if locale == core.LocaleFI {
		b.WriteString("Reply in Finnish.\n")
	} else {
		b.WriteString("Reply in English.\n")
	}

	if grounding != "" {
		b.WriteString("\nCONTEXT below is the authoritative source. Base your answer on it. ")
		b.WriteString("If the context does not cover the question, say you do not know rather than guessing.\n\n")
		b.WriteString("CONTEXT:\n")
		b.WriteString(grounding)
		b.WriteString("\n")
	} else if curated != "" {
		b.WriteString("\nUse the profile below as your only source of facts. ")
		b.WriteString("If the profile does not cover the question, say you do not know.\n\n")
		b.WriteString("PROFILE:\n")
		b.WriteString(curated)
		b.WriteString("\n")
	}

	return b.String()
}

// mapHistory converts the last turns of rolling history into chat
// messages. Everything not authored by the bot counts as user input,
// operator bridge replies included.
func mapHistory(history []core.HistoryEntry) []core.ChatMessage {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	out := make([]core.ChatMessage, 0, len(history))
	for _, h := range history {
		role := core.RoleUser
		if h.Author == core.AuthorBot {
			role = core.RoleAssistant
		}
		out = append(out, core.ChatMessage{Role: role, Content: h.Text})
	}
	return out
}

// trimToBudget drops trailing grounding chunks until the block fits the
// token budget. Chunks are separated by blank lines, highest ranked first,
// so dropping from the tail keeps the best matches.
func (o *Orchestrator) trimToBudget(grounding string) string {
	if grounding == "" || o.countTokens(grounding) <= groundingBudget {
		return grounding
	}
	chunks := strings.Split(grounding, "\n\n")
	for len(chunks) > 1 {
		chunks = chunks[:len(chunks)-1]
		candidate := strings.Join(chunks, "\n\n")
		if o.countTokens(candidate) <= groundingBudget {
			return candidate
		}
	}
	return chunks[0]
}

func (o *Orchestrator) countTokens(text string) int {
	if o.encoder == nil {
		// Rough estimate, four bytes per token.
		return len(text) / 4
	}
	return len(o.encoder.Encode(text, nil, nil))
}
