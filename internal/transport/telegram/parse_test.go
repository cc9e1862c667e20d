package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCID  string
		wantText string
		wantOK   bool
	}{
		{"plain", "/reply abc123 Hello", "abc123", "Hello", true},
		{"copied cid prefix", "/reply cid:abc123 Hello there", "abc123", "Hello there", true},
		{"multiline reply", "/reply abc123 first line\nsecond line", "abc123", "first line\nsecond line", true},
		{"leading whitespace", "  /reply abc123 hi", "abc123", "hi", true},
		{"mixed case command", "/REPLY abc123 hi", "abc123", "hi", true},
		{"missing text", "/reply abc123", "", "", false},
		{"missing cid", "/reply", "", "", false},
		{"bare cid prefix", "/reply cid: hello", "", "", false},
		{"not a command", "just chatting", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cid, text, ok := ParseReply(tt.input)
			if ok != tt.wantOK || cid != tt.wantCID || text != tt.wantText {
				t.Errorf("ParseReply(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.input, cid, text, ok, tt.wantCID, tt.wantText, tt.wantOK)
			}
		})
	}
}

func TestParseHistory(t *testing.T) {
	if cid, ok := parseHistory("/history cid:abc123"); !ok || cid != "abc123" {
		t.Errorf("got (%q, %v)", cid, ok)
	}
	if _, ok := parseHistory("/history"); ok {
		t.Error("bare /history must not parse")
	}
	if _, ok := parseHistory("/reply abc hi"); ok {
		t.Error("/reply must not parse as history")
	}
}

func TestIsHelp(t *testing.T) {
	for _, text := range []string{"/help", "  /HELP  "} {
		if !isHelp(text) {
			t.Errorf("isHelp(%q) = false", text)
		}
	}
	for _, text := range []string{"help", "nice weather today", "/helpless"} {
		if isHelp(text) {
			t.Errorf("isHelp(%q) = true", text)
		}
	}
}

// Plain chatter in the operator chat must match none of the commands,
// so the bridge stays silent on it.
func TestOperatorChatterIsIgnored(t *testing.T) {
	text := "thanks, looks good"
	if _, _, ok := ParseReply(text); ok {
		t.Error("chatter parsed as /reply")
	}
	if _, ok := parseHistory(text); ok {
		t.Error("chatter parsed as /history")
	}
	if isHelp(text) {
		t.Error("chatter parsed as /help")
	}
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	s := strings.Repeat("ä", 30) // 2 bytes per rune

	got := truncate(s, 15)
	if !utf8.ValidString(got) {
		t.Errorf("truncate produced invalid utf-8: %q", got)
	}
	if len(got) != 14 {
		t.Errorf("len = %d, want 14", len(got))
	}

	if got := truncate("short", 100); got != "short" {
		t.Errorf("got %q", got)
	}
}
