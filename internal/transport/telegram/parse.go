package telegram

import (
	"regexp"
	"strings"
)

var (
	replyRe   = regexp.MustCompile(`(?is)^\s*/reply\s+(\S+)\s+(.+)$`)
	historyRe = regexp.MustCompile(`(?is)^\s*/history\s+(\S+)\s*$`)
	helpRe    = regexp.MustCompile(`(?i)^\s*/help\s*$`)
)

// ParseReply extracts the target conversation and the reply text from
// an operator /reply command. The conversation id may carry the "cid:"
// prefix the mirror messages use, so it can be copied back verbatim.
func ParseReply(text string) (conversationID, reply string, ok bool) {
	m := replyRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	cid := strings.TrimPrefix(m[1], "cid:")
	if cid == "" {
		return "", "", false
	}
	return cid, strings.TrimSpace(m[2]), true
}

func parseHistory(text string) (conversationID string, ok bool) {
	m := historyRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimPrefix(m[1], "cid:"), true
}

func isHelp(text string) bool {
	return helpRe.MatchString(text)
}
