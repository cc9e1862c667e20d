package completion

import (
	"regexp"
	"strings"
)

// Models playing a DOS terminal like to open replies with a fake prompt
// line, sometimes bolded, sometimes as a blockquote. Strip those
// artifacts from the head of the reply and leave the body alone.
var (
	boldHeadRe  = regexp.MustCompile(`(?s)^\s*\*{1,3}\s*([^\n]*?)\s*\*{1,3}\s*`)
	dosPromptRe = regexp.MustCompile(`(?i)^\s*C:\\[^\n>]*>\s*`)
	quoteHeadRe = regexp.MustCompile(`^\s*>\s+`)
)

// Sanitize removes leading prompt roleplay from a model reply.
func Sanitize(reply string) string {
	if m := boldHeadRe.FindStringSubmatch(reply); m != nil {
		if strings.Contains(m[1], `C:\`) && strings.Contains(m[1], ">") {
			reply = reply[len(m[0]):]
		}
	}
	reply = dosPromptRe.ReplaceAllString(reply, "")
	reply = quoteHeadRe.ReplaceAllString(reply, "")
	return strings.TrimLeft(reply, " \t\r\n")
}
