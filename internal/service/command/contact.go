package command

import (
	"regexp"
	"strings"

	"github.com/lukebdev/termlink/internal/core"
)

// Contact intent is pattern-matched from free-form text, not a canonical
// table entry: "contact hello there" or "message: hi".
var contactRe = regexp.MustCompile(`(?is)^\s*(contact|message)\s*[:\-]?\s*(.*)$`)

// ParseContact reports whether the text is a contact intent and returns
// the message payload (possibly empty).
func ParseContact(text string) (string, bool) {
	m := contactRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[2]), true
}

// ContactHint is the localized usage hint for an empty contact payload.
func ContactHint(locale string) string {
	if locale == core.LocaleFI {
		return "Jos haluat ottaa yhteyttä, kirjoita: contact <viestisi>. Välitän viestin Lukelle."
	}
	return "If you'd like to get in touch, type: contact <your message>. I'll pass it on to Luke."
}

// ContactAck is the localized acknowledgment after a forwarded message.
func ContactAck(locale string) string {
	if locale == core.LocaleFI {
		return "Selvä. Välitän tämän viestin Lukelle. Lisää yhteystietosi, jos haluat vastauksen."
	}
	return "Got it. I'll pass this message to Luke. Include your contact info if you'd like a reply."
}
