package command

import (
	"regexp"
	"strings"

	"github.com/lukebdev/termlink/internal/core"
)

// Kind is the closed set of canonical commands. Freeform is the explicit
// fallback for anything the tables don't recognize.
type Kind int

const (
	Freeform Kind = iota
	About
	Projects
	Skills
	Experience
	Features
	Tips
	Credits
	Version
	Changelog
	FAQ
	Story
	GitHub
	Internship
	Languages
	Technologies
	Education
	Dir
	Ls
	Commands
	Help
	Bandersnatch
	Control
	Mirror
)

var canonical = map[string]Kind{
	"about":        About,
	"projects":     Projects,
	"skills":       Skills,
	"experience":   Experience,
	"features":     Features,
	"tips":         Tips,
	"credits":      Credits,
	"version":      Version,
	"changelog":    Changelog,
	"faq":          FAQ,
	"story":        Story,
	"github":       GitHub,
	"internship":   Internship,
	"languages":    Languages,
	"technologies": Technologies,
	"education":    Education,
	"dir":          Dir,
	"ls":           Ls,
	"commands":     Commands,
	"help":         Help,
	"bandersnatch": Bandersnatch,
	"control":      Control,
	"mirror":       Mirror,
}

// Finnish synonyms. A hit here also infers the locale when the caller
// didn't supply one.
var fiAliases = map[string]Kind{
	"tietoa":       About,
	"projektit":    Projects,
	"taidot":       Skills,
	"kokemus":      Experience,
	"ominaisuudet": Features,
	"vinkit":       Tips,
	"tekijät":      Credits,
	"krediitit":    Credits,
	"versio":       Version,
	"ver":          Version,
	"muutokset":    Changelog,
	"ukk":          FAQ,
	"kysymykset":   FAQ,
	"tarina":       Story,
	"harjoittelu":  Internship,
	"kielet":       Languages,
	"teknologiat":  Technologies,
	"koulutus":     Education,
	"hakemisto":    Dir,
	"lista":        Ls,
	"komennot":     Commands,
}

// Resolved is the outcome of command resolution: a canonical kind (or
// Freeform), the locale that should govern this request, and the text
// with any one-off locale tag stripped.
type Resolved struct {
	Kind   Kind
	Locale string
	Text   string
}

var localeOverrideRe = regexp.MustCompile(`(?is)^\s*(en|fi)\s*:\s*(.*)$`)

// parseLocaleOverride detects a leading "<locale>: " tag. The override
// applies to this call only; callers must not persist it.
func parseLocaleOverride(input string) (locale, stripped string, ok bool) {
	m := localeOverrideRe.FindStringSubmatch(input)
	if m == nil {
		return "", "", false
	}
	return strings.ToLower(m[1]), m[2], true
}

// Resolve normalizes raw input into a canonical command and an effective
// locale. Pure: no lookups mutate state, and an override locale never
// leaks past the returned Resolved.
//
// Locale precedence: one-off override > caller locale > alias-inferred >
// system default.
func Resolve(input, callerLocale string) Resolved {
	text := input
	override, stripped, hasOverride := parseLocaleOverride(input)
	if hasOverride {
		text = stripped
	}

	key := strings.ToLower(strings.TrimSpace(text))

	kind, ok := canonical[key]
	inferred := ""
	if !ok {
		if kind, ok = fiAliases[key]; ok {
			inferred = core.LocaleFI
		}
	}
	if !ok {
		kind = Freeform
	}

	locale := core.DefaultLocale
	switch {
	case hasOverride:
		locale = override
	case callerLocale != "":
		locale = normalizeLocale(callerLocale)
	case inferred != "":
		locale = inferred
	}

	return Resolved{Kind: kind, Locale: locale, Text: text}
}

func normalizeLocale(locale string) string {
	if strings.ToLower(locale) == core.LocaleFI {
		return core.LocaleFI
	}
	return core.LocaleEN
}
