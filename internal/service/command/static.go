package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/lukebdev/termlink/internal/core"
)

// headers holds the locale-specific block titles.
type headers struct {
	about, skills, experience, features, tips, credits, version,
	changelog, faq, story, github, internship, languages,
	technologies, education string
}

var headersEN = headers{
	about: "> ABOUT", skills: "> SKILLS", experience: "> EXPERIENCE",
	features: "> FEATURES", tips: "> TIPS", credits: "> CREDITS",
	version: "> VERSION", changelog: "> CHANGELOG", faq: "> FAQ",
	story: "> STORY", github: "> GITHUB", internship: "> INTERNSHIP",
	languages: "> LANGUAGES", technologies: "> TECHNOLOGIES",
	education: "> EDUCATION",
}

var headersFI = headers{
	about: "> TIETOA", skills: "> TAIDOT", experience: "> KOKEMUS",
	features: "> OMINAISUUDET", tips: "> VIHJEET", credits: "> KREDIITIT",
	version: "> VERSIO", changelog: "> MUUTOSLOKI", faq: "> UKK",
	story: "> TARINA", github: "> GITHUB", internship: "> HARJOITTELU",
	languages: "> KIELET", technologies: "> TEKNOLOGIAT",
	education: "> KOULUTUS",
}

// StaticResponse renders the deterministic block for a canonical command.
// Pure over the knowledge record; ok is false for Freeform and the
// easter eggs, which are handled elsewhere.
func StaticResponse(kind Kind, locale string, kn *Knowledge, now time.Time) (string, bool) {
	h := headersEN
	if locale == core.LocaleFI {
		h = headersFI
	}

	switch kind {
	case About:
		return join(
			h.about,
			"Name: "+kn.Name,
			"Role: "+kn.Role,
			"Based in: "+kn.BasedIn,
			"Skills: "+strings.Join(kn.Skills, ", "),
		), true

	case Projects:
		lines := make([]string, 0, len(kn.Projects))
		for i, p := range kn.Projects {
			lines = append(lines, fmt.Sprintf("> [%d] %s: %s", i+1, p.Name, p.Description))
		}
		return join(lines...), true

	case Skills:
		return join(h.skills, "Installed modules: "+strings.Join(kn.Skills, ", ")), true

	case Experience:
		return join(prependEach(h.experience, "- ", kn.Experience)...), true

	case Features:
		return join(prependEach(h.features, "- ", kn.Features)...), true

	case Tips:
		return join(prependEach(h.tips, "- ", kn.Tips)...), true

	case Credits:
		return join(append([]string{h.credits}, kn.CreditsLines...)...), true

	case Version:
		return join(h.version, kn.VersionInfo.Title, kn.VersionInfo.UI, kn.VersionInfo.Server), true

	case Changelog:
		return join(prependEach(h.changelog, "- ", kn.Changelog)...), true

	case FAQ:
		lines := []string{h.faq}
		for _, qa := range kn.FAQ {
			lines = append(lines, "Q: "+qa.Q, "A: "+qa.A)
		}
		return join(lines...), true

	case Story:
		return join(append([]string{h.story}, kn.Story...)...), true

	case GitHub:
		lines := []string{
			h.github,
			" - Profile: " + kn.GitHub.Profile,
			" - Repositories:",
		}
		for _, r := range kn.GitHub.Repositories {
			lines = append(lines, "   - "+r)
		}
		return join(lines...), true

	case Internship:
		return join(
			h.internship,
			" - Company: "+kn.Internship.Company,
			" - Duration: "+kn.Internship.Duration,
			" - Role: "+kn.Internship.Role,
		), true

	case Languages:
		return join(prependEach(h.languages, " - ", kn.LanguagesList)...), true

	case Technologies:
		return join(prependEach(h.technologies, " - ", kn.TechnologiesList)...), true

	case Education:
		return join(prependEach(h.education, " - ", kn.EducationList)...), true

	case Dir, Ls:
		return directoryListing(kn, now), true

	case Commands:
		if locale == core.LocaleFI {
			return join(
				"> YHTEYSTIEDOT",
				" - Voit ottaa yhteyttä: kirjoita contact <viestisi> ja välitän sen Lukelle.",
				"",
				"> HUOMAUTUS",
				" - Komentoja ei ole. Vain polkuja. Valitse viisaasti.",
			), true
		}
		return join(
			"> CONTACT",
			" - To contact Luke: type contact <your message> and I will pass it on.",
			"",
			"> NOTE",
			" - There are no commands. Only paths. Choose wisely.",
		), true

	case Help:
		return join(
			"Available commands:",
			" about | projects | skills | experience | features | tips | credits | version | changelog | faq | story",
			" github | internship | languages | technologies | education | dir | ls | bandersnatch | control | mirror",
		), true

	default:
		return "", false
	}
}

// EasterEgg returns the fixed cryptic replies. Deliberately identical
// across locales: these lines are atmosphere, not information.
func EasterEgg(kind Kind) (string, bool) {
	switch kind {
	case Bandersnatch:
		return "> WARNING: Narrative instability detected. You are not making these choices.", true
	case Control:
		return "> You were never in control.", true
	case Mirror:
		return "> The reflection blinked first.", true
	default:
		return "", false
	}
}

func directoryListing(kn *Knowledge, now time.Time) string {
	date := now.Format("01/02/2006")
	clock := now.Format("03:04 PM")

	lines := []string{
		" Volume in drive C is " + kn.Directory.Volume,
		" Directory of " + kn.Directory.Path,
		"",
	}
	for _, ent := range kn.Directory.Entries {
		if ent.Type == "dir" {
			lines = append(lines, fmt.Sprintf("%s  %s    <DIR>          %s", date, clock, ent.Name))
		} else {
			lines = append(lines, fmt.Sprintf("%s  %s                 %5d %s", date, clock, ent.Size, ent.Name))
		}
	}
	return join(lines...)
}

func prependEach(header, prefix string, items []string) []string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, header)
	for _, it := range items {
		lines = append(lines, prefix+it)
	}
	return lines
}

func join(lines ...string) string {
	return strings.Join(lines, "\n")
}
