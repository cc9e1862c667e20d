package command

import (
	"embed"
	"encoding/json"

	"github.com/lukebdev/termlink/internal/core"
)

//go:embed memory.en.json memory.fi.json
var knowledgeFS embed.FS

// Knowledge is the curated per-locale record the static commands render
// from. It also serves as the low-confidence fallback context for the
// completion step when retrieval comes back empty.
type Knowledge struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	BasedIn string `json:"based_in"`

	Skills   []string `json:"skills"`
	Projects []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"projects"`
	Experience   []string `json:"experience"`
	Features     []string `json:"features"`
	Tips         []string `json:"tips"`
	CreditsLines []string `json:"creditsLines"`

	VersionInfo struct {
		Title  string `json:"title"`
		UI     string `json:"ui"`
		Server string `json:"server"`
	} `json:"versionInfo"`
	Changelog []string `json:"changelog"`

	FAQ []struct {
		Q string `json:"q"`
		A string `json:"a"`
	} `json:"faq"`
	Story []string `json:"story"`

	GitHub struct {
		Profile      string   `json:"profile"`
		Repositories []string `json:"repositories"`
	} `json:"github"`
	Internship struct {
		Company  string `json:"company"`
		Duration string `json:"duration"`
		Role     string `json:"role"`
	} `json:"internship"`

	LanguagesList    []string `json:"languagesList"`
	TechnologiesList []string `json:"technologiesList"`
	EducationList    []string `json:"educationList"`

	Directory struct {
		Volume  string `json:"volume"`
		Path    string `json:"path"`
		Entries []struct {
			Type string `json:"type"`
			Name string `json:"name"`
			Size int    `json:"size"`
		} `json:"entries"`
	} `json:"directory"`
}

// LoadKnowledge returns the record for the locale, falling back to
// English when the localized record is missing or broken.
func LoadKnowledge(locale string) *Knowledge {
	if locale == core.LocaleFI {
		if k, err := load("memory.fi.json"); err == nil {
			return k
		}
	}
	k, err := load("memory.en.json")
	if err != nil {
		// Embedded record; a parse failure is a build defect.
		panic(err)
	}
	return k
}

func load(name string) (*Knowledge, error) {
	data, err := knowledgeFS.ReadFile(name)
	if err != nil {
		return nil, err
	}
	k := &Knowledge{}
	if err := json.Unmarshal(data, k); err != nil {
		return nil, err
	}
	return k, nil
}
