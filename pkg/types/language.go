package types

import (
	"fmt"
	"strings"
)

// Language pairs a display name with the anchor key used in the skill space
type Language struct {
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

// AllLanguages is the pseudo language that disables language filtering in
// popularity and locality rankings
const AllLanguages = "ALL"

// Languages is the catalogue of supported languages in display order
var Languages = []Language{
	{Name: "C/C++", Tag: "C"},
	{Name: "C#", Tag: "Cs"},
	{Name: "Go", Tag: "Go"},
	{Name: "Perl", Tag: "pl"},
	{Name: "Ruby", Tag: "rb"},
	{Name: "JavaScript", Tag: "JS"},
	{Name: "Python", Tag: "PY"},
	{Name: "R", Tag: "R"},
	{Name: "Rust", Tag: "Rust"},
	{Name: "Scala", Tag: "Scala"},
	{Name: "TypeScript", Tag: "Typescript"},
	{Name: "Java", Tag: "java"},
}

// LanguageTag resolves a display name or a tag to the anchor tag.
// Display names match case-insensitively, tags match exactly.
func LanguageTag(name string) (string, error) {
	name = strings.TrimSpace(name)
	for _, l := range Languages {
		if l.Tag == name {
			return l.Tag, nil
		}
	}
	for _, l := range Languages {
		if strings.EqualFold(l.Name, name) {
			return l.Tag, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownLanguage, name)
}

// LanguageTags resolves every name with LanguageTag, preserving order
func LanguageTags(names []string) ([]string, error) {
	tags := make([]string, 0, len(names))
	for _, n := range names {
		tag, err := LanguageTag(n)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
