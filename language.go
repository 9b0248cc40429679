package winocr

import (
	"strings"

	"golang.org/x/text/language"
)

// Language identifies an installed OCR-capable language pack.
type Language struct {
	Tag         string `json:"tag"`
	DisplayName string `json:"display_name,omitempty"`
}

// sameTag reports whether two BCP-47 tags name the same language, comparing
// their canonical forms. Tags that do not parse fall back to a
// case-insensitive string compare.
func sameTag(a, b string) bool {
	if strings.EqualFold(a, b) {
		return true
	}
	ta, errA := language.Parse(a)
	tb, errB := language.Parse(b)
	if errA != nil || errB != nil {
		return false
	}
	return ta == tb
}

// MatchInstalled picks the installed language best matching tag, so a bare
// "en" resolves against an installed "en-US" pack. The second return is
// false when nothing matches closely enough.
func MatchInstalled(installed []Language, tag string) (Language, bool) {
	want, err := language.Parse(tag)
	if err != nil {
		return Language{}, false
	}

	tags := make([]language.Tag, 0, len(installed))
	candidates := make([]Language, 0, len(installed))
	for _, l := range installed {
		t, err := language.Parse(l.Tag)
		if err != nil {
			continue
		}
		tags = append(tags, t)
		candidates = append(candidates, l)
	}
	if len(tags) == 0 {
		return Language{}, false
	}

	m := language.NewMatcher(tags)
	_, idx, conf := m.Match(want)
	if conf < language.High {
		return Language{}, false
	}
	return candidates[idx], true
}
