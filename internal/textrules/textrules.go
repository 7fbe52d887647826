// Package textrules holds the ordered keyword rule tables used to classify
// free text (interview tone, themes, drivers and barriers, price resistance).
// Tables are plain values so callers can swap them without touching the code
// that applies them.
package textrules

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule labels text containing any of its keywords. Phrases in Except are
// blanked out before matching, so "not expensive" does not count as "expensive".
type Rule struct {
	Label    string
	Keywords []string
	Except   []string
}

func (r Rule) matches(lower string) bool {
	for _, ex := range r.Except {
		if ex = strings.ToLower(strings.TrimSpace(ex)); ex != "" {
			lower = strings.ReplaceAll(lower, ex, " ")
		}
	}
	return containsAny(lower, r.Keywords)
}

// Table is an ordered rule list. Earlier rules take priority in First.
type Table []Rule

// First returns the label of the first rule matching text
func (t Table) First(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, r := range t {
		if r.matches(lower) {
			return r.Label, true
		}
	}
	return "", false
}

// All returns every matching label in table order
func (t Table) All(text string) []string {
	lower := strings.ToLower(text)
	labels := []string{}
	for _, r := range t {
		if r.matches(lower) {
			labels = append(labels, r.Label)
		}
	}
	return labels
}

// Matches reports whether any rule matches text
func (t Table) Matches(text string) bool {
	_, ok := t.First(text)
	return ok
}

// Keywords returns the keywords of the rule with the given label
func (t Table) Keywords(label string) []string {
	for _, r := range t {
		if r.Label == label {
			return r.Keywords
		}
	}
	return nil
}

// Contains reports whether keyword occurs in text at a word start, ignoring case
func Contains(text, keyword string) bool {
	return containsWord(strings.ToLower(text), strings.ToLower(keyword))
}

// ContainsAny reports whether any keyword occurs in text
func ContainsAny(text string, keywords []string) bool {
	return containsAny(strings.ToLower(text), keywords)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if containsWord(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// containsWord matches kw only where it starts a word, so "new" does not hit "renew"
func containsWord(lower, kw string) bool {
	kw = strings.TrimSpace(kw)
	if kw == "" {
		return false
	}
	from := 0
	for {
		idx := strings.Index(lower[from:], kw)
		if idx < 0 {
			return false
		}
		pos := from + idx
		if pos == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(lower[:pos])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		from = pos + len(kw)
	}
}
