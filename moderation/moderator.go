// Package moderation censors blacklisted words in chat text before it is
// broadcast. Matching is case-insensitive, skips separator noise, and
// undoes common leet substitutions, so "S.h 1 t" still matches "shit".
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	machine *goahocorasick.Machine
	mask    rune
}

// NewModerator builds the Aho-Corasick automaton over the normalized forms
// of the blacklisted words. An empty word list yields a pass-through
// moderator.
func NewModerator(words []string, mask rune) (Moderator, error) {
	if len(words) == 0 {
		return Moderator{mask: mask}, nil
	}

	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		if norm, _ := normalize(w); len(norm) > 0 {
			patterns = append(patterns, norm)
		}
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return Moderator{}, err
	}
	return Moderator{machine: m, mask: mask}, nil
}

// Censor replaces every matched span of the original text with the mask
// rune, preserving length and spacing.
func (m Moderator) Censor(text string) string {
	if m.machine == nil {
		return text
	}

	norm, origIdx := normalize(text)
	if len(norm) == 0 {
		return text
	}

	spans := m.machine.MultiPatternSearch(norm, false)
	if len(spans) == 0 {
		return text
	}

	out := []rune(text)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		// Mask the original range the normalized span maps back to.
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			out[i] = m.mask
		}
	}
	return string(out)
}

// normalize lowercases, reverts leet substitutions, and drops separator
// runes; origIdx maps each kept rune back to its original position.
func normalize(s string) ([]rune, []int) {
	runes := []rune(s)
	norm := make([]rune, 0, len(runes))
	origIdx := make([]int, 0, len(runes))
	for i, r := range runes {
		r = unleet(r)
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		norm = append(norm, unicode.ToLower(r))
		origIdx = append(origIdx, i)
	}
	return norm, origIdx
}

func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}
