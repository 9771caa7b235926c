// Package moderation masks censored words in message content before it
// reaches observers or history. Matching is case-insensitive and ignores
// separators, so "s p a m" still matches "spam".
package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"

	"chat-core/errors"
)

type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
	log         *slog.Logger
}

// NewModerator builds the Aho-Corasick automaton over the normalized forms of
// the censored words.
func NewModerator(words []string, replacement rune, log *slog.Logger) (*Moderator, error) {
	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		if norm, _ := normalize(w); len(norm) > 0 {
			patterns = append(patterns, norm)
		}
	}
	if len(patterns) == 0 {
		return nil, errors.ErrEmptyWords
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, replacement: replacement, log: log}, nil
}

// Mask replaces every censored span with the replacement rune, preserving the
// length and spacing of the original text.
func (m *Moderator) Mask(content string) string {
	norm, origIdx := normalize(content)
	if len(norm) == 0 {
		return content
	}
	spans := m.matcher.MultiPatternSearch(norm, false)
	if len(spans) == 0 {
		return content
	}

	out := []rune(content)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			out[i] = m.replacement
		}
	}
	m.log.Debug("Censored content masked", "spans", len(spans))
	return string(out)
}

// normalize lowercases the text, drops separators and punctuation, and keeps
// a mapping from normalized positions back to original rune positions.
func normalize(s string) ([]rune, []int) {
	runes := []rune(s)
	norm := make([]rune, 0, len(runes))
	idx := make([]int, 0, len(runes))
	for i, r := range runes {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		norm = append(norm, unicode.ToLower(r))
		idx = append(idx, i)
	}
	return norm, idx
}
