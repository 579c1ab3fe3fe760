// Package moderation masks banned words in post messages before they are stored.
package moderation

import (
	"fmt"
	"log/slog"
	"social-lab/errors"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// Moderator matches banned words on a normalized form of the message
// (lower case, leet digits folded, punctuation and spaces skipped) and masks
// the original runes, so the rune count of a message never changes.
type Moderator struct {
	log     *slog.Logger
	matcher *goahocorasick.Machine
	mask    rune
}

// folded is the searchable form of a message, with the index of each kept rune in the original.
type folded struct {
	runes  []rune
	origin []int
}

func NewModerator(words []string, mask rune, log *slog.Logger) (*Moderator, error) {
	patterns := lo.FilterMap(words, func(word string, _ int) ([]rune, bool) {
		pattern := fold(word).runes
		return pattern, len(pattern) > 0
	})
	if len(patterns) == 0 {
		return nil, errors.ErrEmptyWords
	}

	matcher := new(goahocorasick.Machine)
	if err := matcher.Build(patterns); err != nil {
		return nil, fmt.Errorf("building banned words automaton: %w", err)
	}
	log.Debug("Moderator ready", "patterns", len(patterns))
	return &Moderator{log: log, matcher: matcher, mask: mask}, nil
}

// Censor returns the message with every banned word masked.
func (m *Moderator) Censor(message string) string {
	text := fold(message)
	if len(text.runes) == 0 {
		return message
	}
	terms := m.matcher.MultiPatternSearch(text.runes, false)
	if len(terms) == 0 {
		return message
	}

	runes := []rune(message)
	for _, term := range terms {
		end := term.Pos + len(term.Word)
		if term.Pos < 0 || end > len(text.origin) {
			continue
		}
		for i := text.origin[term.Pos]; i <= text.origin[end-1]; i++ {
			runes[i] = m.mask
		}
	}
	m.log.Debug("Message censored", "matches", len(terms))
	return string(runes)
}

func fold(input string) folded {
	var f folded
	for i, r := range []rune(input) {
		r = unleet(r)
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		f.runes = append(f.runes, unicode.ToLower(r))
		f.origin = append(f.origin, i)
	}
	return f
}

func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
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
