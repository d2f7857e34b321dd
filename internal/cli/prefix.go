package cli

import (
	"errors"
	"fmt"
	"strings"
)

// MatchCommand resolves a possibly abbreviated shell command against the
// known names. An exact match wins over prefixes. Matching ignores case.
func MatchCommand(input string, commands []string) (string, error) {
	want := strings.ToLower(input)

	var matches []string
	for _, name := range commands {
		lower := strings.ToLower(name)
		if lower == want {
			return name, nil
		}
		if strings.HasPrefix(lower, want) {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("unknown command %q", input)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("ambiguous command %q matches: %s", input, strings.Join(matches, ", "))
}

// ErrUnterminatedQuote is returned by SplitArgs for an unbalanced quote.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// SplitArgs splits a shell line into words. Single or double quotes group
// words, so `add "South Indian"` yields two words.
func SplitArgs(line string) ([]string, error) {
	var (
		words  []string
		cur    strings.Builder
		quote  rune
		inWord bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote, inWord = r, true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, ErrUnterminatedQuote
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}
