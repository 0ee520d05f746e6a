package filtermem

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sift/filter"
)

// matcher is a compiled wildcard pattern. The wildcard and escape
// conventions come from the filter package: % matches any run of
// characters, / escapes the next character.
type matcher struct {
	tokens []patToken
	fold   bool
}

type patToken struct {
	wild bool
	r    rune
}

var caseFolder = cases.Fold()

// canon maps a string to its comparison form: NFC normalization always,
// plus full case folding in ignore mode. Folding after normalization
// keeps differently-composed spellings of the same text equal.
func canon(s string, fold bool) string {
	s = norm.NFC.String(s)
	if fold {
		s = caseFolder.String(s)
	}
	return s
}

// compilePattern parses a wildcard pattern into tokens. A trailing bare
// escape character is malformed.
func compilePattern(pattern string, mode filter.CaseMode) (*matcher, error) {
	fold := mode == filter.CaseIgnore
	runes := []rune(canon(pattern, fold))
	escape := []rune(filter.Escape)[0]
	wildcard := []rune(filter.Wildcard)[0]

	tokens := make([]patToken, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case escape:
			if i+1 >= len(runes) {
				return nil, fmt.Errorf("pattern ends with bare escape %q", filter.Escape)
			}
			i++
			tokens = append(tokens, patToken{r: runes[i]})
		case wildcard:
			// Collapse runs of wildcards - they match the same inputs.
			if len(tokens) > 0 && tokens[len(tokens)-1].wild {
				continue
			}
			tokens = append(tokens, patToken{wild: true})
		default:
			tokens = append(tokens, patToken{r: r})
		}
	}
	return &matcher{tokens: tokens, fold: fold}, nil
}

// match reports whether s satisfies the pattern. Classic greedy
// wildcard matching with single-point backtracking.
func (m *matcher) match(s string) bool {
	input := []rune(canon(s, m.fold))

	ti, si := 0, 0
	starTok, starPos := -1, 0
	for si < len(input) {
		switch {
		case ti < len(m.tokens) && m.tokens[ti].wild:
			starTok, starPos = ti, si
			ti++
		case ti < len(m.tokens) && m.tokens[ti].r == input[si]:
			ti++
			si++
		case starTok >= 0:
			// Mismatch after a wildcard: let the wildcard absorb one
			// more input rune and retry.
			ti = starTok + 1
			starPos++
			si = starPos
		default:
			return false
		}
	}
	for ti < len(m.tokens) && m.tokens[ti].wild {
		ti++
	}
	return ti == len(m.tokens)
}
