// Package signal computes a coarse lexical-overlap score between a query and
// retrieved contexts. The score guards answering; it does not rank.
package signal

import (
	"strings"
	"unicode/utf8"
)

// minTokenRunes is the length a query token must exceed to count.
const minTokenRunes = 2

// Tokenize lower-cases query, splits it on whitespace and keeps tokens longer
// than two characters.
func Tokenize(query string) []string {
	var tokens []string
	for _, f := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(f) > minTokenRunes {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Score sums, over every context and query token, the number of times the
// token occurs inside the lower-cased context. It is not normalised.
func Score(query string, contexts []string) int {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return 0
	}
	total := 0
	for _, c := range contexts {
		lower := strings.ToLower(c)
		for _, tok := range tokens {
			total += strings.Count(lower, tok)
		}
	}
	return total
}
