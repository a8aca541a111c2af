// ABOUTME: Unicode word segmentation shared by FTS indexing and querying
// ABOUTME: Uses UAX#29 word boundaries so non-space-delimited scripts (CJK) tokenize correctly
package tokenize

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Words splits text into word-like tokens on UAX#29 word boundaries.
// Tokens carrying no letter or digit (pure punctuation, whitespace) are dropped.
func Words(text string) []string {
	var tokens []string
	state := -1
	for len(text) > 0 {
		var word string
		word, text, state = uniseg.FirstWordInString(text, state)
		if isWordToken(word) {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

// ForIndex produces the searchable text stored in the FTS table: tokens
// rejoined with single spaces.
func ForIndex(text string) string {
	return strings.Join(Words(text), " ")
}

// MatchExpression builds an FTS5 MATCH expression from a query string: each
// token becomes a quoted prefix term, all terms AND-joined. Returns "" when
// the query yields no tokens.
func MatchExpression(query string) string {
	tokens := Words(query)
	if len(tokens) == 0 {
		return ""
	}
	terms := make([]string, len(tokens))
	for i, tok := range tokens {
		terms[i] = `"` + strings.ReplaceAll(tok, `"`, `""`) + `"*`
	}
	return strings.Join(terms, " AND ")
}

func isWordToken(word string) bool {
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
