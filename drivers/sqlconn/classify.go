package sqlconn

import (
	"slices"
	"strings"
	"unicode"

	"github.com/mitranim/sqlp"
)

// Statements starting with one of these words return rows.
var rowWords = []string{
	"select", "with", "values", "show", "pragma",
	"explain", "describe", "desc", "table",
}

// ReturnsRows reports if the query is expected to return rows.
//
// database/sql makes us choose between Exec (which reports the number of
// affected rows) and Query (which returns rows). This looks at the first word
// of the statement and for a RETURNING clause; quoted strings, identifiers,
// and comments are skipped.
func ReturnsRows(query string) (rows bool) {
	words, ok := tokenWords(query)
	if !ok {
		words = splitWords(query)
	}
	for i, w := range words {
		w = strings.ToLower(w)
		if i == 0 && slices.Contains(rowWords, w) {
			return true
		}
		if w == "returning" {
			return true
		}
	}
	return false
}

// tokenWords gets all words outside of quotes and comments. The tokenizer
// panics on malformed SQL (e.g. unbalanced parens), in which case it returns
// false.
func tokenWords(query string) (words []string, ok bool) {
	defer func() {
		if recover() != nil {
			words, ok = nil, false
		}
	}()

	tokenizer := sqlp.Tokenizer{Source: query}
	for {
		node := tokenizer.Next()
		if node == nil {
			break
		}
		if text, isText := node.(sqlp.NodeText); isText {
			words = append(words, splitWords(string(text))...)
		}
	}
	return words, true
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}
