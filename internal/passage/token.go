// Package passage implements one graded oral-reading session: the teacher
// marks miscues on the passage words while the student reads against a
// timer, then records comprehension answers, and the session computes the
// final reading-level result.
package passage

import "strings"

// Token is one word of the passage with its marking state. A token holds
// either a miscue or a self-correction, never both.
type Token struct {
	Index          int
	Word           string
	Miscue         string // miscue type id, empty when clean
	SelfCorrection bool
}

// Tokenize splits passage text on whitespace runs. Punctuation stays
// attached to its word; indices are stable 0-based positions.
func Tokenize(text string) []Token {
	words := strings.Fields(text)
	tokens := make([]Token, len(words))
	for i, w := range words {
		tokens[i] = Token{Index: i, Word: w}
	}
	return tokens
}
