package pipeline

import (
	"strings"
	"unicode/utf8"
)

// Sentence-terminal punctuation, Latin and CJK.
var sentenceTerminal = map[rune]struct{}{
	'.': {}, '!': {}, '?': {},
	'…': {}, // …
	'。': {}, '！': {}, '？': {}, // 。！？
}

// Closing quotes and brackets that may trail the terminal punctuation.
var trailingClosers = map[rune]struct{}{
	'"': {}, '\'': {}, ')': {}, ']': {}, '}': {},
	'”': {}, '’': {}, // ” ’
	'」': {}, '』': {}, '）': {}, '》': {}, // 」』）》
}

// endsSentence reports whether a word's text ends a sentence: its last rune,
// after stripping any closing quotes/brackets, is terminal punctuation.
func endsSentence(text string) bool {
	text = strings.TrimSpace(text)
	for text != "" {
		r, size := utf8.DecodeLastRuneInString(text)
		if r == utf8.RuneError && size <= 1 {
			return false
		}
		if _, ok := trailingClosers[r]; ok {
			text = text[:len(text)-size]
			continue
		}
		_, ok := sentenceTerminal[r]
		return ok
	}
	return false
}
