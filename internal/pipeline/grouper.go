package pipeline

// Policy controls how words are grouped into display lines. A zero value for
// MaxWordsPerLine or MaxGapMS disables that condition.
type Policy struct {
	// MaxWordsPerLine caps the number of words per line.
	MaxWordsPerLine int
	// MaxGapMS starts a new line when the silence between the previous
	// word's end and the next word's start exceeds this many milliseconds.
	MaxGapMS int
	// SentenceSplit starts a new line after terminal punctuation.
	SentenceSplit bool
}

// DefaultPolicy returns the grouping defaults: at most 8 words per line,
// a new line after 2 seconds of silence, and breaks at sentence boundaries.
func DefaultPolicy() Policy {
	return Policy{
		MaxWordsPerLine: 8,
		MaxGapMS:        2000,
		SentenceSplit:   true,
	}
}

// GroupWords partitions an ordered word sequence into lines according to the
// policy. Every word appears in exactly one line, in input order. Conditions
// are checked in stream order: the gap check runs before a word joins the
// current line, the count and punctuation checks after, so whichever boundary
// is reached first wins.
func GroupWords(words []Word, p Policy) []Line {
	if len(words) == 0 {
		return nil
	}

	var lines []Line
	var current []Word

	flush := func() {
		if len(current) > 0 {
			lines = append(lines, Line{Words: current})
			current = nil
		}
	}

	for i, w := range words {
		if len(current) > 0 && p.MaxGapMS > 0 {
			gap := w.Start - current[len(current)-1].End
			if gap > p.MaxGapMS {
				flush()
			}
		}

		current = append(current, w)

		if p.SentenceSplit && endsSentence(w.Text) {
			flush()
			continue
		}
		if p.MaxWordsPerLine > 0 && len(current) >= p.MaxWordsPerLine {
			flush()
			continue
		}
		if i == len(words)-1 {
			flush()
		}
	}

	return lines
}
