package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// FormatError indicates a grouping invariant was violated before formatting.
// It is a programmer error, not a user-recoverable condition.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("lrc format: line %d: %s", e.Line, e.Reason)
}

// FormatTimestamp renders a millisecond offset as an LRC [MM:SS.CC] tag.
// Centiseconds truncate; 75030 ms becomes [01:15.03].
func FormatTimestamp(ms int) string {
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	centis := (ms % 1000) / 10
	return fmt.Sprintf("[%02d:%02d.%02d]", minutes, seconds, centis)
}

// Entries converts grouped lines to LRC entries, one per line. An empty line
// is a FormatError: it means the grouper broke its partition contract, and
// emitting a bare timestamp tag would corrupt the output.
func Entries(lines []Line) ([]Entry, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(lines))
	for i, line := range lines {
		if len(line.Words) == 0 {
			return nil, &FormatError{Line: i + 1, Reason: "empty line (zero words)"}
		}

		texts := make([]string, 0, len(line.Words))
		for _, w := range line.Words {
			texts = append(texts, strings.TrimSpace(w.Text))
		}

		entries = append(entries, Entry{
			Timestamp: FormatTimestamp(line.StartMS()),
			Text:      strings.Join(texts, " "),
		})
	}
	return entries, nil
}

// WriteLRC writes entries as LRC lines, one "[MM:SS.CC]<text>" per line,
// each newline-terminated. An empty entry slice writes nothing: an empty
// transcript yields an empty (but valid) file.
func WriteLRC(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%s%s\n", e.Timestamp, e.Text); err != nil {
			return fmt.Errorf("write LRC line: %w", err)
		}
	}
	return bw.Flush()
}
