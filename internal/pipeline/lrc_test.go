package pipeline

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		ms   int
		want string
	}{
		{0, "[00:00.00]"},
		{75030, "[01:15.03]"},
		{3599990, "[59:59.99]"},
		{1000, "[00:01.00]"},
		{59999, "[00:59.99]"},
		{60000, "[01:00.00]"},
		{9, "[00:00.00]"},   // sub-centisecond truncates
		{10, "[00:00.01]"},
		{6000000, "[100:00.00]"}, // minutes run past two digits
	}

	for _, tt := range tests {
		got := FormatTimestamp(tt.ms)
		if got != tt.want {
			t.Errorf("FormatTimestamp(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestEntries_Empty(t *testing.T) {
	entries, err := Entries(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries != nil {
		t.Errorf("expected nil entries for empty input, got %v", entries)
	}
}

func TestEntries_JoinsWordsWithSingleSpaces(t *testing.T) {
	lines := []Line{
		{Words: []Word{
			{Text: "Hello,", Start: 1500, End: 1900},
			{Text: "World!", Start: 2000, End: 2400},
		}},
	}

	entries, err := Entries(lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Timestamp != "[00:01.50]" {
		t.Errorf("timestamp = %q, want [00:01.50]", entries[0].Timestamp)
	}
	if entries[0].Text != "Hello, World!" {
		t.Errorf("text = %q, want 'Hello, World!'", entries[0].Text)
	}
}

func TestEntries_EmptyLineIsFormatError(t *testing.T) {
	lines := []Line{
		{Words: []Word{{Text: "ok", Start: 0, End: 100}}},
		{},
	}

	_, err := Entries(lines)
	if err == nil {
		t.Fatal("expected FormatError for empty line, got nil")
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FormatError, got %T: %v", err, err)
	}
	if fe.Line != 2 {
		t.Errorf("FormatError.Line = %d, want 2", fe.Line)
	}
}

func TestEntries_MonotonicTimestamps(t *testing.T) {
	words := []Word{
		{Text: "a", Start: 0, End: 100},
		{Text: "b", Start: 900, End: 1000},
		{Text: "c", Start: 5000, End: 5100},
		{Text: "d", Start: 5200, End: 5300},
		{Text: "e", Start: 61000, End: 61500},
	}
	lines := GroupWords(words, Policy{MaxWordsPerLine: 2})

	entries, err := Entries(lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp < entries[i-1].Timestamp {
			t.Errorf("timestamps not monotonic: %q after %q",
				entries[i].Timestamp, entries[i-1].Timestamp)
		}
	}
}

func TestWriteLRC(t *testing.T) {
	entries := []Entry{
		{Timestamp: "[00:00.00]", Text: "First line"},
		{Timestamp: "[00:02.50]", Text: "Second line"},
	}

	var sb strings.Builder
	if err := WriteLRC(&sb, entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "[00:00.00]First line\n[00:02.50]Second line\n"
	if sb.String() != want {
		t.Errorf("got %q, want %q", sb.String(), want)
	}
}

func TestWriteLRC_Empty(t *testing.T) {
	var sb strings.Builder
	if err := WriteLRC(&sb, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sb.Len() != 0 {
		t.Errorf("expected empty output, got %q", sb.String())
	}
}
