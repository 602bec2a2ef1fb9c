package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
)

// ParseError indicates the input JSON is not a usable transcript: unreadable,
// malformed, or missing the word-timestamp list.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Path, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads a transcript JSON file and returns its document form. It accepts
// both the saved auralynx document and a raw AssemblyAI transcript result;
// both carry a top-level "words" array.
//
// A missing "words" field is a ParseError. An empty "words" array is not: an
// audio file with no speech is a valid transcript.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: "read file", Err: err}
	}

	// Decode into a shape that covers both the document and the raw
	// transcript. json leaves Words nil when the key is absent and non-nil
	// (but empty) for "words": [], which is exactly the distinction needed.
	var raw struct {
		SourceFile string `json:"source_file"`
		ID         string `json:"id"`
		Status     string `json:"status"`
		Text       string `json:"text"`
		Words      []Word `json:"words"`
		Meta       *Meta  `json:"meta"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Reason: "malformed JSON", Err: err}
	}
	if raw.Words == nil {
		return nil, &ParseError{Path: path, Reason: "no word-timestamp list in JSON"}
	}

	meta := Meta{Status: raw.Status, ID: raw.ID}
	if raw.Meta != nil {
		meta = *raw.Meta
	}
	source := raw.SourceFile
	if source == "" {
		source = path
	}

	return &Document{
		SourceFile: source,
		Text:       raw.Text,
		Words:      raw.Words,
		Meta:       meta,
	}, nil
}
