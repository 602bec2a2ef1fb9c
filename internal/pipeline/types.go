package pipeline

// Word is a single word-level timestamp from the AssemblyAI transcript.
// Times are integer milliseconds from the start of the audio.
type Word struct {
	Text       string  `json:"text"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence,omitempty"`
	Speaker    string  `json:"speaker,omitempty"`
}

// Transcript is the completed transcript resource returned by the API.
type Transcript struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Words  []Word `json:"words"`
	Error  string `json:"error,omitempty"`
}

// Meta records provider bookkeeping carried into the saved document.
type Meta struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// Document is the JSON file auralynx writes after a transcription run and
// reads back for parse/parse-lrc. The words array is the payload; everything
// else is provenance.
type Document struct {
	SourceFile string `json:"source_file"`
	Text       string `json:"text"`
	Words      []Word `json:"words"`
	Meta       Meta   `json:"meta"`
}

// Line is an ordered run of words displayed together as one lyric line.
type Line struct {
	Words []Word
}

// StartMS returns the timestamp of the line: the first word's start time.
func (l Line) StartMS() int {
	if len(l.Words) == 0 {
		return 0
	}
	return l.Words[0].Start
}

// Entry is one rendered LRC line: a [MM:SS.CC] tag plus the line text.
type Entry struct {
	Timestamp string
	Text      string
}
