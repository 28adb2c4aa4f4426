package types

// Word is a single recognized token with optional timing. Start/End are nil
// when the recognizer returned no word-level timestamps for this token.
type Word struct {
	Text  string   `json:"word"`
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
}

// StartOr returns the word start time, or def when timing is missing.
func (w Word) StartOr(def float64) float64 {
	if w.Start != nil {
		return *w.Start
	}
	return def
}

// EndOr returns the word end time, or def when timing is missing.
func (w Word) EndOr(def float64) float64 {
	if w.End != nil {
		return *w.End
	}
	return def
}

// CoarseSegment is a pre-existing recognizer-side grouping, coarser than the
// natural segments this tool derives from word timings.
type CoarseSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscriptionResult is the full output of one recognition request.
type TranscriptionResult struct {
	Text     string          `json:"text"`
	Words    []Word          `json:"words,omitempty"`
	Segments []CoarseSegment `json:"segments,omitempty"`
	Language string          `json:"language"`
}

// HasWords reports whether word-level timing data is available.
func (t TranscriptionResult) HasWords() bool { return len(t.Words) > 0 }

// Segment is a speech-natural grouping of consecutive words, bounded by
// punctuation, pause, or the maximum-duration cap.
type Segment struct {
	Start          float64
	End            float64
	OriginalText   string
	TranslatedText string
}

// SubtitleCue is one timed entry in the output caption stream.
type SubtitleCue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// UsageRecord describes one completed processing request for the usage log.
type UsageRecord struct {
	UserID          int64
	Feature         string // "video_subtitles" or "transcription"
	FileName        string
	FileSizeMB      float64
	ProcessingSec   float64
	Characters      int
	TranslationUsed bool
}
