package subtitles

import (
	"strings"

	"github.com/op5no29/subtitle-generator/internal/types"
)

// Timing thresholds for natural break detection, in seconds. The minimums
// keep cues from flashing by; the cap keeps a single cue readable.
const (
	minSentenceSegmentSec = 1.5
	minPauseSegmentSec    = 2.0
	maxSegmentDurationSec = 6.0
	pauseBreakSec         = 1.0
)

var sentenceEndPunct = map[rune]struct{}{
	'。': {}, '！': {}, '？': {}, // 。！？
	'.': {}, '!': {}, '?': {},
}

func endsWithSentencePunct(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	runes := []rune(text)
	_, ok := sentenceEndPunct[runes[len(runes)-1]]
	return ok
}

// FindNaturalSegments walks word-level timestamps and groups them into
// speech-natural segments, breaking on sentence-final punctuation, long
// inter-word pauses, or the maximum-duration cap. Each segment's translated
// text is estimated from translatedFullText via AlignTranslation.
//
// Words without explicit timing fall back to their positional index as a
// synthetic timestamp: ordering survives but durations become meaningless, so
// duration-based breaks degrade on such input.
func FindNaturalSegments(words []types.Word, translatedFullText string) []types.Segment {
	if len(words) == 0 {
		return nil
	}

	type rawSegment struct {
		start, end float64
		text       string
	}
	var raw []rawSegment

	var textBuf strings.Builder
	segmentStart := words[0].StartOr(0)
	for i, word := range words {
		wordEnd := word.EndOr(float64(i + 1))

		textBuf.WriteString(word.Text)
		textBuf.WriteByte(' ')

		duration := wordEnd - segmentStart
		isSentenceEnd := endsWithSentencePunct(word.Text)

		pauseAfter := false
		if i < len(words)-1 {
			nextStart := words[i+1].StartOr(float64(i + 1))
			pauseAfter = nextStart-wordEnd > pauseBreakSec
		}

		isLast := i == len(words)-1
		shouldBreak := (isSentenceEnd && duration >= minSentenceSegmentSec) ||
			(pauseAfter && duration >= minPauseSegmentSec) ||
			duration > maxSegmentDurationSec ||
			isLast

		if !shouldBreak {
			continue
		}

		raw = append(raw, rawSegment{
			start: segmentStart,
			end:   wordEnd,
			text:  strings.TrimSpace(textBuf.String()),
		})
		textBuf.Reset()
		if !isLast {
			segmentStart = words[i+1].StartOr(float64(i + 1))
		}
	}

	// Boundary detection runs to completion before alignment so the
	// proportional fallback divides by the real segment count.
	segments := make([]types.Segment, 0, len(raw))
	for i, r := range raw {
		segments = append(segments, types.Segment{
			Start:          r.start,
			End:            r.end,
			OriginalText:   r.text,
			TranslatedText: AlignTranslation(r.text, translatedFullText, i, len(raw)),
		})
	}
	return segments
}
