package subtitles

import (
	"strings"

	"github.com/op5no29/subtitle-generator/internal/types"
)

const (
	// DefaultFallbackWindowSec is the assumed total duration when the
	// recognizer returned no word timestamps at all. A placeholder: true
	// duration is unknowable without timing data.
	DefaultFallbackWindowSec = 30.0

	// minFallbackChunkSec floors per-chunk display time on the no-timestamp
	// path so dense text does not flash by.
	minFallbackChunkSec = 2.0

	// minCueDurationSec is the duration degenerate cues are extended to by
	// NormalizeCues.
	minCueDurationSec = 0.5
)

// Options shapes cue construction. Zero values select the defaults.
type Options struct {
	MaxCharsPerLine int
	MaxLines        int
	// FallbackWindowSec is the synthetic total duration used when no word
	// timestamps exist.
	FallbackWindowSec float64
}

func (o Options) withDefaults() Options {
	if o.MaxCharsPerLine <= 0 {
		o.MaxCharsPerLine = DefaultMaxCharsPerLine
	}
	if o.MaxLines <= 0 {
		o.MaxLines = DefaultMaxLines
	}
	if o.FallbackWindowSec <= 0 {
		o.FallbackWindowSec = DefaultFallbackWindowSec
	}
	return o
}

// BuildCues combines boundary detection, translation alignment, and caption
// segmentation into a time-ordered cue sequence. translatedFull is the
// whole-text translation; pass "" when no translation was requested, in which
// case the transcript's own text is captioned.
//
// Callers should run NormalizeCues on the result before serializing.
func BuildCues(tr types.TranscriptionResult, translatedFull string, opts Options) []types.SubtitleCue {
	opts = opts.withDefaults()

	text := translatedFull
	if strings.TrimSpace(text) == "" {
		text = tr.Text
	}

	if !tr.HasWords() {
		return buildUntimedCues(text, opts)
	}

	segments := FindNaturalSegments(tr.Words, text)

	var cues []types.SubtitleCue
	index := 1
	for _, seg := range segments {
		chunks := SplitForCaptions(seg.TranslatedText, opts.MaxCharsPerLine, opts.MaxLines)
		if len(chunks) == 0 {
			continue
		}
		if len(chunks) == 1 {
			cues = append(cues, types.SubtitleCue{Index: index, Start: seg.Start, End: seg.End, Text: chunks[0]})
			index++
			continue
		}
		// Equal division by chunk count, not by text length. Chunks of
		// uneven length get uneven reading time; accepted for simplicity.
		slice := (seg.End - seg.Start) / float64(len(chunks))
		for j, chunk := range chunks {
			cues = append(cues, types.SubtitleCue{
				Index: index,
				Start: seg.Start + float64(j)*slice,
				End:   seg.Start + float64(j+1)*slice,
				Text:  chunk,
			})
			index++
		}
	}
	return cues
}

// buildUntimedCues captions text with uniform synthetic timings when no word
// timestamps are available.
func buildUntimedCues(text string, opts Options) []types.SubtitleCue {
	chunks := SplitForCaptions(text, opts.MaxCharsPerLine, opts.MaxLines)
	if len(chunks) == 0 {
		return nil
	}
	perChunk := opts.FallbackWindowSec / float64(len(chunks))
	if perChunk < minFallbackChunkSec {
		perChunk = minFallbackChunkSec
	}
	cues := make([]types.SubtitleCue, 0, len(chunks))
	for i, chunk := range chunks {
		cues = append(cues, types.SubtitleCue{
			Index: i + 1,
			Start: float64(i) * perChunk,
			End:   float64(i+1) * perChunk,
			Text:  chunk,
		})
	}
	return cues
}

// NormalizeCues repairs the known defect classes of cue construction: cues
// with empty text are dropped, overlapping starts are clamped to the previous
// cue's end, and degenerate (start >= end) cues are extended to a minimum
// duration. Indices are reassigned 1..N afterwards.
func NormalizeCues(cues []types.SubtitleCue) []types.SubtitleCue {
	out := make([]types.SubtitleCue, 0, len(cues))
	prevEnd := 0.0
	for _, cue := range cues {
		if strings.TrimSpace(cue.Text) == "" {
			continue
		}
		if cue.Start < prevEnd {
			cue.Start = prevEnd
		}
		if cue.End <= cue.Start {
			cue.End = cue.Start + minCueDurationSec
		}
		cue.Index = len(out) + 1
		out = append(out, cue)
		prevEnd = cue.End
	}
	return out
}
