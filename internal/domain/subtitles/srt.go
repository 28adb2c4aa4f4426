package subtitles

import (
	"fmt"
	"math"
	"strings"

	"github.com/op5no29/subtitle-generator/internal/types"
)

// FormatTimestamp converts seconds to the SubRip time format HH:MM:SS,mmm
// (comma decimal separator). Negative or NaN input clamps to zero. The hour
// field is zero-padded to at least two digits and grows past 24 unwrapped.
func FormatTimestamp(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	hours := int(seconds / 3600)
	minutes := int(math.Mod(seconds, 3600) / 60)
	secs := math.Mod(seconds, 60)
	millis := int(math.Mod(secs, 1) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, int(secs), millis)
}

// RenderSRT serializes cues to SubRip text: index, time range, text, blank
// line, repeated per cue. Cue indices are taken as-is; run NormalizeCues
// first if the sequence may contain gaps or degenerate timings.
func RenderSRT(cues []types.SubtitleCue) string {
	if len(cues) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, cue := range cues {
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n",
			cue.Index, FormatTimestamp(cue.Start), FormatTimestamp(cue.End), cue.Text)
	}
	return sb.String()
}
