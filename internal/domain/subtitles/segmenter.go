package subtitles

import (
	"strings"
	"unicode/utf8"
)

// Default caption shape used when the caller passes non-positive bounds.
const (
	DefaultMaxCharsPerLine = 20
	DefaultMaxLines        = 2
)

// chunkTerminators are the characters a caption chunk may end on: CJK and
// Latin sentence terminators plus pause marks. The terminator stays attached
// to the preceding unit.
var chunkTerminators = map[rune]struct{}{
	'。': {}, '！': {}, '？': {}, '、': {}, // 。！？、
	'.': {}, ':': {}, '!': {}, '?': {},
}

func isChunkTerminator(r rune) bool {
	_, ok := chunkTerminators[r]
	return ok
}

// SplitForCaptions breaks text into caption-sized chunks. Each returned chunk
// holds at most maxLines physical lines of at most maxCharsPerLine runes,
// except that a single token longer than maxCharsPerLine is kept whole rather
// than hyphenated. Empty input yields nil.
func SplitForCaptions(text string, maxCharsPerLine, maxLines int) []string {
	if maxCharsPerLine <= 0 {
		maxCharsPerLine = DefaultMaxCharsPerLine
	}
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	sentences := splitSentenceUnits(text)
	if len(sentences) == 0 {
		return nil
	}

	// Greedily pack sentence units into chunks bounded by the caption budget.
	budget := maxCharsPerLine * maxLines
	var chunks []string
	var current strings.Builder
	currentLen := 0
	for _, sentence := range sentences {
		sentLen := utf8.RuneCountInString(sentence)
		if currentLen+sentLen <= budget {
			current.WriteString(sentence)
			currentLen += sentLen
			continue
		}
		if currentLen > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(sentence)
		currentLen = sentLen
	}
	if currentLen > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	// Wrap chunks that exceed a single line, regrouping overflow into
	// additional captions of at most maxLines lines each.
	var final []string
	for _, chunk := range chunks {
		if utf8.RuneCountInString(chunk) <= maxCharsPerLine {
			final = append(final, chunk)
			continue
		}
		lines := wrapLines(chunk, maxCharsPerLine)
		if len(lines) <= maxLines {
			final = append(final, strings.Join(lines, "\n"))
			continue
		}
		for i := 0; i < len(lines); i += maxLines {
			end := i + maxLines
			if end > len(lines) {
				end = len(lines)
			}
			final = append(final, strings.Join(lines[i:end], "\n"))
		}
	}
	return final
}

// splitSentenceUnits splits text at chunk terminators, keeping the terminator
// attached to the preceding unit and dropping whitespace-only units.
func splitSentenceUnits(text string) []string {
	var units []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if isChunkTerminator(r) {
			if unit := strings.TrimSpace(current.String()); unit != "" {
				units = append(units, unit)
			}
			current.Reset()
		}
	}
	if unit := strings.TrimSpace(current.String()); unit != "" {
		units = append(units, unit)
	}
	return units
}

// wrapLines greedily wraps whitespace-separated tokens into lines of at most
// maxCharsPerLine runes. A token longer than the limit becomes its own
// overflowing line.
func wrapLines(text string, maxCharsPerLine int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var current string
	currentLen := 0
	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		candidateLen := currentLen + wordLen
		if currentLen > 0 {
			candidateLen++ // separator space
		}
		if candidateLen <= maxCharsPerLine {
			if currentLen > 0 {
				current += " "
			}
			current += word
			currentLen = candidateLen
			continue
		}
		if currentLen > 0 {
			lines = append(lines, current)
		}
		current = word
		currentLen = wordLen
	}
	if currentLen > 0 {
		lines = append(lines, current)
	}
	return lines
}
