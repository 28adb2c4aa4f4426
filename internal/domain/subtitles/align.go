package subtitles

import "strings"

// alignWindowRunes bounds the outward scan of the proportional fallback.
const alignWindowRunes = 50

// AlignTranslation estimates which slice of a whole-text translation belongs
// to the segment at segmentIndex. The transcript was translated as one block
// to preserve cross-sentence context, so per-segment translated text has to
// be recovered heuristically: sentence-index correspondence first, then a
// proportional character-offset window when the translation has fewer
// sentences than the transcript has segments.
//
// The function is total: for non-empty inputs it returns a non-empty string
// for any segmentIndex >= 0.
func AlignTranslation(originalText, fullTranslated string, segmentIndex, totalSegments int) string {
	sentences := splitSentencesDiscard(fullTranslated)
	if len(sentences) == 0 {
		return originalText
	}

	if segmentIndex < len(sentences) {
		sentence := sentences[segmentIndex]
		if segmentIndex < len(sentences)-1 {
			// Continuation marker: the sentence terminator was consumed by
			// the split, restore one except on the final sentence.
			sentence += "。"
		}
		return sentence
	}

	// More segments than translated sentences: the translation merged
	// sentences. Map the segment index proportionally onto the translated
	// text and cut at the nearest sentence-terminal punctuation.
	runes := []rune(fullTranslated)
	if totalSegments < 1 {
		totalSegments = 1
	}
	pos := len(runes) * segmentIndex / totalSegments
	if pos > len(runes) {
		pos = len(runes)
	}
	start := pos - alignWindowRunes
	if start < 0 {
		start = 0
	}
	end := pos + alignWindowRunes
	if end > len(runes) {
		end = len(runes)
	}

	for i := pos; i < end; i++ {
		switch runes[i] {
		case '。', '！', '？': // 。！？
			if out := strings.TrimSpace(string(runes[start : i+1])); out != "" {
				return out
			}
		}
	}
	if out := strings.TrimSpace(string(runes[start:end])); out != "" {
		return out
	}
	return strings.TrimSpace(fullTranslated)
}

// splitSentencesDiscard splits text at chunk terminators, discarding the
// terminators themselves and any whitespace-only pieces.
func splitSentencesDiscard(text string) []string {
	var sentences []string
	var current strings.Builder
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}
	for _, r := range text {
		if isChunkTerminator(r) {
			flush()
			continue
		}
		current.WriteRune(r)
	}
	flush()
	return sentences
}
