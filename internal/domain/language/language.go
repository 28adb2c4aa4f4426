package language

import (
	"fmt"
	"strings"
)

// Language is a normalized two-letter language code. Recognizers report
// either codes ("ja") or English names ("japanese"); Normalize folds both
// onto the same value.
type Language string

const (
	Auto     Language = "auto"
	Unknown  Language = ""
	Japanese Language = "ja"
	English  Language = "en"
	Chinese  Language = "zh"
	Korean   Language = "ko"
)

var aliases = map[string]Language{
	"ja": Japanese, "jpn": Japanese, "japanese": Japanese,
	"en": English, "eng": English, "english": English,
	"zh": Chinese, "zho": Chinese, "chi": Chinese, "chinese": Chinese,
	"ko": Korean, "kor": Korean, "korean": Korean,
	"auto": Auto,
}

// Normalize maps a recognizer language tag (code or English name) onto a
// Language. Unrecognized tags fold to their lowercase form so the value can
// still be compared and logged.
func Normalize(tag string) Language {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if lang, ok := aliases[tag]; ok {
		return lang
	}
	return Language(tag)
}

// IsCJK reports whether the language uses CJK script conventions (no spaces,
// tighter line widths).
func (l Language) IsCJK() bool {
	switch l {
	case Japanese, Chinese, Korean:
		return true
	}
	return false
}

// Name returns the English name used in translation prompts.
func (l Language) Name() string {
	switch l {
	case Japanese:
		return "Japanese"
	case English:
		return "English"
	case Chinese:
		return "Chinese"
	case Korean:
		return "Korean"
	}
	if l == "" {
		return "unknown"
	}
	return string(l)
}

// Pair is a validated (source, target) translation direction. Source may be
// Auto, in which case Resolve substitutes the detected language.
type Pair struct {
	Source Language
	Target Language
}

// ParsePair validates a source/target tag pair at the boundary.
func ParsePair(source, target string) (Pair, error) {
	src := Normalize(source)
	tgt := Normalize(target)
	if tgt == Auto || tgt == Unknown {
		return Pair{}, fmt.Errorf("target language %q is not a concrete language", target)
	}
	if _, ok := aliases[string(tgt)]; !ok {
		return Pair{}, fmt.Errorf("unsupported target language %q", target)
	}
	if src != Auto {
		if _, ok := aliases[string(src)]; !ok {
			return Pair{}, fmt.Errorf("unsupported source language %q", source)
		}
	}
	return Pair{Source: src, Target: tgt}, nil
}

// Resolve replaces an Auto source with the language the recognizer detected.
func (p Pair) Resolve(detected Language) Pair {
	if p.Source == Auto {
		p.Source = detected
	}
	return p
}

// NeedsTranslation reports whether the pair actually crosses languages.
// Resolve first when the source may be Auto.
func (p Pair) NeedsTranslation() bool {
	return p.Source != p.Target && p.Source != Unknown
}

// Detect guesses the dominant language of text by script-class character
// ratios. Chinese is down-weighted so shared Han characters do not shadow
// Japanese. Returns Unknown below a 10% confidence floor or for empty input.
func Detect(text string) Language {
	total := 0
	japanese := 0
	han := 0
	korean := 0
	english := 0
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		total++
		switch {
		case r >= 0x3040 && r <= 0x309F, r >= 0x30A0 && r <= 0x30FF: // kana
			japanese++
		case r >= 0x4E00 && r <= 0x9FAF: // Han, counts for both ja and zh
			japanese++
			han++
		case r >= 0xAC00 && r <= 0xD7AF: // Hangul
			korean++
		case r < 128 && ((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')):
			english++
		}
	}
	if total == 0 {
		return Unknown
	}

	best := Unknown
	bestRatio := 0.0
	for _, c := range []struct {
		lang  Language
		ratio float64
	}{
		{Japanese, float64(japanese) / float64(total)},
		{Chinese, float64(han) / float64(total) * 0.8},
		{Korean, float64(korean) / float64(total)},
		{English, float64(english) / float64(total)},
	} {
		if c.ratio > bestRatio {
			best = c.lang
			bestRatio = c.ratio
		}
	}
	if bestRatio < 0.1 {
		return Unknown
	}
	return best
}
