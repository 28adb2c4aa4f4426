package ports

import (
	"context"

	"github.com/op5no29/subtitle-generator/internal/domain/language"
	"github.com/op5no29/subtitle-generator/internal/domain/subtitles"
	"github.com/op5no29/subtitle-generator/internal/types"
)

// MediaTool runs the external media-processing binary.
type MediaTool interface {
	ExtractAudio(ctx context.Context, inPath, outWav string) error
	ProbeDuration(ctx context.Context, path string) (float64, error)
	SplitAudio(ctx context.Context, inPath, outDir string, chunkSeconds int) ([]string, error)
	BurnSubtitles(ctx context.Context, videoPath, srtPath, outPath string, style subtitles.Style) error
}

// Recognizer is the hosted speech-to-text service. lang may be Auto.
type Recognizer interface {
	Transcribe(ctx context.Context, audioPath string, lang language.Language) (types.TranscriptionResult, error)
}

// Translator translates a whole transcript in one call so cross-sentence
// context survives; per-segment text is recovered locally afterwards.
type Translator interface {
	Translate(ctx context.Context, text string, pair language.Pair) (string, error)
}

// UsageRecorder persists per-request usage accounting. Implementations must
// tolerate being called with a zero UserID (anonymous runs).
type UsageRecorder interface {
	LogUsage(ctx context.Context, rec types.UsageRecord) error
}
