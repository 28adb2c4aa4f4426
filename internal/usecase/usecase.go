package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/op5no29/subtitle-generator/internal/domain/language"
	"github.com/op5no29/subtitle-generator/internal/domain/subtitles"
	"github.com/op5no29/subtitle-generator/internal/ports"
	"github.com/op5no29/subtitle-generator/internal/types"
)

type Deps struct {
	Media      ports.MediaTool
	ASR        ports.Recognizer
	Translator ports.Translator
	Usage      ports.UsageRecorder
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

// Limits bounds what one run may ask of the hosted services.
type Limits struct {
	ChunkSeconds    int
	MaxConcurrent   int
	MaxRetries      int
	RateLimitPerMin int
}

func (l Limits) withDefaults() Limits {
	if l.ChunkSeconds <= 0 {
		l.ChunkSeconds = 600
	}
	if l.MaxConcurrent <= 0 {
		l.MaxConcurrent = 3
	}
	if l.MaxRetries <= 0 {
		l.MaxRetries = 3
	}
	if l.RateLimitPerMin <= 0 {
		l.RateLimitPerMin = 30
	}
	return l
}

// SubtitleInput describes one end-to-end video subtitling run.
type SubtitleInput struct {
	InputVideo string
	OutDir     string
	CacheDir   string

	Languages language.Pair
	Options   subtitles.Options
	Style     subtitles.Style
	Limits    Limits

	// BurnIn renders the cues into a new video alongside the SRT.
	BurnIn bool
	// SkipTranslation keeps the subtitles in the recognized language even
	// when the target differs.
	SkipTranslation bool
	// UserID attributes the run in the usage log; zero means anonymous.
	UserID int64
}

// SubtitleResult reports what a subtitling run produced.
type SubtitleResult struct {
	SRTPath    string
	VideoPath  string
	Cues       []types.SubtitleCue
	Detected   language.Language
	Translated bool
}

// GenerateVideoSubtitles extracts audio, transcribes it (in chunks when the
// source is long), optionally translates, and writes a cue-normalized SRT.
func (u Usecase) GenerateVideoSubtitles(ctx context.Context, in SubtitleInput) (SubtitleResult, error) {
	started := time.Now()
	limits := in.Limits.withDefaults()

	if err := os.MkdirAll(in.OutDir, 0o755); err != nil {
		return SubtitleResult{}, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.MkdirAll(in.CacheDir, 0o755); err != nil {
		return SubtitleResult{}, fmt.Errorf("create cache dir: %w", err)
	}

	wav := filepath.Join(in.CacheDir, "audio.wav")
	if err := u.d.Media.ExtractAudio(ctx, in.InputVideo, wav); err != nil {
		return SubtitleResult{}, err
	}

	tr, err := u.transcribe(ctx, wav, in.Languages.Source, in.CacheDir, limits)
	if err != nil {
		return SubtitleResult{}, err
	}
	if strings.TrimSpace(tr.Text) == "" {
		return SubtitleResult{}, fmt.Errorf("no speech recognized in %s", in.InputVideo)
	}

	detected := language.Normalize(tr.Language)
	if detected == language.Unknown {
		detected = language.Detect(tr.Text)
	}
	pair := in.Languages.Resolve(detected)
	translate := !in.SkipTranslation && pair.NeedsTranslation()
	slog.Info("transcription complete",
		"words", len(tr.Words), "language", string(detected), "translate", translate)

	translatedFull := ""
	if translate {
		translatedFull, err = u.d.Translator.Translate(ctx, tr.Text, pair)
		if err != nil {
			return SubtitleResult{}, fmt.Errorf("translate transcript: %w", err)
		}
	}

	cues := subtitles.NormalizeCues(subtitles.BuildCues(tr, translatedFull, in.Options))
	if len(cues) == 0 {
		return SubtitleResult{}, fmt.Errorf("no subtitle cues produced for %s", in.InputVideo)
	}

	base := strings.TrimSuffix(filepath.Base(in.InputVideo), filepath.Ext(in.InputVideo))
	srtPath := filepath.Join(in.OutDir, base+".srt")
	if err := os.WriteFile(srtPath, []byte(subtitles.RenderSRT(cues)), 0o644); err != nil {
		return SubtitleResult{}, fmt.Errorf("write srt: %w", err)
	}

	res := SubtitleResult{
		SRTPath:    srtPath,
		Cues:       cues,
		Detected:   detected,
		Translated: translatedFull != "",
	}

	if in.BurnIn {
		outVideo := filepath.Join(in.OutDir, base+"_subtitled.mp4")
		if err := u.d.Media.BurnSubtitles(ctx, in.InputVideo, srtPath, outVideo, in.Style); err != nil {
			return SubtitleResult{}, err
		}
		res.VideoPath = outVideo
	}

	u.logUsage(ctx, types.UsageRecord{
		UserID:          in.UserID,
		Feature:         "video_subtitles",
		FileName:        filepath.Base(in.InputVideo),
		FileSizeMB:      fileSizeMB(in.InputVideo),
		ProcessingSec:   time.Since(started).Seconds(),
		Characters:      len([]rune(tr.Text)),
		TranslationUsed: res.Translated,
	})
	return res, nil
}

// TranscribeInput describes a standalone audio transcription run.
type TranscribeInput struct {
	InputAudio string
	OutDir     string
	CacheDir   string

	Language language.Language
	Options  subtitles.Options
	Limits   Limits

	// AsSRT writes timed cues instead of plain text.
	AsSRT  bool
	UserID int64
}

// TranscribeResult reports what a transcription run produced.
type TranscribeResult struct {
	OutPath  string
	Text     string
	Detected language.Language
}

// TranscribeAudio runs recognition only, writing either plain text or an SRT
// built from the recognizer's own timing.
func (u Usecase) TranscribeAudio(ctx context.Context, in TranscribeInput) (TranscribeResult, error) {
	started := time.Now()
	limits := in.Limits.withDefaults()

	if err := os.MkdirAll(in.OutDir, 0o755); err != nil {
		return TranscribeResult{}, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.MkdirAll(in.CacheDir, 0o755); err != nil {
		return TranscribeResult{}, fmt.Errorf("create cache dir: %w", err)
	}

	tr, err := u.transcribe(ctx, in.InputAudio, in.Language, in.CacheDir, limits)
	if err != nil {
		return TranscribeResult{}, err
	}
	if strings.TrimSpace(tr.Text) == "" {
		return TranscribeResult{}, fmt.Errorf("no speech recognized in %s", in.InputAudio)
	}

	detected := language.Normalize(tr.Language)
	if detected == language.Unknown {
		detected = language.Detect(tr.Text)
	}

	base := strings.TrimSuffix(filepath.Base(in.InputAudio), filepath.Ext(in.InputAudio))
	var outPath string
	if in.AsSRT {
		cues := subtitles.NormalizeCues(subtitles.BuildCues(tr, "", in.Options))
		outPath = filepath.Join(in.OutDir, base+".srt")
		if err := os.WriteFile(outPath, []byte(subtitles.RenderSRT(cues)), 0o644); err != nil {
			return TranscribeResult{}, fmt.Errorf("write srt: %w", err)
		}
	} else {
		outPath = filepath.Join(in.OutDir, base+".txt")
		if err := os.WriteFile(outPath, []byte(strings.TrimSpace(tr.Text)+"\n"), 0o644); err != nil {
			return TranscribeResult{}, fmt.Errorf("write transcript: %w", err)
		}
	}

	u.logUsage(ctx, types.UsageRecord{
		UserID:        in.UserID,
		Feature:       "transcription",
		FileName:      filepath.Base(in.InputAudio),
		FileSizeMB:    fileSizeMB(in.InputAudio),
		ProcessingSec: time.Since(started).Seconds(),
		Characters:    len([]rune(tr.Text)),
	})
	return TranscribeResult{OutPath: outPath, Text: tr.Text, Detected: detected}, nil
}

// transcribe recognizes one audio file, splitting it into fixed-length chunks
// first when it exceeds the chunk duration. Chunk results are merged with
// their timestamps offset by chunk position.
func (u Usecase) transcribe(ctx context.Context, audioPath string, lang language.Language, cacheDir string, limits Limits) (types.TranscriptionResult, error) {
	duration, err := u.d.Media.ProbeDuration(ctx, audioPath)
	if err != nil {
		return types.TranscriptionResult{}, err
	}

	if duration <= float64(limits.ChunkSeconds) {
		return u.transcribeWithRetry(ctx, audioPath, lang, limits.MaxRetries, nil)
	}

	chunkDir := filepath.Join(cacheDir, "chunks")
	chunks, err := u.d.Media.SplitAudio(ctx, audioPath, chunkDir, limits.ChunkSeconds)
	if err != nil {
		return types.TranscriptionResult{}, err
	}
	slog.Info("audio split for chunked transcription",
		"duration_sec", duration, "chunks", len(chunks))

	limiter := rate.NewLimiter(rate.Limit(float64(limits.RateLimitPerMin)/60.0), 1)
	results := make([]types.TranscriptionResult, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limits.MaxConcurrent)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			res, err := u.transcribeWithRetry(gctx, chunk, lang, limits.MaxRetries, limiter)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			results[i] = offsetResult(res, float64(i*limits.ChunkSeconds))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.TranscriptionResult{}, err
	}
	return mergeResults(results), nil
}

func (u Usecase) transcribeWithRetry(ctx context.Context, audioPath string, lang language.Language, maxRetries int, limiter *rate.Limiter) (types.TranscriptionResult, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return types.TranscriptionResult{}, err
			}
		}
		res, err := u.d.ASR.Transcribe(ctx, audioPath, lang)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return types.TranscriptionResult{}, ctx.Err()
		}
		if attempt == maxRetries-1 {
			break
		}
		backoff := time.Duration(1<<attempt) * time.Second
		slog.Warn("transcription attempt failed",
			"path", filepath.Base(audioPath), "attempt", attempt+1, "backoff", backoff, "error", err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return types.TranscriptionResult{}, ctx.Err()
		}
	}
	return types.TranscriptionResult{}, fmt.Errorf("transcribe %s after %d attempts: %w", filepath.Base(audioPath), maxRetries, lastErr)
}

func offsetResult(res types.TranscriptionResult, offset float64) types.TranscriptionResult {
	for i := range res.Words {
		if res.Words[i].Start != nil {
			v := *res.Words[i].Start + offset
			res.Words[i].Start = &v
		}
		if res.Words[i].End != nil {
			v := *res.Words[i].End + offset
			res.Words[i].End = &v
		}
	}
	for i := range res.Segments {
		res.Segments[i].Start += offset
		res.Segments[i].End += offset
	}
	return res
}

func mergeResults(results []types.TranscriptionResult) types.TranscriptionResult {
	var merged types.TranscriptionResult
	var texts []string
	for _, r := range results {
		if t := strings.TrimSpace(r.Text); t != "" {
			texts = append(texts, t)
		}
		merged.Words = append(merged.Words, r.Words...)
		merged.Segments = append(merged.Segments, r.Segments...)
		if merged.Language == "" {
			merged.Language = r.Language
		}
	}
	sort.SliceStable(merged.Segments, func(i, j int) bool {
		return merged.Segments[i].Start < merged.Segments[j].Start
	})
	merged.Text = strings.Join(texts, " ")
	return merged
}

func (u Usecase) logUsage(ctx context.Context, rec types.UsageRecord) {
	if u.d.Usage == nil {
		return
	}
	if err := u.d.Usage.LogUsage(ctx, rec); err != nil {
		slog.Warn("usage logging failed", "error", err)
	}
}

func fileSizeMB(path string) float64 {
	st, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return float64(st.Size()) / (1024 * 1024)
}
