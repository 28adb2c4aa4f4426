package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/op5no29/subtitle-generator/internal/config"
	"github.com/op5no29/subtitle-generator/internal/domain/language"
	"github.com/op5no29/subtitle-generator/internal/domain/subtitles"
	"github.com/op5no29/subtitle-generator/internal/ports"
	"github.com/op5no29/subtitle-generator/internal/ports/adapters/anthropic"
	"github.com/op5no29/subtitle-generator/internal/ports/adapters/ffmpeg"
	"github.com/op5no29/subtitle-generator/internal/ports/adapters/whisperapi"
	"github.com/op5no29/subtitle-generator/internal/store"
	"github.com/op5no29/subtitle-generator/internal/usecase"
)

type Config struct {
	App *config.Config

	Input  string
	OutDir string

	// CacheDir is the base directory for local artifacts (extracted audio,
	// chunk files). If empty, defaults to ".cache".
	CacheDir string

	SourceLang      string
	TargetLang      string
	SkipTranslation bool
	BurnIn          bool

	// SRTOutput selects timed-cue output for audio transcription runs.
	SRTOutput bool

	FFmpegPath  string
	FFprobePath string

	STTAPIKey        string
	TranslatorAPIKey string

	// UserEmail attributes the run in the usage log. Empty means anonymous.
	UserEmail string
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.Input); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.STTAPIKey == "" {
		return errors.New("speech-to-text API key is required")
	}
	if c.App == nil {
		return errors.New("application config is required")
	}
	if err := c.App.Validate(); err != nil {
		return err
	}
	if !c.SkipTranslation {
		if _, err := language.ParsePair(c.SourceLang, c.TargetLang); err != nil {
			return err
		}
		if c.TranslatorAPIKey == "" {
			return errors.New("translator API key is required unless translation is skipped")
		}
	}
	return nil
}

// RunSubtitles executes the full video-to-subtitles flow.
func RunSubtitles(ctx context.Context, cfg Config) (usecase.SubtitleResult, error) {
	uc, st, err := build(cfg)
	if err != nil {
		return usecase.SubtitleResult{}, err
	}
	defer closeStore(st)

	pair, err := resolvePair(cfg)
	if err != nil {
		return usecase.SubtitleResult{}, err
	}
	style, err := cfg.App.SubtitleStyle()
	if err != nil {
		return usecase.SubtitleResult{}, err
	}
	userID, err := resolveUser(ctx, st, cfg.UserEmail)
	if err != nil {
		return usecase.SubtitleResult{}, err
	}

	return uc.GenerateVideoSubtitles(ctx, usecase.SubtitleInput{
		InputVideo:      cfg.Input,
		OutDir:          outDir(cfg),
		CacheDir:        cacheDir(cfg),
		Languages:       pair,
		Options:         cueOptions(cfg.App),
		Style:           style,
		Limits:          limits(cfg.App),
		BurnIn:          cfg.BurnIn,
		SkipTranslation: cfg.SkipTranslation,
		UserID:          userID,
	})
}

// RunTranscribe executes the audio-only transcription flow.
func RunTranscribe(ctx context.Context, cfg Config) (usecase.TranscribeResult, error) {
	uc, st, err := build(cfg)
	if err != nil {
		return usecase.TranscribeResult{}, err
	}
	defer closeStore(st)

	userID, err := resolveUser(ctx, st, cfg.UserEmail)
	if err != nil {
		return usecase.TranscribeResult{}, err
	}

	return uc.TranscribeAudio(ctx, usecase.TranscribeInput{
		InputAudio: cfg.Input,
		OutDir:     outDir(cfg),
		CacheDir:   cacheDir(cfg),
		Language:   language.Normalize(cfg.SourceLang),
		Options:    cueOptions(cfg.App),
		Limits:     limits(cfg.App),
		AsSRT:      cfg.SRTOutput,
		UserID:     userID,
	})
}

func build(cfg Config) (usecase.Usecase, *store.Store, error) {
	media := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	if !media.Available() {
		return usecase.Usecase{}, nil, errors.New("ffmpeg not found; install it or set --ffmpeg")
	}
	asr := whisperapi.New(cfg.STTAPIKey, cfg.App.STT.Model, cfg.App.STT.BaseURL)
	translator := anthropic.New(cfg.TranslatorAPIKey, cfg.App.Translator.Model, cfg.App.Translator.BaseURL)

	st, err := store.Open(cfg.App.Database.Path)
	if err != nil {
		return usecase.Usecase{}, nil, fmt.Errorf("open store: %w", err)
	}

	uc := usecase.New(usecase.Deps{
		Media:      media,
		ASR:        asr,
		Translator: translator,
		Usage:      st,
	})
	return uc, st, nil
}

func resolvePair(cfg Config) (language.Pair, error) {
	if cfg.SkipTranslation {
		src := language.Normalize(cfg.SourceLang)
		return language.Pair{Source: src, Target: src}, nil
	}
	return language.ParsePair(cfg.SourceLang, cfg.TargetLang)
}

func resolveUser(ctx context.Context, st *store.Store, email string) (int64, error) {
	if email == "" {
		return 0, nil
	}
	u, err := st.GetUserByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("resolve user %s: %w", email, err)
	}
	return u.ID, nil
}

func cueOptions(app *config.Config) subtitles.Options {
	return subtitles.Options{
		MaxCharsPerLine:   app.Subtitles.MaxCharsPerLine,
		MaxLines:          app.Subtitles.MaxLines,
		FallbackWindowSec: app.Subtitles.FallbackWindowSec,
	}
}

func limits(app *config.Config) usecase.Limits {
	return usecase.Limits{
		ChunkSeconds:    app.Limits.ChunkSeconds,
		MaxConcurrent:   app.Limits.MaxConcurrent,
		MaxRetries:      app.Limits.MaxRetries,
		RateLimitPerMin: app.Limits.RateLimitPerMin,
	}
}

func outDir(cfg Config) string {
	if cfg.OutDir != "" {
		return cfg.OutDir
	}
	return "out"
}

// cacheDir keys the cache by input path so re-runs of the same file reuse
// extracted audio chunks.
func cacheDir(cfg Config) string {
	base := cfg.CacheDir
	if base == "" {
		base = ".cache"
	}
	return filepath.Join(base, "runs", hash(cfg.Input))
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Warn("closing store", "error", err)
	}
}

// ensure adapters implement ports
var _ ports.MediaTool = (*ffmpeg.Adapter)(nil)
var _ ports.Recognizer = (*whisperapi.Adapter)(nil)
var _ ports.Translator = (*anthropic.Adapter)(nil)
var _ ports.UsageRecorder = (*store.Store)(nil)
