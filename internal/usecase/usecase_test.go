package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/op5no29/subtitle-generator/internal/domain/language"
	"github.com/op5no29/subtitle-generator/internal/domain/subtitles"
	"github.com/op5no29/subtitle-generator/internal/types"
)

func TestGenerateVideoSubtitles_BurnInToggle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		burnIn bool
	}{
		{name: "disabled", burnIn: false},
		{name: "enabled", burnIn: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tmp := t.TempDir()
			media := &fakeMedia{duration: 12}
			translator := &fakeTranslator{out: "Hello world."}
			usage := &fakeUsage{}
			uc := New(Deps{
				Media:      media,
				ASR:        &fakeASR{def: timedJapaneseResult()},
				Translator: translator,
				Usage:      usage,
			})

			res, err := uc.GenerateVideoSubtitles(context.Background(), SubtitleInput{
				InputVideo: filepath.Join(tmp, "talk.mp4"),
				OutDir:     filepath.Join(tmp, "out"),
				CacheDir:   filepath.Join(tmp, "cache"),
				Languages:  language.Pair{Source: language.Auto, Target: language.English},
				BurnIn:     tc.burnIn,
			})
			if err != nil {
				t.Fatalf("generate: %v", err)
			}

			b, err := os.ReadFile(res.SRTPath)
			if err != nil {
				t.Fatalf("read srt: %v", err)
			}
			if !strings.Contains(string(b), "Hello world") {
				t.Fatalf("expected translated text in srt, got:\n%s", b)
			}
			if !res.Translated {
				t.Fatalf("expected translation to run")
			}
			if res.Detected != language.Japanese {
				t.Fatalf("detected = %q, want ja", res.Detected)
			}

			if tc.burnIn {
				if len(media.burned) != 1 {
					t.Fatalf("expected 1 burn call, got %d", len(media.burned))
				}
				if res.VideoPath == "" || !strings.HasSuffix(res.VideoPath, "_subtitled.mp4") {
					t.Fatalf("unexpected video path %q", res.VideoPath)
				}
			} else {
				if len(media.burned) != 0 {
					t.Fatalf("expected no burn call, got %d", len(media.burned))
				}
				if res.VideoPath != "" {
					t.Fatalf("expected empty video path, got %q", res.VideoPath)
				}
			}

			if len(usage.records) != 1 {
				t.Fatalf("expected 1 usage record, got %d", len(usage.records))
			}
			rec := usage.records[0]
			if rec.Feature != "video_subtitles" || rec.FileName != "talk.mp4" || !rec.TranslationUsed {
				t.Fatalf("unexpected usage record: %+v", rec)
			}
		})
	}
}

func TestGenerateVideoSubtitles_SkipsTranslationForSameLanguage(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	translator := &fakeTranslator{out: "should not be used"}
	uc := New(Deps{
		Media:      &fakeMedia{duration: 12},
		ASR:        &fakeASR{def: timedJapaneseResult()},
		Translator: translator,
	})

	res, err := uc.GenerateVideoSubtitles(context.Background(), SubtitleInput{
		InputVideo: filepath.Join(tmp, "talk.mp4"),
		OutDir:     filepath.Join(tmp, "out"),
		CacheDir:   filepath.Join(tmp, "cache"),
		Languages:  language.Pair{Source: language.Auto, Target: language.Japanese},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if translator.calls != 0 {
		t.Fatalf("expected translator untouched, got %d calls", translator.calls)
	}
	if res.Translated {
		t.Fatalf("expected untranslated result")
	}
	b, err := os.ReadFile(res.SRTPath)
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	if !strings.Contains(string(b), "こんにちは世界") {
		t.Fatalf("expected original text in srt, got:\n%s", b)
	}
}

func TestTranscribe_ChunksLongAudio(t *testing.T) {
	t.Parallel()

	chunks := []string{"chunk_000.wav", "chunk_001.wav", "chunk_002.wav"}
	asr := &fakeASR{perPath: map[string]types.TranscriptionResult{
		"chunk_000.wav": {Text: "one", Words: []types.Word{{Text: "one", Start: fptr(1), End: fptr(2)}}, Language: "en"},
		"chunk_001.wav": {Text: "two", Words: []types.Word{{Text: "two", Start: fptr(3), End: fptr(4)}}},
		"chunk_002.wav": {Text: "three", Words: []types.Word{{Text: "three", Start: fptr(5), End: fptr(6)}}},
	}}
	uc := New(Deps{Media: &fakeMedia{duration: 1250, chunks: chunks}, ASR: asr})

	tr, err := uc.transcribe(context.Background(), "long.wav", language.Auto, t.TempDir(),
		Limits{ChunkSeconds: 600, MaxConcurrent: 2, MaxRetries: 1, RateLimitPerMin: 6000})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}

	if tr.Text != "one two three" {
		t.Fatalf("merged text = %q", tr.Text)
	}
	if len(tr.Words) != 3 {
		t.Fatalf("expected 3 merged words, got %d", len(tr.Words))
	}
	// Words keep chunk order with per-chunk time offsets applied.
	wantStarts := []float64{1, 603, 1205}
	for i, want := range wantStarts {
		if got := tr.Words[i].StartOr(-1); got != want {
			t.Fatalf("word %d start = %v, want %v", i, got, want)
		}
	}
	if tr.Language != "en" {
		t.Fatalf("merged language = %q, want en", tr.Language)
	}
}

func TestTranscribe_RetryExhaustion(t *testing.T) {
	t.Parallel()

	asr := &fakeASR{err: errors.New("server busy")}
	uc := New(Deps{Media: &fakeMedia{duration: 10}, ASR: asr})

	_, err := uc.transcribe(context.Background(), "a.wav", language.Auto, t.TempDir(),
		Limits{ChunkSeconds: 600, MaxConcurrent: 1, MaxRetries: 1, RateLimitPerMin: 6000})
	if err == nil {
		t.Fatalf("expected error after exhausted retries")
	}
	if asr.calls != 1 {
		t.Fatalf("expected 1 attempt, got %d", asr.calls)
	}
}

func TestTranscribeAudio_OutputModes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		asSRT   bool
		wantExt string
		marker  string
	}{
		{name: "plain text", asSRT: false, wantExt: ".txt", marker: "こんにちは世界。"},
		{name: "srt", asSRT: true, wantExt: ".srt", marker: "00:00:00,000 --> "},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tmp := t.TempDir()
			usage := &fakeUsage{}
			uc := New(Deps{
				Media: &fakeMedia{duration: 12},
				ASR:   &fakeASR{def: timedJapaneseResult()},
				Usage: usage,
			})

			res, err := uc.TranscribeAudio(context.Background(), TranscribeInput{
				InputAudio: filepath.Join(tmp, "voice.m4a"),
				OutDir:     filepath.Join(tmp, "out"),
				CacheDir:   filepath.Join(tmp, "cache"),
				Language:   language.Auto,
				AsSRT:      tc.asSRT,
			})
			if err != nil {
				t.Fatalf("transcribe: %v", err)
			}
			if filepath.Ext(res.OutPath) != tc.wantExt {
				t.Fatalf("out path = %q, want extension %s", res.OutPath, tc.wantExt)
			}
			b, err := os.ReadFile(res.OutPath)
			if err != nil {
				t.Fatalf("read output: %v", err)
			}
			if !strings.Contains(string(b), tc.marker) {
				t.Fatalf("expected %q in output, got:\n%s", tc.marker, b)
			}
			if len(usage.records) != 1 || usage.records[0].Feature != "transcription" {
				t.Fatalf("unexpected usage records: %+v", usage.records)
			}
		})
	}
}

func TestGenerateVideoSubtitles_EmptyTranscriptFails(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	uc := New(Deps{
		Media: &fakeMedia{duration: 12},
		ASR:   &fakeASR{def: types.TranscriptionResult{Text: "   "}},
	})

	_, err := uc.GenerateVideoSubtitles(context.Background(), SubtitleInput{
		InputVideo: filepath.Join(tmp, "silent.mp4"),
		OutDir:     filepath.Join(tmp, "out"),
		CacheDir:   filepath.Join(tmp, "cache"),
		Languages:  language.Pair{Source: language.Auto, Target: language.English},
	})
	if err == nil || !strings.Contains(err.Error(), "no speech recognized") {
		t.Fatalf("expected no-speech error, got %v", err)
	}
}

type fakeMedia struct {
	duration float64
	chunks   []string

	extracted []string
	burned    []string
}

func (f *fakeMedia) ExtractAudio(_ context.Context, _, outWav string) error {
	f.extracted = append(f.extracted, outWav)
	return nil
}

func (f *fakeMedia) ProbeDuration(_ context.Context, _ string) (float64, error) {
	return f.duration, nil
}

func (f *fakeMedia) SplitAudio(_ context.Context, _, _ string, _ int) ([]string, error) {
	return f.chunks, nil
}

func (f *fakeMedia) BurnSubtitles(_ context.Context, _, _, outPath string, _ subtitles.Style) error {
	f.burned = append(f.burned, outPath)
	return nil
}

type fakeASR struct {
	def     types.TranscriptionResult
	perPath map[string]types.TranscriptionResult
	err     error

	calls int
}

func (f *fakeASR) Transcribe(_ context.Context, audioPath string, _ language.Language) (types.TranscriptionResult, error) {
	f.calls++
	if f.err != nil {
		return types.TranscriptionResult{}, f.err
	}
	if res, ok := f.perPath[audioPath]; ok {
		return res, nil
	}
	return f.def, nil
}

type fakeTranslator struct {
	out   string
	calls int
}

func (f *fakeTranslator) Translate(_ context.Context, _ string, _ language.Pair) (string, error) {
	f.calls++
	return f.out, nil
}

type fakeUsage struct {
	records []types.UsageRecord
}

func (f *fakeUsage) LogUsage(_ context.Context, rec types.UsageRecord) error {
	f.records = append(f.records, rec)
	return nil
}

func timedJapaneseResult() types.TranscriptionResult {
	return types.TranscriptionResult{
		Text:     "こんにちは世界。",
		Words:    []types.Word{{Text: "こんにちは世界。", Start: fptr(0), End: fptr(1.6)}},
		Language: "ja",
	}
}

func fptr(v float64) *float64 { return &v }
