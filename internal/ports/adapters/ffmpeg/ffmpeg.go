package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/op5no29/subtitle-generator/internal/domain/subtitles"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// Available reports whether the ffmpeg binary can be found.
func (a *Adapter) Available() bool {
	_, err := exec.LookPath(a.ffmpeg)
	return err == nil
}

// ExtractAudio pulls a mono 16kHz WAV track out of a video or audio file,
// the format the recognition service expects.
func (a *Adapter) ExtractAudio(ctx context.Context, inPath, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

// ProbeDuration returns the container duration in seconds.
func (a *Adapter) ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

// SplitAudio cuts an audio file into fixed-length chunks with the segment
// muxer and returns the chunk paths in timeline order.
func (a *Adapter) SplitAudio(ctx context.Context, inPath, outDir string, chunkSeconds int) ([]string, error) {
	if chunkSeconds <= 0 {
		return nil, fmt.Errorf("chunk seconds must be > 0, got %d", chunkSeconds)
	}
	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	pattern := filepath.Join(outDir, base+"_chunk_%03d.wav")
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inPath,
		"-f", "segment",
		"-segment_time", strconv.Itoa(chunkSeconds),
		"-c", "copy",
		pattern,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg split audio: %w\n%s", err, string(b))
	}

	matches, err := filepath.Glob(filepath.Join(outDir, base+"_chunk_*.wav"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("ffmpeg split produced no chunks in %s", outDir)
	}
	sort.Strings(matches)
	return matches, nil
}

// BurnSubtitles re-encodes videoPath with the SRT rendered into the picture.
func (a *Adapter) BurnSubtitles(ctx context.Context, videoPath, srtPath, outPath string, style subtitles.Style) error {
	if _, err := os.Stat(srtPath); err != nil {
		return fmt.Errorf("stat srt: %w", err)
	}
	filter := fmt.Sprintf("subtitles=%s:force_style='%s'", escapeFilterPath(srtPath), forceStyle(style))
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", videoPath,
		"-vf", filter,
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-c:a", "aac",
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg burn subtitles: %w\n%s", err, string(b))
	}
	info, err := os.Stat(outPath)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("ffmpeg burn subtitles produced no output at %s", outPath)
	}
	return nil
}

// forceStyle maps the enumerated style onto libass force_style syntax.
func forceStyle(style subtitles.Style) string {
	return fmt.Sprintf("FontSize=%d,PrimaryColour=%s,OutlineColour=&H000000,BackColour=&H80000000,Outline=2,Shadow=1,Alignment=%d",
		style.FontSize, colorCode(style.Color), alignment(style.Position))
}

// alignment maps position keywords to libass numpad alignment values.
func alignment(p subtitles.Position) int {
	switch p {
	case subtitles.PositionTop:
		return 8
	case subtitles.PositionCenter:
		return 5
	default:
		return 2
	}
}

// colorCode maps color keywords to libass &H BGR codes.
func colorCode(c subtitles.Color) string {
	switch c {
	case subtitles.ColorYellow:
		return "&H00ffff"
	case subtitles.ColorBlue:
		return "&Hff0000"
	case subtitles.ColorGreen:
		return "&H00ff00"
	default:
		return "&Hffffff"
	}
}

// escapeFilterPath escapes characters the subtitles filter treats specially.
func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	p = strings.ReplaceAll(p, ",", "\\,")
	return p
}
